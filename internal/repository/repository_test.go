package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/kandidou391-dotcom/pfe/internal/model"
	pkgerrors "github.com/kandidou391-dotcom/pfe/pkg/errors"
)

// ── 测试辅助 ──

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func ns(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

func countResponse(mt *mtest.T, coll string, n int32) bson.D {
	return mtest.CreateCursorResponse(0, ns(mt, coll), mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

// ── ParseObjectID ──

func TestParseObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := ParseObjectID(id.Hex())
	if err != nil {
		t.Fatalf("合法 ID 应解析成功: %v", err)
	}
	if got != id {
		t.Errorf("期望 %s，实际 %s", id.Hex(), got.Hex())
	}

	if _, err := ParseObjectID("not-an-id"); !errors.Is(err, pkgerrors.ErrInvalidObjectID) {
		t.Errorf("期望 ErrInvalidObjectID，实际 %v", err)
	}
}

// ── User ──

func TestUserRepo_GetByID(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, model.CollectionUsers), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "prenom", Value: "Amine"},
			{Key: "nom", Value: "Ben Ali"},
			{Key: "role", Value: "enseignant"},
		}))

		user, err := NewUserRepo(mt.DB, time.Second).GetByID(context.Background(), id)
		if err != nil {
			mt.Fatalf("GetByID 应成功: %v", err)
		}
		if user.DisplayName("") != "Amine Ben Ali" {
			mt.Errorf("期望 Amine Ben Ali，实际 %s", user.DisplayName(""))
		}
		if model.ParseRole(user.Role) != model.RoleTeacher {
			mt.Errorf("期望角色 teacher，实际 %s", user.Role)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, model.CollectionUsers), mtest.FirstBatch))

		_, err := NewUserRepo(mt.DB, time.Second).GetByID(context.Background(), primitive.NewObjectID())
		if !errors.Is(err, mongo.ErrNoDocuments) {
			mt.Errorf("期望 ErrNoDocuments，实际 %v", err)
		}
	})
}

func TestUserRepo_RoleBreakdown(t *testing.T) {
	mt := newMockT(t)

	mt.Run("groups", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, model.CollectionUsers), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "etudiant"}, {Key: "count", Value: int64(10)}, {Key: "maleCount", Value: int64(6)}, {Key: "femaleCount", Value: int64(4)}},
			bson.D{{Key: "_id", Value: "enseignant"}, {Key: "count", Value: int64(3)}, {Key: "maleCount", Value: int64(0)}, {Key: "femaleCount", Value: int64(0)}},
		))

		rows, err := NewUserRepo(mt.DB, time.Second).RoleBreakdown(context.Background())
		if err != nil {
			mt.Fatalf("RoleBreakdown 应成功: %v", err)
		}
		if len(rows) != 2 {
			mt.Fatalf("期望 2 组，实际 %d", len(rows))
		}
		if rows[0].Count != 10 || rows[0].MaleCount != 6 || rows[0].FemaleCount != 4 {
			mt.Errorf("学生分组解码错误: %+v", rows[0])
		}
	})

	mt.Run("command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "boom"}))

		if _, err := NewUserRepo(mt.DB, time.Second).RoleBreakdown(context.Background()); err == nil {
			mt.Error("命令失败时应返回错误")
		}
	})
}

// ── Course / Exam 计数 ──

func TestCourseRepo_Count(t *testing.T) {
	mt := newMockT(t)

	mt.Run("by teacher", func(mt *mtest.T) {
		mt.AddMockResponses(countResponse(mt, model.CollectionCourses, 3))

		n, err := NewCourseRepo(mt.DB, time.Second).CountByTeacher(context.Background(), primitive.NewObjectID())
		if err != nil {
			mt.Fatalf("CountByTeacher 应成功: %v", err)
		}
		if n != 3 {
			mt.Errorf("期望 3，实际 %d", n)
		}
	})

	mt.Run("all", func(mt *mtest.T) {
		mt.AddMockResponses(countResponse(mt, model.CollectionCourses, 42))

		n, err := NewCourseRepo(mt.DB, time.Second).CountAll(context.Background())
		if err != nil {
			mt.Fatalf("CountAll 应成功: %v", err)
		}
		if n != 42 {
			mt.Errorf("期望 42，实际 %d", n)
		}
	})
}

func TestExamRepo_CountUpcomingByClasses_NoClasses(t *testing.T) {
	mt := newMockT(t)

	mt.Run("skips query", func(mt *mtest.T) {
		// 未注入任何响应：若发出查询会失败
		n, err := NewExamRepo(mt.DB, time.Second).CountUpcomingByClasses(context.Background(), nil, time.Now())
		if err != nil {
			mt.Fatalf("空班级应直接返回: %v", err)
		}
		if n != 0 {
			mt.Errorf("期望 0，实际 %d", n)
		}
	})
}

func TestExamRepo_CountAssignmentsByTeacher(t *testing.T) {
	mt := newMockT(t)

	mt.Run("count", func(mt *mtest.T) {
		mt.AddMockResponses(countResponse(mt, model.CollectionExams, 5))

		n, err := NewExamRepo(mt.DB, time.Second).CountAssignmentsByTeacher(context.Background(), primitive.NewObjectID())
		if err != nil {
			mt.Fatalf("CountAssignmentsByTeacher 应成功: %v", err)
		}
		if n != 5 {
			mt.Errorf("期望 5，实际 %d", n)
		}
	})
}

// ── Class ──

func TestClassRepo_ListByTeacher_RefListShapes(t *testing.T) {
	mt := newMockT(t)

	mt.Run("single and array refs", func(mt *mtest.T) {
		s1, s2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, model.CollectionClasses), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "nom", Value: "GL2"}, {Key: "etudiants", Value: bson.A{s1, s2}}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "nom", Value: "GL3"}, {Key: "etudiants", Value: s1}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "nom", Value: "GL4"}, {Key: "etudiants", Value: nil}},
		))

		classes, err := NewClassRepo(mt.DB, time.Second).ListByTeacher(context.Background(), primitive.NewObjectID())
		if err != nil {
			mt.Fatalf("ListByTeacher 应成功: %v", err)
		}
		if len(classes) != 3 {
			mt.Fatalf("期望 3 个班级，实际 %d", len(classes))
		}
		if len(classes[0].Students) != 2 || len(classes[1].Students) != 1 || len(classes[2].Students) != 0 {
			mt.Errorf("学生引用解码错误: %d/%d/%d", len(classes[0].Students), len(classes[1].Students), len(classes[2].Students))
		}
		if !classes[1].Students.Contains(s1) {
			mt.Error("单值引用应被解码为包含该 ID 的列表")
		}
	})
}

// ── Session ──

func TestSessionRepo_ListIDsByTeacher(t *testing.T) {
	mt := newMockT(t)

	mt.Run("distinct", func(mt *mtest.T) {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "values", Value: bson.A{a, b}}})

		ids, err := NewSessionRepo(mt.DB, time.Second).ListIDsByTeacher(context.Background(), primitive.NewObjectID())
		if err != nil {
			mt.Fatalf("ListIDsByTeacher 应成功: %v", err)
		}
		if len(ids) != 2 || ids[0] != a || ids[1] != b {
			mt.Errorf("ID 列表错误: %v", ids)
		}
	})
}

func TestSessionRepo_ListActiveByTeacher_Lookups(t *testing.T) {
	mt := newMockT(t)

	mt.Run("decodes joined docs", func(mt *mtest.T) {
		start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, model.CollectionSessions), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "jourSemaine", Value: "Lundi"},
				{Key: "heureDebut", Value: "08:30"},
				{Key: "heureFin", Value: "10:00"},
				{Key: "salle", Value: "A12"},
				{Key: "typeCours", Value: "TD"},
				{Key: "statut", Value: "actif"},
				{Key: "periodDoc", Value: bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "dateDebut", Value: start}, {Key: "dateFin", Value: end}}},
				{Key: "courseDoc", Value: bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "nom", Value: "Algorithmique"}}},
			},
		))

		sessions, err := NewSessionRepo(mt.DB, time.Second).ListActiveByTeacher(context.Background(), primitive.NewObjectID())
		if err != nil {
			mt.Fatalf("ListActiveByTeacher 应成功: %v", err)
		}
		if len(sessions) != 1 {
			mt.Fatalf("期望 1 个课次，实际 %d", len(sessions))
		}
		s := sessions[0]
		if s.CourseInfo == nil || s.CourseInfo.Name != "Algorithmique" {
			mt.Errorf("课程关联解码错误: %+v", s.CourseInfo)
		}
		if s.ClassInfo != nil {
			mt.Error("缺失的班级关联应为 nil")
		}
		if !s.Period.Covers(time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)) {
			mt.Error("有效期应覆盖 2026-10-12")
		}
	})
}

func TestSessionRepo_ListActiveByClasses_NoClasses(t *testing.T) {
	mt := newMockT(t)

	mt.Run("skips query", func(mt *mtest.T) {
		sessions, err := NewSessionRepo(mt.DB, time.Second).ListActiveByClasses(context.Background(), nil)
		if err != nil || sessions != nil {
			mt.Errorf("空班级应返回 nil, nil，实际 %v, %v", sessions, err)
		}
	})
}

// ── Attendance ──

func TestAttendanceRepo_Tally(t *testing.T) {
	mt := newMockT(t)

	mt.Run("by student", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, model.CollectionAttendances), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: nil}, {Key: "total", Value: int32(4)}, {Key: "present", Value: int32(3)}},
		))

		tally, err := NewAttendanceRepo(mt.DB, time.Second).TallyByStudent(context.Background(), primitive.NewObjectID())
		if err != nil {
			mt.Fatalf("TallyByStudent 应成功: %v", err)
		}
		if tally.Total != 4 || tally.Present != 3 {
			mt.Errorf("期望 3/4，实际 %d/%d", tally.Present, tally.Total)
		}
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, model.CollectionAttendances), mtest.FirstBatch))

		tally, err := NewAttendanceRepo(mt.DB, time.Second).TallyAll(context.Background())
		if err != nil {
			mt.Fatalf("TallyAll 应成功: %v", err)
		}
		if tally.Total != 0 || tally.Present != 0 {
			mt.Errorf("空集合期望 0/0，实际 %d/%d", tally.Present, tally.Total)
		}
	})

	mt.Run("no sessions skips query", func(mt *mtest.T) {
		tally, err := NewAttendanceRepo(mt.DB, time.Second).TallyBySessions(context.Background(), nil)
		if err != nil || tally.Total != 0 {
			mt.Errorf("空课次应返回零值，实际 %+v, %v", tally, err)
		}
	})
}

// ── Grade ──

func TestGradeRepo_ListByStudent(t *testing.T) {
	mt := newMockT(t)

	mt.Run("decodes values", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, model.CollectionGrades), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "note", Value: 70.0}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "note", Value: 92.5}},
		))

		grades, err := NewGradeRepo(mt.DB, time.Second).ListByStudent(context.Background(), primitive.NewObjectID())
		if err != nil {
			mt.Fatalf("ListByStudent 应成功: %v", err)
		}
		if len(grades) != 2 || grades[1].Value != 92.5 {
			mt.Errorf("成绩解码错误: %+v", grades)
		}
	})
}

// ── Announcement / Notification ──

func TestAnnouncementRepo_ListRecentActive(t *testing.T) {
	mt := newMockT(t)

	mt.Run("list", func(mt *mtest.T) {
		created := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, model.CollectionAnnouncements), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "titre", Value: "Vacances"}, {Key: "type", Value: "holiday"}, {Key: "estActif", Value: true}, {Key: "createdAt", Value: created}},
		))

		items, err := NewAnnouncementRepo(mt.DB, time.Second).ListRecentActive(context.Background(), 5)
		if err != nil {
			mt.Fatalf("ListRecentActive 应成功: %v", err)
		}
		if len(items) != 1 || items[0].Title != "Vacances" || !items[0].CreatedAt.Equal(created) {
			mt.Errorf("公告解码错误: %+v", items)
		}
	})
}

func TestNotificationRepo_ListRecentByUser(t *testing.T) {
	mt := newMockT(t)

	mt.Run("list", func(mt *mtest.T) {
		user := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, model.CollectionNotifications), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "utilisateur", Value: user}, {Key: "message", Value: "Nouvelle note"}, {Key: "type", Value: "note"}},
		))

		items, err := NewNotificationRepo(mt.DB, time.Second).ListRecentByUser(context.Background(), user, 5)
		if err != nil {
			mt.Fatalf("ListRecentByUser 应成功: %v", err)
		}
		if len(items) != 1 || items[0].User != user || items[0].Type != "note" {
			mt.Errorf("通知解码错误: %+v", items)
		}
	})
}
