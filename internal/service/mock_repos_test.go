package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kandidou391-dotcom/pfe/internal/model"
	"github.com/kandidou391-dotcom/pfe/internal/repository"
)

// ── 内存文档库 ──
//
// 所有 Mock Repository 共享一个 mockStore；setup 之后只读，可被并发查询。
// calls 统计查询次数，err 非空时所有查询返回该错误。

type mockStore struct {
	users         []model.User
	courses       []model.Course
	classes       []model.Class
	sessions      []model.Session
	attendances   []model.Attendance
	grades        []model.Grade
	exams         []model.Exam
	announcements []model.Announcement
	notifications []model.Notification

	err   error
	calls atomic.Int64
}

func newMockStore() *mockStore {
	return &mockStore{}
}

// repository 以 mockStore 组装完整的 Repository 聚合
func (m *mockStore) repository() *repository.Repository {
	return &repository.Repository{
		User:         &mockUserRepo{m},
		Course:       &mockCourseRepo{m},
		Class:        &mockClassRepo{m},
		Session:      &mockSessionRepo{m},
		Attendance:   &mockAttendanceRepo{m},
		Grade:        &mockGradeRepo{m},
		Exam:         &mockExamRepo{m},
		Announcement: &mockAnnouncementRepo{m},
		Notification: &mockNotificationRepo{m},
	}
}

func (m *mockStore) hit() error {
	m.calls.Add(1)
	return m.err
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ── Mock UserRepository ──

type mockUserRepo struct{ m *mockStore }

func (r *mockUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	for i := range r.m.users {
		if r.m.users[i].ID == id {
			u := r.m.users[i]
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *mockUserRepo) RoleBreakdown(_ context.Context) ([]model.RoleCount, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	index := map[string]*model.RoleCount{}
	var order []string
	for _, u := range r.m.users {
		rc, ok := index[u.Role]
		if !ok {
			rc = &model.RoleCount{Role: u.Role}
			index[u.Role] = rc
			order = append(order, u.Role)
		}
		rc.Count++
		if model.ParseRole(u.Role) == model.RoleStudent {
			switch u.Gender {
			case model.GenderMale:
				rc.MaleCount++
			case model.GenderFemale:
				rc.FemaleCount++
			}
		}
	}
	out := make([]model.RoleCount, 0, len(order))
	for _, role := range order {
		out = append(out, *index[role])
	}
	return out, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct{ m *mockStore }

func (r *mockCourseRepo) CountByTeacher(_ context.Context, teacherID primitive.ObjectID) (int64, error) {
	if err := r.m.hit(); err != nil {
		return 0, err
	}
	var n int64
	for _, c := range r.m.courses {
		if c.Teacher == teacherID {
			n++
		}
	}
	return n, nil
}

func (r *mockCourseRepo) CountAll(_ context.Context) (int64, error) {
	if err := r.m.hit(); err != nil {
		return 0, err
	}
	return int64(len(r.m.courses)), nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct{ m *mockStore }

func (r *mockClassRepo) ListByTeacher(_ context.Context, teacherID primitive.ObjectID) ([]model.Class, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	var out []model.Class
	for _, c := range r.m.classes {
		if c.Teachers.Contains(teacherID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *mockClassRepo) ListByStudent(_ context.Context, studentID primitive.ObjectID) ([]model.Class, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	var out []model.Class
	for _, c := range r.m.classes {
		if c.Students.Contains(studentID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *mockClassRepo) Sample(_ context.Context, limit int64) ([]model.Class, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	out := r.m.classes
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return append([]model.Class(nil), out...), nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct{ m *mockStore }

func (r *mockSessionRepo) ListIDsByTeacher(_ context.Context, teacherID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	var ids []primitive.ObjectID
	for _, s := range r.m.sessions {
		if s.Teacher == teacherID {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

func (r *mockSessionRepo) ListActiveByTeacher(_ context.Context, teacherID primitive.ObjectID) ([]model.Session, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	var out []model.Session
	for _, s := range r.m.sessions {
		if s.Teacher == teacherID && s.Status == model.SessionStatusActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *mockSessionRepo) ListActiveByClasses(_ context.Context, classIDs []primitive.ObjectID) ([]model.Session, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	var out []model.Session
	for _, s := range r.m.sessions {
		if containsID(classIDs, s.Class) && s.Status == model.SessionStatusActive {
			out = append(out, s)
		}
	}
	return out, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct{ m *mockStore }

func (r *mockAttendanceRepo) tally(match func(model.Attendance) bool) (model.AttendanceTally, error) {
	if err := r.m.hit(); err != nil {
		return model.AttendanceTally{}, err
	}
	var t model.AttendanceTally
	for _, a := range r.m.attendances {
		if !match(a) {
			continue
		}
		t.Total++
		if a.Status == model.AttendancePresent {
			t.Present++
		}
	}
	return t, nil
}

func (r *mockAttendanceRepo) TallyBySessions(_ context.Context, sessionIDs []primitive.ObjectID) (model.AttendanceTally, error) {
	return r.tally(func(a model.Attendance) bool { return containsID(sessionIDs, a.Session) })
}

func (r *mockAttendanceRepo) TallyByStudent(_ context.Context, studentID primitive.ObjectID) (model.AttendanceTally, error) {
	return r.tally(func(a model.Attendance) bool { return a.Student == studentID })
}

func (r *mockAttendanceRepo) TallyAll(_ context.Context) (model.AttendanceTally, error) {
	return r.tally(func(model.Attendance) bool { return true })
}

// ── Mock GradeRepository / ExamRepository ──

type mockGradeRepo struct{ m *mockStore }

func (r *mockGradeRepo) ListByStudent(_ context.Context, studentID primitive.ObjectID) ([]model.Grade, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	var out []model.Grade
	for _, g := range r.m.grades {
		if g.Student == studentID {
			out = append(out, g)
		}
	}
	return out, nil
}

type mockExamRepo struct{ m *mockStore }

func (r *mockExamRepo) CountAssignmentsByTeacher(_ context.Context, teacherID primitive.ObjectID) (int64, error) {
	if err := r.m.hit(); err != nil {
		return 0, err
	}
	var n int64
	for _, e := range r.m.exams {
		if e.Teacher == teacherID && e.Type == model.ExamTypeAssignment {
			n++
		}
	}
	return n, nil
}

func (r *mockExamRepo) CountUpcomingByClasses(_ context.Context, classIDs []primitive.ObjectID, from time.Time) (int64, error) {
	if err := r.m.hit(); err != nil {
		return 0, err
	}
	var n int64
	for _, e := range r.m.exams {
		if containsID(classIDs, e.Class) && !e.Date.Before(from) {
			n++
		}
	}
	return n, nil
}

// ── Mock AnnouncementRepository / NotificationRepository ──

type mockAnnouncementRepo struct{ m *mockStore }

func (r *mockAnnouncementRepo) ListRecentActive(_ context.Context, limit int64) ([]model.Announcement, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	var out []model.Announcement
	for _, a := range r.m.announcements {
		if a.Active && int64(len(out)) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockNotificationRepo struct{ m *mockStore }

func (r *mockNotificationRepo) ListRecentByUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]model.Notification, error) {
	if err := r.m.hit(); err != nil {
		return nil, err
	}
	var out []model.Notification
	for _, n := range r.m.notifications {
		if n.User == userID && int64(len(out)) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}
