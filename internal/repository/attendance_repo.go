package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kandidou391-dotcom/pfe/internal/model"
)

// AttendanceRepository 出勤数据访问接口
type AttendanceRepository interface {
	TallyBySessions(ctx context.Context, sessionIDs []primitive.ObjectID) (model.AttendanceTally, error)
	TallyByStudent(ctx context.Context, studentID primitive.ObjectID) (model.AttendanceTally, error)
	TallyAll(ctx context.Context) (model.AttendanceTally, error)
}

type attendanceRepo struct {
	collection
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *mongo.Database, timeout time.Duration) AttendanceRepository {
	return &attendanceRepo{newCollection(db, model.CollectionAttendances, timeout)}
}

func (r *attendanceRepo) TallyBySessions(ctx context.Context, sessionIDs []primitive.ObjectID) (model.AttendanceTally, error) {
	if len(sessionIDs) == 0 {
		return model.AttendanceTally{}, nil
	}
	return r.tally(ctx, bson.M{"seance": bson.M{"$in": sessionIDs}})
}

func (r *attendanceRepo) TallyByStudent(ctx context.Context, studentID primitive.ObjectID) (model.AttendanceTally, error) {
	return r.tally(ctx, bson.M{"etudiant": studentID})
}

func (r *attendanceRepo) TallyAll(ctx context.Context) (model.AttendanceTally, error) {
	return r.tally(ctx, bson.M{})
}

// tally 单次分组统计总数与出勤数
func (r *attendanceRepo) tally(ctx context.Context, match bson.M) (model.AttendanceTally, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"present": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$statut", model.AttendancePresent}}, 1, 0,
			}}},
		}},
	}

	var rows []model.AttendanceTally
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return model.AttendanceTally{}, err
	}
	if len(rows) == 0 {
		return model.AttendanceTally{}, nil
	}
	return rows[0], nil
}
