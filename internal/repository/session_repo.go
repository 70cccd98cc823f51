package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kandidou391-dotcom/pfe/internal/model"
)

// SessionRepository 课次数据访问接口
type SessionRepository interface {
	// ListIDsByTeacher 教师所有课次 ID（不区分状态）
	ListIDsByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]primitive.ObjectID, error)
	// ListActiveByTeacher 教师的有效课次，关联有效期、课程、班级，按开始时间升序
	ListActiveByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]model.Session, error)
	// ListActiveByClasses 指定班级的有效课次，关联同上
	ListActiveByClasses(ctx context.Context, classIDs []primitive.ObjectID) ([]model.Session, error)
}

type sessionRepo struct {
	collection
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(db *mongo.Database, timeout time.Duration) SessionRepository {
	return &sessionRepo{newCollection(db, model.CollectionSessions, timeout)}
}

func (r *sessionRepo) ListIDsByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "_id", bson.M{"enseignant": teacherID})
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *sessionRepo) ListActiveByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]model.Session, error) {
	return r.listWithRefs(ctx, bson.M{"enseignant": teacherID, "statut": model.SessionStatusActive})
}

func (r *sessionRepo) ListActiveByClasses(ctx context.Context, classIDs []primitive.ObjectID) ([]model.Session, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	return r.listWithRefs(ctx, bson.M{"classe": bson.M{"$in": classIDs}, "statut": model.SessionStatusActive})
}

func (r *sessionRepo) listWithRefs(ctx context.Context, match bson.M) ([]model.Session, error) {
	var sessions []model.Session
	if err := r.aggregate(ctx, sessionPipeline(match), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// sessionPipeline 关联有效期 / 课程 / 班级，缺失的关联保留为空
func sessionPipeline(match bson.M) []bson.M {
	lookup := func(from, localField, as string) []bson.M {
		return []bson.M{
			{"$lookup": bson.M{"from": from, "localField": localField, "foreignField": "_id", "as": as}},
			{"$unwind": bson.M{"path": "$" + as, "preserveNullAndEmptyArrays": true}},
		}
	}

	pipeline := []bson.M{{"$match": match}}
	pipeline = append(pipeline, lookup(model.CollectionSchedulePeriods, "emploiDuTemps", "periodDoc")...)
	pipeline = append(pipeline, lookup(model.CollectionCourses, "cours", "courseDoc")...)
	pipeline = append(pipeline, lookup(model.CollectionClasses, "classe", "classDoc")...)
	pipeline = append(pipeline,
		bson.M{"$project": bson.M{"classDoc.etudiants": 0, "classDoc.enseignants": 0}},
		bson.M{"$sort": bson.D{{Key: "heureDebut", Value: 1}}},
	)
	return pipeline
}
