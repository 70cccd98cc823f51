package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kandidou391-dotcom/pfe/internal/model"
)

// ClassRepository 班级数据访问接口
type ClassRepository interface {
	// ListByTeacher 教师任教的班级（含学生列表）
	ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]model.Class, error)
	// ListByStudent 学生所在的班级（含课程列表）
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]model.Class, error)
	// Sample 任取 limit 个班级（仅名称）
	Sample(ctx context.Context, limit int64) ([]model.Class, error)
}

type classRepo struct {
	collection
}

// NewClassRepo 创建 ClassRepository 实例
func NewClassRepo(db *mongo.Database, timeout time.Duration) ClassRepository {
	return &classRepo{newCollection(db, model.CollectionClasses, timeout)}
}

func (r *classRepo) ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]model.Class, error) {
	opts := options.Find().SetProjection(bson.M{"nom": 1, "etudiants": 1})
	return r.find(ctx, bson.M{"enseignants": teacherID}, opts)
}

func (r *classRepo) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]model.Class, error) {
	opts := options.Find().SetProjection(bson.M{"nom": 1, "cours": 1})
	return r.find(ctx, bson.M{"etudiants": studentID}, opts)
}

func (r *classRepo) Sample(ctx context.Context, limit int64) ([]model.Class, error) {
	opts := options.Find().SetProjection(bson.M{"nom": 1}).SetLimit(limit)
	return r.find(ctx, bson.D{}, opts)
}

func (r *classRepo) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]model.Class, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var classes []model.Class
	if err := cursor.All(ctx, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}
