package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kandidou391-dotcom/pfe/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	CountByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}

type courseRepo struct {
	collection
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *mongo.Database, timeout time.Duration) CourseRepository {
	return &courseRepo{newCollection(db, model.CollectionCourses, timeout)}
}

func (r *courseRepo) CountByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error) {
	return r.count(ctx, bson.M{"enseignant": teacherID})
}

func (r *courseRepo) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.D{})
}
