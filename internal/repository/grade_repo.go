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

// GradeRepository 成绩数据访问接口
type GradeRepository interface {
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]model.Grade, error)
}

type gradeRepo struct {
	collection
}

// NewGradeRepo 创建 GradeRepository 实例
func NewGradeRepo(db *mongo.Database, timeout time.Duration) GradeRepository {
	return &gradeRepo{newCollection(db, model.CollectionGrades, timeout)}
}

func (r *gradeRepo) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]model.Grade, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"etudiant": 1, "note": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"etudiant": studentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var grades []model.Grade
	if err := cursor.All(ctx, &grades); err != nil {
		return nil, err
	}
	return grades, nil
}

// ExamRepository 考试/作业数据访问接口
type ExamRepository interface {
	// CountAssignmentsByTeacher 教师创建的作业数（type 含 assignment，不区分大小写）
	CountAssignmentsByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error)
	// CountUpcomingByClasses 指定班级中 date >= from 的考核数
	CountUpcomingByClasses(ctx context.Context, classIDs []primitive.ObjectID, from time.Time) (int64, error)
}

type examRepo struct {
	collection
}

// NewExamRepo 创建 ExamRepository 实例
func NewExamRepo(db *mongo.Database, timeout time.Duration) ExamRepository {
	return &examRepo{newCollection(db, model.CollectionExams, timeout)}
}

func (r *examRepo) CountAssignmentsByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error) {
	return r.count(ctx, bson.M{
		"enseignantId": teacherID,
		"type":         primitive.Regex{Pattern: model.ExamTypeAssignment, Options: "i"},
	})
}

func (r *examRepo) CountUpcomingByClasses(ctx context.Context, classIDs []primitive.ObjectID, from time.Time) (int64, error) {
	if len(classIDs) == 0 {
		return 0, nil
	}
	return r.count(ctx, bson.M{
		"classeId": bson.M{"$in": classIDs},
		"date":     bson.M{"$gte": from},
	})
}
