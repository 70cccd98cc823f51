package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	pkgerrors "github.com/kandidou391-dotcom/pfe/pkg/errors"
)

// defaultQueryTimeout 未配置时的单次查询超时
const defaultQueryTimeout = 10 * time.Second

// Repository 所有 Repository 的聚合入口（只读，数据归外部服务所有）
type Repository struct {
	User         UserRepository
	Course       CourseRepository
	Class        ClassRepository
	Session      SessionRepository
	Attendance   AttendanceRepository
	Grade        GradeRepository
	Exam         ExamRepository
	Announcement AnnouncementRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *mongo.Database, queryTimeout time.Duration) *Repository {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &Repository{
		User:         NewUserRepo(db, queryTimeout),
		Course:       NewCourseRepo(db, queryTimeout),
		Class:        NewClassRepo(db, queryTimeout),
		Session:      NewSessionRepo(db, queryTimeout),
		Attendance:   NewAttendanceRepo(db, queryTimeout),
		Grade:        NewGradeRepo(db, queryTimeout),
		Exam:         NewExamRepo(db, queryTimeout),
		Announcement: NewAnnouncementRepo(db, queryTimeout),
		Notification: NewNotificationRepo(db, queryTimeout),
	}
}

// ParseObjectID 将十六进制字符串转换为 ObjectID
func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", pkgerrors.ErrInvalidObjectID, id)
	}
	return oid, nil
}

// collection 单集合访问的公共部分
type collection struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func newCollection(db *mongo.Database, name string, timeout time.Duration) collection {
	return collection{coll: db.Collection(name), timeout: timeout}
}

// withTimeout 为单次查询附加超时
func (c collection) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// aggregate 执行聚合管道并解码全部结果
func (c collection) aggregate(ctx context.Context, pipeline interface{}, out interface{}) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}

// count 统计匹配文档数
func (c collection) count(ctx context.Context, filter interface{}) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.coll.CountDocuments(ctx, filter)
}
