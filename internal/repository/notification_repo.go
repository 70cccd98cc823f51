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

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	// ListRecentByUser 用户最近的通知，按创建时间倒序
	ListRecentByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]model.Notification, error)
}

type notificationRepo struct {
	collection
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *mongo.Database, timeout time.Duration) NotificationRepository {
	return &notificationRepo{newCollection(db, model.CollectionNotifications, timeout)}
}

func (r *notificationRepo) ListRecentByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]model.Notification, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"utilisateur": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []model.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	// ListRecentActive 最近的有效公告，按创建时间倒序
	ListRecentActive(ctx context.Context, limit int64) ([]model.Announcement, error)
}

type announcementRepo struct {
	collection
}

// NewAnnouncementRepo 创建 AnnouncementRepository 实例
func NewAnnouncementRepo(db *mongo.Database, timeout time.Duration) AnnouncementRepository {
	return &announcementRepo{newCollection(db, model.CollectionAnnouncements, timeout)}
}

func (r *announcementRepo) ListRecentActive(ctx context.Context, limit int64) ([]model.Announcement, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"estActif": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var announcements []model.Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}
