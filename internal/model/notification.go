package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 用户通知 — 对应 notifications
type Notification struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      primitive.ObjectID `bson:"utilisateur"`
	Message   string             `bson:"message"`
	Type      string             `bson:"type"`
	Read      bool               `bson:"lu"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// Announcement 公告 — 对应 announcements
type Announcement struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"titre"`
	Content   string             `bson:"contenu"`
	Active    bool               `bson:"estActif"`
	Author    primitive.ObjectID `bson:"auteur,omitempty"`
	Type      string             `bson:"type"`
	CreatedAt time.Time          `bson:"createdAt"`
}
