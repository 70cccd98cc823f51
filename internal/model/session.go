package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatusActive 有效课次状态
const SessionStatusActive = "actif"

// SchedulePeriod 课表有效期 — 对应 emploidutemps
type SchedulePeriod struct {
	ID        primitive.ObjectID `bson:"_id"`
	StartDate time.Time          `bson:"dateDebut"`
	EndDate   time.Time          `bson:"dateFin"`
}

// Covers 判断时刻 t 是否落在有效期内（闭区间）
func (p *SchedulePeriod) Covers(t time.Time) bool {
	if p == nil {
		return false
	}
	return !p.StartDate.After(t) && !p.EndDate.Before(t)
}

// Session 课次文档 — 对应 seances
type Session struct {
	ID             primitive.ObjectID `bson:"_id"`
	Teacher        primitive.ObjectID `bson:"enseignant,omitempty"`
	Class          primitive.ObjectID `bson:"classe,omitempty"`
	Course         primitive.ObjectID `bson:"cours,omitempty"`
	SchedulePeriod primitive.ObjectID `bson:"emploiDuTemps,omitempty"`
	Weekday        string             `bson:"jourSemaine"` // Lundi ~ Dimanche
	StartTime      string             `bson:"heureDebut"`  // HH:MM
	EndTime        string             `bson:"heureFin"`
	Room           string             `bson:"salle"`
	CourseType     string             `bson:"typeCours"`
	Status         string             `bson:"statut"`

	// 关联（$lookup 填充）
	Period     *SchedulePeriod `bson:"periodDoc,omitempty"`
	CourseInfo *Course         `bson:"courseDoc,omitempty"`
	ClassInfo  *Class          `bson:"classDoc,omitempty"`
}
