package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// 出勤状态存储值
const (
	AttendancePresent = "présent"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "retard"
)

// Attendance 出勤记录 — 对应 presences（每个 课次×学生 一条）
type Attendance struct {
	ID      primitive.ObjectID `bson:"_id"`
	Session primitive.ObjectID `bson:"seance"`
	Student primitive.ObjectID `bson:"etudiant"`
	Teacher primitive.ObjectID `bson:"enseignant,omitempty"`
	Status  string             `bson:"statut"`
}

// AttendanceTally 出勤汇总
type AttendanceTally struct {
	Total   int64 `bson:"total"`
	Present int64 `bson:"present"`
}
