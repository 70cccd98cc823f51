package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grade 成绩记录 — 对应 notes（每个 学生×考核 一条）
type Grade struct {
	ID      primitive.ObjectID `bson:"_id"`
	Student primitive.ObjectID `bson:"etudiant"`
	Value   float64            `bson:"note"`
}

// ExamTypeAssignment 作业类考核的类型关键字（大小写不敏感匹配）
const ExamTypeAssignment = "assignment"

// Exam 考试/作业 — 对应 examens
type Exam struct {
	ID      primitive.ObjectID `bson:"_id"`
	Teacher primitive.ObjectID `bson:"enseignantId,omitempty"`
	Class   primitive.ObjectID `bson:"classeId,omitempty"`
	Type    string             `bson:"type"`
	Date    time.Time          `bson:"date"`
}
