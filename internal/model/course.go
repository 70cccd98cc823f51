package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Course 课程文档 — 对应 cours
type Course struct {
	ID      primitive.ObjectID `bson:"_id"`
	Name    string             `bson:"nom"`
	Teacher primitive.ObjectID `bson:"enseignant,omitempty"`
}

// Class 班级文档 — 对应 classes
// 学生、教师、课程均为嵌入的引用列表（多对多）
type Class struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"nom"`
	Students RefList            `bson:"etudiants,omitempty"`
	Teachers RefList            `bson:"enseignants,omitempty"`
	Courses  RefList            `bson:"cours,omitempty"`
}
