package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 性别存储值
const (
	GenderMale   = "Homme"
	GenderFemale = "Femme"
)

// User 用户文档 — 对应 users
type User struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"prenom"`
	LastName  string             `bson:"nom"`
	Gender    string             `bson:"sexe"`
	Email     string             `bson:"email"`
	Role      string             `bson:"role"`
	Class     primitive.ObjectID `bson:"classe,omitempty"`
}

// DisplayName 返回 "名 姓"，两者皆空时返回 fallback
func (u *User) DisplayName(fallback string) string {
	if u == nil {
		return fallback
	}
	first := u.FirstName
	if first == "" {
		first = fallback
	}
	return strings.TrimSpace(first + " " + u.LastName)
}

// RoleCount 按角色分组的用户统计（仅学生统计性别）
type RoleCount struct {
	Role        string `bson:"_id"`
	Count       int64  `bson:"count"`
	MaleCount   int64  `bson:"maleCount"`
	FemaleCount int64  `bson:"femaleCount"`
}
