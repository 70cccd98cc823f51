package model

import "strings"

// Role 规范化后的用户角色
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// 文档库中实际存储的角色值
const (
	StoredRoleStudent = "etudiant"
	StoredRoleTeacher = "enseignant"
	StoredRoleAdmin   = "admin"
)

// ParseRole 将存储值或英文名规范化为 Role，无法识别时返回空串
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student", StoredRoleStudent:
		return RoleStudent
	case "teacher", StoredRoleTeacher:
		return RoleTeacher
	case StoredRoleAdmin: // "admin" is both the API name and the stored value
		return RoleAdmin
	default:
		return ""
	}
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleAdmin
}
