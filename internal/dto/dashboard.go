package dto

import (
	"encoding/json"
	"fmt"
)

// ── 仪表盘响应（按角色区分的标签联合） ──

// StatCard 统计卡片
type StatCard struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Icon   string `json:"icon"`
	Change string `json:"change"`
	Color  string `json:"color"`
}

// AnnouncementItem 最近公告
type AnnouncementItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
}

// ActivityItem 最近动态
type ActivityItem struct {
	Action string `json:"action"`
	User   string `json:"user"`
	Time   string `json:"time"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
}

// SessionItem 今日课次
type SessionItem struct {
	ID     string `json:"id"`
	Course string `json:"course"`
	Class  string `json:"class"`
	Time   string `json:"time"`
	Room   string `json:"room"`
	Type   string `json:"type"`
}

// EnrollmentItem 注册人数分类
type EnrollmentItem struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// GenderRatio 学生性别比例（百分比 + 人数）
type GenderRatio struct {
	Male        int   `json:"male"`
	Female      int   `json:"female"`
	MaleCount   int64 `json:"maleCount"`
	FemaleCount int64 `json:"femaleCount"`
}

// ClassPerformanceItem 班级成绩（占位数据，Placeholder 恒为 true）
type ClassPerformanceItem struct {
	Class       string `json:"class"`
	Average     int    `json:"average"`
	Color       string `json:"color"`
	Placeholder bool   `json:"placeholder"`
}

// ClassAttendanceItem 班级出勤（占位数据，Placeholder 恒为 true）
type ClassAttendanceItem struct {
	Class       string `json:"class"`
	Attendance  int    `json:"attendance"`
	Color       string `json:"color"`
	Placeholder bool   `json:"placeholder"`
}

// DashboardCommon 三种角色共享的字段
type DashboardCommon struct {
	Role           string             `json:"role"`
	Stats          []StatCard         `json:"stats"`
	Announcements  []AnnouncementItem `json:"announcements"`
	RecentActivity []ActivityItem     `json:"recentActivity"`
}

// DashboardStats 仪表盘统计（TeacherDashboardStats | StudentDashboardStats | AdminDashboardStats）
type DashboardStats interface {
	Common() *DashboardCommon
}

// TeacherDashboardStats 教师视图
type TeacherDashboardStats struct {
	DashboardCommon
	TodaysSessions []SessionItem `json:"todaysSessions"`
}

// StudentDashboardStats 学生视图
type StudentDashboardStats struct {
	DashboardCommon
	TodaysSessions []SessionItem `json:"todaysSessions"`
}

// AdminDashboardStats 管理员视图
type AdminDashboardStats struct {
	DashboardCommon
	EnrollmentData       []EnrollmentItem       `json:"enrollmentData"`
	GenderData           GenderRatio            `json:"genderData"`
	ClassPerformanceData []ClassPerformanceItem `json:"classPerformanceData"`
	ClassAttendanceData  []ClassAttendanceItem  `json:"classAttendanceData"`
}

func (s *TeacherDashboardStats) Common() *DashboardCommon { return &s.DashboardCommon }
func (s *StudentDashboardStats) Common() *DashboardCommon { return &s.DashboardCommon }
func (s *AdminDashboardStats) Common() *DashboardCommon   { return &s.DashboardCommon }

// DecodeDashboardStats 按 role 判别字段还原具体类型（缓存反序列化使用）
func DecodeDashboardStats(data []byte) (DashboardStats, error) {
	var head struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	var out DashboardStats
	switch head.Role {
	case "teacher":
		out = &TeacherDashboardStats{}
	case "student":
		out = &StudentDashboardStats{}
	case "admin":
		out = &AdminDashboardStats{}
	default:
		return nil, fmt.Errorf("未知的仪表盘角色 %q", head.Role)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}
