package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kandidou391-dotcom/pfe/internal/dto"
	"github.com/kandidou391-dotcom/pfe/internal/model"
)

// ── 卡片配色 ──

const (
	colorBlue   = "from-blue-500 to-cyan-400"
	colorPurple = "from-purple-500 to-pink-400"
	colorGreen  = "from-green-500 to-emerald-400"
	colorCyan   = "from-cyan-400 to-purple-500"
	colorPink   = "from-pink-500 to-blue-500"
)

const (
	defaultAnnouncementIcon  = "📢"
	defaultNotificationIcon  = "🔔"
	defaultNotificationColor = "from-gray-500 to-gray-400"

	unknownCourse = "Unknown Course"
	unknownClass  = "Unknown Class"

	descriptionMaxRunes = 100
)

var announcementIcons = map[string]string{
	"holiday": "🎄",
	"meeting": "👥",
	"course":  "🚀",
	"exam":    "📝",
	"info":    "ℹ️",
	"warning": "⚠️",
	"success": "✅",
}

var notificationIcons = map[string]string{
	"alerte":        "🚨",
	"systeme":       "⚙️",
	"rappel":        "⏰",
	"avertissement": "⚠️",
	"demande":       "📋",
	"note":          "📝",
	"annonce":       "📢",
	"material":      "📚",
	"emploiDuTemps": "📅",
	"submission":    "📩",
}

var notificationColors = map[string]string{
	"alerte":        "from-red-500 to-red-400",
	"systeme":       "from-blue-500 to-cyan-400",
	"rappel":        "from-yellow-500 to-orange-400",
	"avertissement": "from-orange-500 to-red-400",
	"demande":       "from-purple-500 to-pink-400",
	"note":          "from-green-500 to-emerald-400",
	"annonce":       "from-indigo-500 to-purple-400",
	"material":      "from-teal-500 to-cyan-400",
	"emploiDuTemps": "from-pink-500 to-rose-400",
	"submission":    "from-green-500 to-emerald-400",
}

func announcementIcon(t string) string {
	if icon, ok := announcementIcons[t]; ok {
		return icon
	}
	return defaultAnnouncementIcon
}

func notificationIcon(t string) string {
	if icon, ok := notificationIcons[t]; ok {
		return icon
	}
	return defaultNotificationIcon
}

func notificationColor(t string) string {
	if color, ok := notificationColors[t]; ok {
		return color
	}
	return defaultNotificationColor
}

// truncateDescription 超过 100 个字符时截断并追加 "..."
func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionMaxRunes {
		return s
	}
	return string(runes[:descriptionMaxRunes]) + "..."
}

// attendanceRate 出勤率百分比（四舍五入），无记录时为 0
func attendanceRate(t model.AttendanceTally) int {
	return percent(t.Present, t.Total)
}

func percent(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// averageGrade 成绩平均值（四舍五入），无成绩时为 0
func averageGrade(grades []model.Grade) int {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g.Value
	}
	return int(math.Round(sum / float64(len(grades))))
}

// ── 今日课次 ──

// 星期名（time.Weekday 下标），课表中以法语存储，兼容英语
var (
	frenchWeekdays = [7]string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}
)

func isWeekday(name string, day time.Weekday) bool {
	name = strings.TrimSpace(name)
	return strings.EqualFold(name, frenchWeekdays[day]) || strings.EqualFold(name, day.String())
}

// todaysSessions 筛选有效期覆盖 now 且星期匹配的课次，按开始时间升序
func todaysSessions(sessions []model.Session, now time.Time) []dto.SessionItem {
	var today []model.Session
	for _, s := range sessions {
		if s.Period.Covers(now) && isWeekday(s.Weekday, now.Weekday()) {
			today = append(today, s)
		}
	}
	sort.SliceStable(today, func(i, j int) bool {
		return today[i].StartTime < today[j].StartTime
	})

	items := make([]dto.SessionItem, 0, len(today))
	for _, s := range today {
		course := unknownCourse
		if s.CourseInfo != nil && s.CourseInfo.Name != "" {
			course = s.CourseInfo.Name
		}
		class := unknownClass
		if s.ClassInfo != nil && s.ClassInfo.Name != "" {
			class = s.ClassInfo.Name
		}
		items = append(items, dto.SessionItem{
			ID:     s.ID.Hex(),
			Course: course,
			Class:  class,
			Time:   s.StartTime + " - " + s.EndTime,
			Room:   s.Room,
			Type:   s.CourseType,
		})
	}
	return items
}

// ── 占位数据 ──

// 角色预览（请求角色与真实角色不一致）时使用的固定值
const (
	previewCoursesTaught      = 3
	previewAssignmentsCreated = 5
	previewStudentsInClasses  = 25
	previewTeacherAttendance  = 85

	previewEnrolledCourses     = 4
	previewCompletedAssessment = 8
	previewUpcomingAssessments = 3
	previewStudentAttendance   = 92
	previewAverageGrade        = 85
)

func previewSessions() []dto.SessionItem {
	return []dto.SessionItem{
		{ID: "mock-session-1", Course: "Mathematics 101", Class: "Class A", Time: "08:00 - 09:30", Room: "Room 101", Type: "Lecture"},
		{ID: "mock-session-2", Course: "Physics 201", Class: "Class B", Time: "10:00 - 11:30", Room: "Room 203", Type: "Lab"},
	}
}

// teacherActivityFallback 教师无通知时的示例动态，name 为展示用户名
func teacherActivityFallback(name string) []dto.ActivityItem {
	return []dto.ActivityItem{
		{Action: "Assignment submitted by John Doe for Mathematics 101", User: name, Time: "2 hours ago", Icon: "📩", Color: colorGreen},
		{Action: "New assignment created: Algebra Homework", User: name, Time: "1 day ago", Icon: "📝", Color: colorBlue},
		{Action: "Grade submitted for Physics Lab Report", User: name, Time: "2 days ago", Icon: "📊", Color: colorPurple},
	}
}

func studentActivityFallback(name string) []dto.ActivityItem {
	return []dto.ActivityItem{
		{Action: "Assignment submitted for Mathematics 101", User: name, Time: "2 hours ago", Icon: "📩", Color: colorGreen},
		{Action: "Grade received: 85/100 in Physics Lab", User: name, Time: "1 day ago", Icon: "📊", Color: colorBlue},
		{Action: "New assignment posted: Chemistry Homework", User: "Dr. Johnson", Time: "2 days ago", Icon: "📝", Color: colorPurple},
	}
}

func adminActivity() []dto.ActivityItem {
	return []dto.ActivityItem{
		{Action: "New teacher registered", User: "Dr. Sarah Johnson", Time: "2 hours ago", Icon: "👨‍🏫", Color: colorBlue},
		{Action: "Course updated", User: "Mathematics 101", Time: "5 hours ago", Icon: "📚", Color: colorPurple},
		{Action: "Student enrolled", User: "John Smith - Physics", Time: "1 day ago", Icon: "👥", Color: colorPink},
	}
}
