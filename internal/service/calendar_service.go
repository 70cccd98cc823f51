package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/kandidou391-dotcom/pfe/internal/dto"
)

// ── 日历模块业务错误 ──

var ErrCalendarScope = errors.New("仅教师与学生可订阅今日课表")

const calendarProductID = "-//unidash//today-sessions//FR"

// CalendarService 今日课次日历（iCalendar）
//
// 以调用方真实角色获取仪表盘统计（复用缓存），每个今日课次生成一个 VEVENT。
type CalendarService interface {
	TodaySessions(ctx context.Context, caller *Caller) (string, string, error)
}

type calendarService struct {
	dashboard DashboardService
	clock     clockwork.Clock
	loc       *time.Location
	logger    *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(dashboard DashboardService, clock clockwork.Clock, loc *time.Location, logger *zap.Logger) CalendarService {
	return &calendarService{dashboard: dashboard, clock: clock, loc: loc, logger: logger}
}

func (s *calendarService) TodaySessions(ctx context.Context, caller *Caller) (string, string, error) {
	stats, err := s.dashboard.GetStats(ctx, caller, "")
	if err != nil {
		return "", "", err
	}

	var sessions []dto.SessionItem
	switch v := stats.(type) {
	case *dto.TeacherDashboardStats:
		sessions = v.TodaysSessions
	case *dto.StudentDashboardStats:
		sessions = v.TodaysSessions
	default:
		return "", "", ErrCalendarScope
	}

	now := s.clock.Now().In(s.loc)
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	for _, item := range sessions {
		start, end, err := sessionBounds(item.Time, now)
		if err != nil {
			s.logger.Warn("课次时间无法解析，已跳过", zap.String("session_id", item.ID), zap.String("time", item.Time))
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("%s-%s@unidash", item.ID, now.Format("20060102")))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s (%s)", item.Course, item.Class))
		if item.Room != "" {
			event.SetLocation(item.Room)
		}
		if item.Type != "" {
			event.SetDescription(item.Type)
		}
	}

	filename := fmt.Sprintf("sessions_%s.ics", now.Format("20060102"))
	return cal.Serialize(), filename, nil
}

// sessionBounds 将 "HH:MM - HH:MM" 解析为 day 当天的起止时刻
func sessionBounds(span string, day time.Time) (time.Time, time.Time, error) {
	parts := strings.SplitN(span, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("非法的时间段: %q", span)
	}
	start, err := clockOn(strings.TrimSpace(parts[0]), day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := clockOn(strings.TrimSpace(parts[1]), day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("结束时间早于开始时间: %q", span)
	}
	return start, end, nil
}

func clockOn(hhmm string, day time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
