package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kandidou391-dotcom/pfe/config"
	"github.com/kandidou391-dotcom/pfe/internal/dto"
	"github.com/kandidou391-dotcom/pfe/internal/model"
	"github.com/kandidou391-dotcom/pfe/internal/repository"
	"github.com/kandidou391-dotcom/pfe/pkg/cache"
	pkgerrors "github.com/kandidou391-dotcom/pfe/pkg/errors"
	"github.com/kandidou391-dotcom/pfe/pkg/timeago"
)

// Caller 调用方身份（来自访问令牌）；匿名访问时为 nil
type Caller struct {
	UserID string
	Role   model.Role
}

// DashboardService 仪表盘统计业务接口
//
// 说明：
//   - 结果按 {scope}_dashboard_stats_{userID}_v{version} 缓存，TTL 内直接返回缓存内容
//   - 任一查询失败即返回 ErrQueryFailure，不返回部分结果
//   - 缓存读写失败仅记录日志，按未命中处理
type DashboardService interface {
	GetStats(ctx context.Context, caller *Caller, requestedRole string) (dto.DashboardStats, error)
}

type dashboardService struct {
	repo   *repository.Repository
	cache  cache.Cache
	clock  clockwork.Clock
	logger *zap.Logger

	cacheTTL          time.Duration
	cacheVersion      int
	announcementLimit int64
	activityLimit     int64
	classSampleLimit  int64
	loc               *time.Location

	// randIntN 班级占位序列的随机源，返回 [0, n)
	randIntN func(n int) int
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(
	cfg *config.DashboardConfig,
	repo *repository.Repository,
	c cache.Cache,
	clock clockwork.Clock,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		repo:              repo,
		cache:             c,
		clock:             clock,
		logger:            logger,
		cacheTTL:          cfg.CacheTTL,
		cacheVersion:      cfg.CacheVersion,
		announcementLimit: int64(cfg.AnnouncementLimit),
		activityLimit:     int64(cfg.ActivityLimit),
		classSampleLimit:  int64(cfg.ClassSampleLimit),
		loc:               cfg.Location(),
		randIntN:          rand.IntN,
	}
}

// ═══════════════════════════════════════════════════════════
// GetStats
// ═══════════════════════════════════════════════════════════

func (s *dashboardService) GetStats(ctx context.Context, caller *Caller, requestedRole string) (dto.DashboardStats, error) {
	scope := resolveScope(caller, requestedRole)
	key := s.cacheKey(scope, caller)

	if cached, ok := s.readCache(ctx, key); ok {
		return cached, nil
	}

	req, err := s.newStatsRequest(caller, requestedRole, scope)
	if err != nil {
		s.logger.Error("解析调用方 ID 失败", zap.String("user_id", callerID(caller)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrQueryFailure, err)
	}

	var stats dto.DashboardStats
	switch scope {
	case model.RoleTeacher:
		stats, err = s.teacherStats(ctx, req)
	case model.RoleStudent:
		stats, err = s.studentStats(ctx, req)
	default:
		stats, err = s.adminStats(ctx, req)
	}
	if err != nil {
		s.logger.Error("仪表盘统计查询失败",
			zap.String("scope", string(scope)),
			zap.String("user_id", callerID(caller)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrQueryFailure, err)
	}

	s.writeCache(ctx, key, stats)
	return stats, nil
}

// resolveScope 请求角色优先，其次调用方角色，最后默认学生；
// teacher/enseignant → 教师，student/etudiant → 学生，其余一律按管理员处理
func resolveScope(caller *Caller, requestedRole string) model.Role {
	role := requestedRole
	if role == "" && caller != nil {
		role = string(caller.Role)
	}
	if role == "" {
		return model.RoleStudent
	}
	switch model.ParseRole(role) {
	case model.RoleTeacher:
		return model.RoleTeacher
	case model.RoleStudent:
		return model.RoleStudent
	default:
		return model.RoleAdmin
	}
}

func callerID(caller *Caller) string {
	if caller == nil || caller.UserID == "" {
		return "unknown"
	}
	return caller.UserID
}

func (s *dashboardService) cacheKey(scope model.Role, caller *Caller) string {
	return fmt.Sprintf("%s_dashboard_stats_%s_v%d", scope, callerID(caller), s.cacheVersion)
}

func (s *dashboardService) readCache(ctx context.Context, key string) (dto.DashboardStats, bool) {
	data, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("读取仪表盘缓存失败，改为实时计算", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	stats, err := dto.DecodeDashboardStats(data)
	if err != nil {
		s.logger.Warn("仪表盘缓存内容无法解析，改为实时计算", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return stats, true
}

func (s *dashboardService) writeCache(ctx context.Context, key string, stats dto.DashboardStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		s.logger.Warn("序列化仪表盘统计失败", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("写入仪表盘缓存失败", zap.String("key", key), zap.Error(err))
	}
}

// ── 单次计算的上下文 ──

type statsRequest struct {
	// preview 请求角色与真实角色不一致：个人数据使用固定占位值，不查询文档库
	preview bool
	// userID 调用方 ID；匿名时为零值，个人指标按空数据处理
	userID    primitive.ObjectID
	anonymous bool
	now       time.Time
}

// newStatsRequest 非预览的实名请求需要合法的文档 ID，否则视为查询失败
func (s *dashboardService) newStatsRequest(caller *Caller, requestedRole string, scope model.Role) (statsRequest, error) {
	var realRole model.Role
	if caller != nil {
		realRole = caller.Role
	}
	req := statsRequest{
		preview:   requestedRole != "" && model.ParseRole(requestedRole) != realRole,
		anonymous: caller == nil || caller.UserID == "",
		now:       s.clock.Now().In(s.loc),
	}
	if req.anonymous || req.preview || scope == model.RoleAdmin {
		return req, nil
	}

	id, err := repository.ParseObjectID(caller.UserID)
	if err != nil {
		return statsRequest{}, err
	}
	req.userID = id
	return req, nil
}

// ── 公共部分 ──

func (s *dashboardService) announcements(ctx context.Context, now time.Time) ([]dto.AnnouncementItem, error) {
	list, err := s.repo.Announcement.ListRecentActive(ctx, s.announcementLimit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AnnouncementItem, 0, len(list))
	for _, a := range list {
		items = append(items, dto.AnnouncementItem{
			Title:       a.Title,
			Description: truncateDescription(a.Content),
			Date:        timeago.Format(a.CreatedAt, now, s.loc),
			Type:        a.Type,
			Icon:        announcementIcon(a.Type),
		})
	}
	return items, nil
}

// recentActivity 用户最近通知转换为动态；无通知时返回示例动态
func (s *dashboardService) recentActivity(
	ctx context.Context,
	req statsRequest,
	nameFallback string,
	fallback func(name string) []dto.ActivityItem,
) ([]dto.ActivityItem, error) {
	if req.anonymous {
		return fallback(nameFallback), nil
	}

	var (
		user          *model.User
		notifications []model.Notification
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.repo.User.GetByID(gctx, req.userID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		user = u
		return err
	})
	g.Go(func() error {
		var err error
		notifications, err = s.repo.Notification.ListRecentByUser(gctx, req.userID, s.activityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	name := user.DisplayName(nameFallback)
	if len(notifications) == 0 {
		return fallback(name), nil
	}
	items := make([]dto.ActivityItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.ActivityItem{
			Action: n.Message,
			User:   name,
			Time:   timeago.Format(n.CreatedAt, req.now, s.loc),
			Icon:   notificationIcon(n.Type),
			Color:  notificationColor(n.Type),
		})
	}
	return items, nil
}

// ═══════════════════════════════════════════════════════════
// 教师视图
// ═══════════════════════════════════════════════════════════

func (s *dashboardService) teacherStats(ctx context.Context, req statsRequest) (*dto.TeacherDashboardStats, error) {
	out := &dto.TeacherDashboardStats{}
	out.Role = string(model.RoleTeacher)

	var (
		courses, assignments, students int64
		rate                           int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Announcements, err = s.announcements(gctx, req.now)
		return err
	})

	if req.preview {
		courses, assignments, students = previewCoursesTaught, previewAssignmentsCreated, previewStudentsInClasses
		rate = previewTeacherAttendance
		out.RecentActivity = teacherActivityFallback("Dr. Smith")
		out.TodaysSessions = previewSessions()
	} else if req.anonymous {
		out.RecentActivity = teacherActivityFallback("Teacher")
		out.TodaysSessions = []dto.SessionItem{}
	} else {
		id := req.userID
		g.Go(func() error {
			var err error
			courses, err = s.repo.Course.CountByTeacher(gctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			assignments, err = s.repo.Exam.CountAssignmentsByTeacher(gctx, id)
			return err
		})
		g.Go(func() error {
			classes, err := s.repo.Class.ListByTeacher(gctx, id)
			if err != nil {
				return err
			}
			for _, c := range classes {
				students += int64(len(c.Students))
			}
			return nil
		})
		g.Go(func() error {
			sessionIDs, err := s.repo.Session.ListIDsByTeacher(gctx, id)
			if err != nil {
				return err
			}
			tally, err := s.repo.Attendance.TallyBySessions(gctx, sessionIDs)
			if err != nil {
				return err
			}
			rate = attendanceRate(tally)
			return nil
		})
		g.Go(func() error {
			sessions, err := s.repo.Session.ListActiveByTeacher(gctx, id)
			if err != nil {
				return err
			}
			out.TodaysSessions = todaysSessions(sessions, req.now)
			return nil
		})
		g.Go(func() error {
			var err error
			out.RecentActivity, err = s.recentActivity(gctx, req, "Teacher", teacherActivityFallback)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Stats = []dto.StatCard{
		{Title: "Courses Taught", Value: strconv.FormatInt(courses, 10), Icon: "📚", Change: "+2", Color: colorBlue},
		{Title: "Assignments Created", Value: strconv.FormatInt(assignments, 10), Icon: "📝", Change: "+1", Color: colorPurple},
		{Title: "Students in Classes", Value: strconv.FormatInt(students, 10), Icon: "👥", Change: "+5", Color: colorGreen},
		{Title: "Attendance Rate", Value: strconv.Itoa(rate) + "%", Icon: "📈", Change: "+3%", Color: colorCyan},
	}
	return out, nil
}

// ═══════════════════════════════════════════════════════════
// 学生视图
// ═══════════════════════════════════════════════════════════

func (s *dashboardService) studentStats(ctx context.Context, req statsRequest) (*dto.StudentDashboardStats, error) {
	out := &dto.StudentDashboardStats{}
	out.Role = string(model.RoleStudent)

	var (
		enrolled, completed, upcoming int64
		rate, average                 int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Announcements, err = s.announcements(gctx, req.now)
		return err
	})

	if req.preview {
		enrolled, completed, upcoming = previewEnrolledCourses, previewCompletedAssessment, previewUpcomingAssessments
		rate, average = previewStudentAttendance, previewAverageGrade
		out.RecentActivity = studentActivityFallback("You")
		out.TodaysSessions = previewSessions()
	} else if req.anonymous {
		out.RecentActivity = studentActivityFallback("Student")
		out.TodaysSessions = []dto.SessionItem{}
	} else {
		id := req.userID
		// 班级 → 课程数 / 待完成考核 / 今日课次
		g.Go(func() error {
			classes, err := s.repo.Class.ListByStudent(gctx, id)
			if err != nil {
				return err
			}
			classIDs := make([]primitive.ObjectID, 0, len(classes))
			courseSet := make(map[primitive.ObjectID]struct{})
			for _, c := range classes {
				classIDs = append(classIDs, c.ID)
				for _, courseID := range c.Courses {
					courseSet[courseID] = struct{}{}
				}
			}
			enrolled = int64(len(courseSet))

			cg, cctx := errgroup.WithContext(gctx)
			cg.Go(func() error {
				var err error
				upcoming, err = s.repo.Exam.CountUpcomingByClasses(cctx, classIDs, req.now)
				return err
			})
			cg.Go(func() error {
				sessions, err := s.repo.Session.ListActiveByClasses(cctx, classIDs)
				if err != nil {
					return err
				}
				out.TodaysSessions = todaysSessions(sessions, req.now)
				return nil
			})
			return cg.Wait()
		})
		g.Go(func() error {
			grades, err := s.repo.Grade.ListByStudent(gctx, id)
			if err != nil {
				return err
			}
			completed = int64(len(grades))
			average = averageGrade(grades)
			return nil
		})
		g.Go(func() error {
			tally, err := s.repo.Attendance.TallyByStudent(gctx, id)
			if err != nil {
				return err
			}
			rate = attendanceRate(tally)
			return nil
		})
		g.Go(func() error {
			var err error
			out.RecentActivity, err = s.recentActivity(gctx, req, "Student", studentActivityFallback)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	_ = completed // computed but not surfaced in any stat card

	out.Stats = []dto.StatCard{
		{Title: "Enrolled Courses", Value: strconv.FormatInt(enrolled, 10), Icon: "📚", Change: "+1", Color: colorBlue},
		{Title: "Upcoming Exams/Assignments", Value: strconv.FormatInt(upcoming, 10), Icon: "📝", Change: "+2", Color: colorPurple},
		{Title: "Attendance Rate", Value: strconv.Itoa(rate) + "%", Icon: "📈", Change: "+5%", Color: colorGreen},
		{Title: "Average Grade", Value: strconv.Itoa(average) + "/100", Icon: "🎓", Change: "+3", Color: colorCyan},
	}
	return out, nil
}

// ═══════════════════════════════════════════════════════════
// 管理员视图
// ═══════════════════════════════════════════════════════════

func (s *dashboardService) adminStats(ctx context.Context, req statsRequest) (*dto.AdminDashboardStats, error) {
	out := &dto.AdminDashboardStats{}
	out.Role = string(model.RoleAdmin)
	out.RecentActivity = adminActivity()

	var (
		roles   []model.RoleCount
		tally   model.AttendanceTally
		courses int64
		classes []model.Class
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = s.repo.User.RoleBreakdown(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tally, err = s.repo.Attendance.TallyAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = s.repo.Course.CountAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		classes, err = s.repo.Class.Sample(gctx, s.classSampleLimit)
		return err
	})
	g.Go(func() error {
		var err error
		out.Announcements, err = s.announcements(gctx, req.now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var students, teachers, male, female int64
	for _, r := range roles {
		switch model.ParseRole(r.Role) {
		case model.RoleStudent:
			students += r.Count
			male += r.MaleCount
			female += r.FemaleCount
		case model.RoleTeacher:
			teachers += r.Count
		}
	}

	out.GenderData = dto.GenderRatio{
		Male:        percent(male, male+female),
		Female:      percent(female, male+female),
		MaleCount:   male,
		FemaleCount: female,
	}
	out.EnrollmentData = []dto.EnrollmentItem{
		{Category: "Students", Count: students},
		{Category: "Teachers", Count: teachers},
	}

	// 班级成绩 / 出勤并非真实聚合，仅为界面占位
	out.ClassPerformanceData = make([]dto.ClassPerformanceItem, 0, len(classes))
	out.ClassAttendanceData = make([]dto.ClassAttendanceItem, 0, len(classes))
	for _, c := range classes {
		out.ClassPerformanceData = append(out.ClassPerformanceData, dto.ClassPerformanceItem{
			Class:       c.Name,
			Average:     80 + s.randIntN(20),
			Color:       s.randomColor(),
			Placeholder: true,
		})
	}
	for _, c := range classes {
		out.ClassAttendanceData = append(out.ClassAttendanceData, dto.ClassAttendanceItem{
			Class:       c.Name,
			Attendance:  75 + s.randIntN(20),
			Color:       s.randomColor(),
			Placeholder: true,
		})
	}

	out.Stats = []dto.StatCard{
		{Title: "Total Students", Value: humanize.Comma(students), Icon: "👥", Change: "+12%", Color: colorBlue},
		{Title: "Total Teachers", Value: strconv.FormatInt(teachers, 10), Icon: "👨‍🏫", Change: "+5%", Color: colorPurple},
		{Title: "Active Courses", Value: strconv.FormatInt(courses, 10), Icon: "📚", Change: "+8%", Color: colorPink},
		{Title: "Attendance Rate", Value: strconv.Itoa(attendanceRate(tally)) + "%", Icon: "📈", Change: "+3%", Color: colorCyan},
	}
	return out, nil
}

func (s *dashboardService) randomColor() string {
	return fmt.Sprintf("#%06x", s.randIntN(0xffffff))
}
