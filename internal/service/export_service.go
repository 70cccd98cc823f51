package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/kandidou391-dotcom/pfe/internal/dto"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 说明：
//   - 导出内容与 GetStats 返回的统计一致（同一缓存键）
//   - 以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Sheet：Overview / Announcements / Recent Activity，
//     教师与学生追加 Today's Sessions，管理员追加 Enrollment 与 Class Performance
type ExportService interface {
	ExportDashboard(ctx context.Context, caller *Caller, requestedRole string) (*bytes.Buffer, string, error)
}

type exportService struct {
	dashboard DashboardService
	clock     clockwork.Clock
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(dashboard DashboardService, clock clockwork.Clock, logger *zap.Logger) ExportService {
	return &exportService{dashboard: dashboard, clock: clock, logger: logger}
}

func (s *exportService) ExportDashboard(ctx context.Context, caller *Caller, requestedRole string) (*bytes.Buffer, string, error) {
	stats, err := s.dashboard.GetStats(ctx, caller, requestedRole)
	if err != nil {
		return nil, "", err
	}
	common := stats.Common()

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	w := &sheetWriter{f: f, headerStyle: headerStyle}

	// 1. Overview（替换默认 Sheet1）
	if err := f.SetSheetName("Sheet1", "Overview"); err != nil {
		return nil, "", s.fail(err)
	}
	overview := [][]interface{}{}
	for _, c := range common.Stats {
		overview = append(overview, []interface{}{c.Title, c.Value, c.Change})
	}
	w.table("Overview", []string{"Metric", "Value", "Change"}, overview, 28)

	// 2. 公告与动态
	ann := [][]interface{}{}
	for _, a := range common.Announcements {
		ann = append(ann, []interface{}{a.Title, a.Type, a.Date, a.Description})
	}
	w.table("Announcements", []string{"Title", "Type", "Date", "Description"}, ann, 24)

	act := [][]interface{}{}
	for _, a := range common.RecentActivity {
		act = append(act, []interface{}{a.Action, a.User, a.Time})
	}
	w.table("Recent Activity", []string{"Action", "User", "Time"}, act, 36)

	// 3. 按角色追加
	switch v := stats.(type) {
	case *dto.TeacherDashboardStats:
		w.sessions(v.TodaysSessions)
	case *dto.StudentDashboardStats:
		w.sessions(v.TodaysSessions)
	case *dto.AdminDashboardStats:
		enroll := [][]interface{}{}
		for _, e := range v.EnrollmentData {
			enroll = append(enroll, []interface{}{e.Category, e.Count})
		}
		enroll = append(enroll,
			[]interface{}{"Male students", v.GenderData.MaleCount},
			[]interface{}{"Female students", v.GenderData.FemaleCount},
		)
		w.table("Enrollment", []string{"Category", "Count"}, enroll, 20)

		perf := [][]interface{}{}
		for i, p := range v.ClassPerformanceData {
			attendance := ""
			if i < len(v.ClassAttendanceData) {
				attendance = fmt.Sprintf("%d%%", v.ClassAttendanceData[i].Attendance)
			}
			perf = append(perf, []interface{}{p.Class, p.Average, attendance, "placeholder"})
		}
		w.table("Class Performance", []string{"Class", "Average", "Attendance", "Source"}, perf, 18)
	}
	if w.err != nil {
		return nil, "", s.fail(w.err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.fail(err)
	}

	filename := fmt.Sprintf("dashboard_%s_%s.xlsx", common.Role, s.clock.Now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) fail(err error) error {
	s.logger.Error("写入 Excel 失败", zap.Error(err))
	return fmt.Errorf("%w: %w", ErrExportGenerateFail, err)
}

// ── 辅助函数 ──

// sheetWriter 逐表写入，记录首个错误
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (w *sheetWriter) table(sheet string, header []string, rows [][]interface{}, width float64) {
	if w.err != nil {
		return
	}
	if idx, _ := w.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := w.f.NewSheet(sheet); err != nil {
			w.err = err
			return
		}
	}

	last := colName(len(header) - 1)
	w.f.SetColWidth(sheet, "A", last, width)

	for i, h := range header {
		w.f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	w.f.SetCellStyle(sheet, "A1", cell(last, 1), w.headerStyle)

	for r, row := range rows {
		if err := w.f.SetSheetRow(sheet, cell("A", r+2), &row); err != nil {
			w.err = err
			return
		}
	}
}

func (w *sheetWriter) sessions(items []dto.SessionItem) {
	rows := [][]interface{}{}
	for _, s := range items {
		rows = append(rows, []interface{}{s.Time, s.Course, s.Class, s.Room, s.Type})
	}
	w.table("Today's Sessions", []string{"Time", "Course", "Class", "Room", "Type"}, rows, 18)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
