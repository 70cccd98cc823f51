package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/kandidou391-dotcom/pfe/internal/service"
	pkgerrors "github.com/kandidou391-dotcom/pfe/pkg/errors"
	"github.com/kandidou391-dotcom/pfe/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// DashboardHandler 仪表盘模块 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
	exportSvc    service.ExportService
	calendarSvc  service.CalendarService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService, exportSvc service.ExportService, calendarSvc service.CalendarService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc, exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// GetStats 仪表盘统计
// GET /api/v1/dashboard/stats?role=teacher
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardSvc.GetStats(c.Request.Context(), CallerFromContext(c), c.Query("role"))
	if err != nil {
		h.handleDashboardError(c, err)
		return
	}
	response.OK(c, stats)
}

// ExportStats 导出仪表盘统计为 Excel
// GET /api/v1/dashboard/stats/export?role=teacher
func (h *DashboardHandler) ExportStats(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportDashboard(c.Request.Context(), caller, c.Query("role"))
	if err != nil {
		h.handleDashboardError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// TodaySessionsICS 今日课次日历订阅
// GET /api/v1/dashboard/sessions/today.ics
func (h *DashboardHandler) TodaySessionsICS(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	body, filename, err := h.calendarSvc.TodaySessions(c.Request.Context(), caller)
	if err != nil {
		h.handleDashboardError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, icsContentType, []byte(body))
}

func (h *DashboardHandler) handleDashboardError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrCalendarScope):
		response.BadRequest(c, 17001, "仅教师与学生可订阅今日课表")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 17002, "生成 Excel 文件失败")
	case errors.Is(err, pkgerrors.ErrQueryFailure):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
