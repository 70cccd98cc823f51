package service

import (
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/kandidou391-dotcom/pfe/config"
	"github.com/kandidou391-dotcom/pfe/internal/repository"
	"github.com/kandidou391-dotcom/pfe/pkg/cache"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Dashboard DashboardService
	Export    ExportService
	Calendar  CalendarService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	c cache.Cache,
	clock clockwork.Clock,
	logger *zap.Logger,
) *Service {
	dashboard := NewDashboardService(&cfg.Dashboard, repo, c, clock, logger)
	return &Service{
		Dashboard: dashboard,
		Export:    NewExportService(dashboard, clock, logger),
		Calendar:  NewCalendarService(dashboard, clock, cfg.Dashboard.Location(), logger),
	}
}
