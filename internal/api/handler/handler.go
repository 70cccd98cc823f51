package handler

import "github.com/kandidou391-dotcom/pfe/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Dashboard *DashboardHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Dashboard: NewDashboardHandler(svc.Dashboard, svc.Export, svc.Calendar),
	}
}
