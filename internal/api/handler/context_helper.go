package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kandidou391-dotcom/pfe/internal/api/middleware"
	"github.com/kandidou391-dotcom/pfe/internal/model"
	"github.com/kandidou391-dotcom/pfe/internal/service"
	"github.com/kandidou391-dotcom/pfe/pkg/response"
)

// CallerFromContext 从 Gin 上下文中提取调用方身份；匿名访问返回 nil
func CallerFromContext(c *gin.Context) *service.Caller {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		return nil
	}
	return &service.Caller{
		UserID: userID,
		Role:   model.Role(c.GetString(middleware.ContextRole)),
	}
}

// MustGetCaller 与 CallerFromContext 相同，但要求已认证。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetCaller(c *gin.Context) (*service.Caller, bool) {
	caller := CallerFromContext(c)
	if caller == nil {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return nil, false
	}
	return caller, true
}
