package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/kandidou391-dotcom/pfe/config"
	"github.com/kandidou391-dotcom/pfe/internal/api/handler"
	"github.com/kandidou391-dotcom/pfe/internal/api/middleware"
	"github.com/kandidou391-dotcom/pfe/internal/model"
	"github.com/kandidou391-dotcom/pfe/pkg/jwt"
	"github.com/kandidou391-dotcom/pfe/pkg/redis"
)

// maxBodyBytes 全局请求体上限（接口均为 GET）
const maxBodyBytes = 64 << 10

// Setup 初始化并返回 Gin 路由引擎
// mongoClient 为 nil 时健康检查跳过文档库探测
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, mongoClient *mongo.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "mongo": "skipped", "redis": "disabled"}
		code := http.StatusOK

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if mongoClient != nil {
			if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
				status["status"], status["mongo"] = "degraded", "down"
				code = http.StatusServiceUnavailable
			} else {
				status["mongo"] = "up"
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "down"
			} else {
				status["redis"] = "up"
			}
		}
		c.JSON(code, status)
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		dashboard := v1.Group("/dashboard")
		{
			// 匿名可访问（默认学生视图）；携带 Token 时按调用方身份统计
			dashboard.GET("/stats",
				middleware.OptionalJWTAuth(jwtMgr, rdb),
				middleware.RateLimit(rdb, cfg.Dashboard.RateLimit, time.Minute, logger),
				h.Dashboard.GetStats,
			)

			authorized := dashboard.Group("")
			authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
			{
				authorized.GET("/stats/export", h.Dashboard.ExportStats)
				authorized.GET("/sessions/today.ics",
					middleware.RoleAuth(model.RoleTeacher, model.RoleStudent),
					h.Dashboard.TodaySessionsICS,
				)
			}
		}
	}

	return r
}
