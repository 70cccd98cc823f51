package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/kandidou391-dotcom/pfe/config"
	"github.com/kandidou391-dotcom/pfe/internal/api/handler"
	"github.com/kandidou391-dotcom/pfe/internal/api/router"
	"github.com/kandidou391-dotcom/pfe/internal/repository"
	"github.com/kandidou391-dotcom/pfe/internal/service"
	"github.com/kandidou391-dotcom/pfe/pkg/cache"
	"github.com/kandidou391-dotcom/pfe/pkg/database"
	"github.com/kandidou391-dotcom/pfe/pkg/jwt"
	applogger "github.com/kandidou391-dotcom/pfe/pkg/logger"
	"github.com/kandidou391-dotcom/pfe/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("UNIDASH_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("cache_driver", cfg.Dashboard.CacheDriver),
	)

	// 3. 连接 MongoDB（只读访问，集合由主应用维护）
	mongoClient, db, err := database.NewMongo(&cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("MongoDB 连接失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，黑名单、限流与共享缓存将不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 仪表盘缓存后端
	var statsCache cache.Cache
	if cfg.Dashboard.CacheDriver == "redis" && rdb != nil {
		statsCache = cache.NewRedisCache(rdb)
	} else {
		if cfg.Dashboard.CacheDriver == "redis" {
			logger.Warn("Redis 不可用，仪表盘缓存回退为进程内缓存")
		}
		statsCache = cache.NewMemoryCache(cfg.Dashboard.CacheTTL, time.Minute)
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db, cfg.Mongo.QueryTimeout)
	svc := service.NewService(cfg, repo, statsCache, clockwork.NewRealClock(), logger)
	h := handler.NewHandler(svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, mongoClient, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Error("MongoDB 断开异常", zap.Error(err))
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
