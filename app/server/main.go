package main

import (
	"acquisitions-api/app/server/accounts"
	"acquisitions-api/app/server/apidocs"
	"acquisitions-api/app/server/directory"
	"acquisitions-api/app/server/handlers"
	"acquisitions-api/app/server/inits"
	"acquisitions-api/app/server/jwt"
	"acquisitions-api/app/server/password"
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file, environment variables take precedence")
	flag.Parse()

	// 初始化配置
	cfg, err := inits.Config(*configPath)
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(cfg.IsProd())
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer l.Sync()

	l.Debug("logger initialized", zap.String("mode", cfg.System.Mode))

	// 初始化数据库连接
	db, err := inits.DB(cfg.System.DBConnectionString)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 初始化 redis 连接（可选）
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}

	var dir directory.Store = directory.NewGorm(db)
	if rdb != nil {
		dir = directory.NewCached(dir, rdb, l)
		l.Info("identity cache enabled")
	}

	// 初始化密码哈希
	hasher, err := password.New(cfg.Security.PasswordAlgorithm)
	if err != nil {
		l.Fatal("error initializing password hasher", zap.Error(err))
	}

	// 初始化 JWT
	j, err := jwt.New(cfg.Security.SignatureSecretKey, cfg.Security.TokenTTL)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	acc := accounts.New(dir, hasher, j, l)

	// 创建初始管理员
	if err := inits.Admin(context.Background(), acc, cfg, l); err != nil {
		l.Fatal("error bootstrapping admin", zap.Error(err))
	}

	// 准备 handler app
	handlerApp := handlers.NewApp(l, acc, dir, j, cfg.IsProd())

	// 准备 echo 服务
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())

	// 绑定 echo 服务
	handlerApp.Register(e)

	// 添加 API 文档
	if !cfg.IsProd() {
		if docs, err := apidocs.Doc("/api/docs", apidocs.Spec()); err != nil {
			l.Error("error initializing api docs", zap.Error(err))
		} else {
			e.Pre(docs)
		}
	}

	// 启动 echo 服务
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		l.Info("server listening", zap.String("listen", cfg.System.Listen))
		if err := e.Start(cfg.System.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	l.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		l.Error("error during shutdown", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			l.Warn("error closing Redis connection", zap.Error(err))
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			l.Warn("error closing DB connection", zap.Error(err))
		}
	}
}
