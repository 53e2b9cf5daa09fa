package handlers

import (
	"acquisitions-api/app/server/accounts"
	"acquisitions-api/app/server/jwt"
	"acquisitions-api/app/server/middlewares"
	"go.uber.org/zap"
	"time"
)

type App struct {
	l         *zap.Logger                  // 日志
	accounts  *accounts.Service            // 账户相关操作
	resolver  middlewares.IdentityResolver // 认证时确认用户仍然存在
	jwt       *jwt.JWT                     // JWT ，用于无状态验证
	isProd    bool                         // 生产环境下 cookie 只走 HTTPS
	startedAt time.Time                    // 用于计算 uptime
}

func NewApp(l *zap.Logger, acc *accounts.Service, resolver middlewares.IdentityResolver, j *jwt.JWT, isProd bool) *App {
	return &App{
		l:         l,
		accounts:  acc,
		resolver:  resolver,
		jwt:       j,
		isProd:    isProd,
		startedAt: time.Now(),
	}
}
