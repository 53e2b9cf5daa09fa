package inits

import (
	"acquisitions-api/app/server/accounts"
	"acquisitions-api/app/server/config"
	"context"
	"fmt"
	"go.uber.org/zap"
)

// Admin 按配置初始化管理员账户，未配置邮箱时跳过
func Admin(ctx context.Context, acc *accounts.Service, cfg *config.Config, l *zap.Logger) error {
	b := cfg.Bootstrap
	if b.AdminEmail == "" {
		l.Debug("no bootstrap admin configured")
		return nil
	}
	if b.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	if _, err := acc.Bootstrap(ctx, b.AdminName, b.AdminEmail, b.AdminPassword); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}
