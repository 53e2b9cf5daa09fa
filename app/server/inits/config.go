package inits

import (
	"acquisitions-api/app/server/config"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config 从环境变量读取配置；指定 path 时先读文件，环境变量优先
func Config(path string) (*config.Config, error) {
	var cfg config.Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read config from env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if cfg.Security.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.Security.TokenTTL)
	}

	return &cfg, nil
}
