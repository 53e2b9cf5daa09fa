package config

import (
	"strings"
	"time"
)

type Config struct {
	System struct {
		Mode                  string `yaml:"mode" env:"MODE" env-default:"development"`    // production 或 prod 视为生产环境
		Listen                string `yaml:"listen" env:"LISTEN" env-default:":3000"`      // 监听地址
		DBConnectionString    string `yaml:"db_conn" env:"DB_CONN" env-required:"true"`    // Postgres 数据库的连接字符串
		RedisConnectionString string `yaml:"redis_conn" env:"REDIS_CONN"`                  // Redis 数据库的连接字符串，留空则不使用缓存
	} `yaml:"system"`
	Security struct {
		SignatureSecretKey string        `yaml:"signature_secret_key" env:"SIGNATURE_SECRET_KEY" env-required:"true"` // 签名密钥，用于签发 JWT ，更新会导致旧有会话失效
		TokenTTL           time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`                         // 会话有效期
		PasswordAlgorithm  string        `yaml:"password_algorithm" env:"PASSWORD_ALGORITHM" env-default:"bcrypt"`    // 新密码使用的算法：bcrypt 或 argon2id
	} `yaml:"security"`
	Bootstrap struct {
		AdminName     string `yaml:"admin_name" env:"ADMIN_NAME" env-default:"Administrator"`
		AdminEmail    string `yaml:"admin_email" env:"ADMIN_EMAIL"`       // 数据库中没有任何用户时创建的管理员
		AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD"` // 只在首次创建时使用
	} `yaml:"bootstrap"`
}

func (c *Config) IsProd() bool {
	switch strings.ToLower(strings.TrimSpace(c.System.Mode)) {
	case "production", "prod":
		return true
	default:
		return false
	}
}
