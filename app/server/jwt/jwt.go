package jwt

import (
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"time"
)

// ErrInvalidToken 签名不符、格式错误或已过期的 token 都返回这个错误
var ErrInvalidToken = errors.New("invalid token")

type JWT struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type User struct {
	ID      uint
	Email   string
	Role    string
	Expires int64 // Unix second
}

type claims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func New(key string, ttl time.Duration) (*JWT, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	return &JWT{key: []byte(key), ttl: ttl, now: time.Now}, nil
}

func (j *JWT) TTL() time.Duration {
	return j.ttl
}

func (j *JWT) ParseUser(tokenString string) (*User, error) {
	// 检查是否有效
	if len(tokenString) == 0 {
		return nil, fmt.Errorf("%w: token string is empty", ErrInvalidToken)
	}

	// 只接受 HS256，避免 alg 替换
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	// 匹配内容
	if !token.Valid || c.ID == 0 {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	return &User{
		ID:      c.ID,
		Email:   c.Email,
		Role:    c.Role,
		Expires: c.ExpiresAt.Unix(),
	}, nil
}

func (j *JWT) SignToken(user *User) (string, error) {
	now := j.now()
	expires := now.Add(j.ttl)

	// 创建声明
	c := claims{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	// 创建令牌
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)

	// 签名并返回
	signed, err := token.SignedString(j.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	user.Expires = expires.Unix()
	return signed, nil
}
