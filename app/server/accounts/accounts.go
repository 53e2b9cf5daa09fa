// Package accounts implements the user-facing account use cases: signup, signin,
// reading, updating and deleting user records.
//
// Errors returned by the request-facing operations are *apperr.Error values, so
// callers map them to responses by kind without inspecting messages.
package accounts

import (
	"acquisitions-api/app/server/apperr"
	"acquisitions-api/app/server/directory"
	"acquisitions-api/app/server/jwt"
	"acquisitions-api/app/server/models"
	"acquisitions-api/app/server/password"
	"context"
	"errors"
	"go.uber.org/zap"
	"strings"
)

const (
	MsgEmailTaken         = "Email already exist"
	MsgEmailExists        = "Email already exists"
	MsgUserNotFound       = "User not found"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInternal           = "Internal server error"
)

type Service struct {
	dir    directory.Store
	hasher *password.Hasher
	tokens *jwt.JWT
	l      *zap.Logger
}

func New(dir directory.Store, hasher *password.Hasher, tokens *jwt.JWT, l *zap.Logger) *Service {
	return &Service{
		dir:    dir,
		hasher: hasher,
		tokens: tokens,
		l:      l,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role // 为空时默认 user
}

// NormalizeEmail 去掉首尾空白并转为小写，存储和查找都使用这个形式
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Session 登录成功后的结果
type Session struct {
	User    models.PublicUser
	Token   string
	Expires int64 // Unix second
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Email = NormalizeEmail(in.Email)

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin {
		// 未认证的调用方可以自行指定 admin 角色，这里只记录
		s.l.Warn("signup requested admin role", zap.String("email", in.Email))
	}

	// 检查邮箱是否已被使用，最终以数据库的唯一约束为准
	if _, err := s.dir.FindByEmail(ctx, in.Email); err == nil {
		s.l.Info("signup with existing email", zap.String("email", in.Email))
		return nil, apperr.New(apperr.Conflict, MsgEmailTaken)
	} else if !errors.Is(err, directory.ErrNotFound) {
		s.l.Error("failed to look up user by email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
	}

	// 处理密码
	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.l.Error("failed to hash password", zap.String("email", in.Email), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
	}

	// 创建用户
	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: digest,
		Role:     role,
	}
	if err = s.dir.Create(ctx, &user); err != nil {
		if errors.Is(err, directory.ErrDuplicateEmail) {
			return nil, apperr.Wrap(apperr.Conflict, MsgEmailTaken, err)
		}
		s.l.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
	}

	s.l.Info("user registered", zap.Uint("id", user.ID), zap.String("email", user.Email))
	return s.issue(&user)
}

func (s *Service) Signin(ctx context.Context, email, plaintext string) (*Session, error) {
	email = NormalizeEmail(email)

	user, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, MsgUserNotFound, err)
		}
		s.l.Error("failed to find user", zap.String("email", email), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
	}

	// 提取密码 hash 并进行校验
	if match, err := s.hasher.Verify(plaintext, user.Password); err != nil {
		s.l.Error("failed to check password", zap.Uint("id", user.ID), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
	} else if !match {
		// 密码不一致
		s.l.Info("signin with wrong password", zap.Uint("id", user.ID))
		return nil, apperr.New(apperr.Authentication, MsgInvalidCredentials)
	}

	s.l.Info("user signed in", zap.Uint("id", user.ID), zap.String("email", user.Email))
	return s.issue(user)
}

func (s *Service) issue(user *models.User) (*Session, error) {
	claims := &jwt.User{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
	}
	token, err := s.tokens.SignToken(claims)
	if err != nil {
		s.l.Error("failed to sign token", zap.Uint("id", user.ID), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
	}

	return &Session{
		User:    user.Public(),
		Token:   token,
		Expires: claims.Expires,
	}, nil
}

// List 按 id 升序返回，limit < 0 表示全部；total 是用户总数
func (s *Service) List(ctx context.Context, offset, limit int) (users []models.PublicUser, total int64, err error) {
	records, err := s.dir.List(ctx, offset, limit)
	if err != nil {
		s.l.Error("failed to get user list", zap.Error(err))
		return nil, 0, apperr.Wrap(apperr.Internal, MsgInternal, err)
	}
	if total, err = s.dir.Count(ctx); err != nil {
		s.l.Error("failed to count users", zap.Error(err))
		return nil, 0, apperr.Wrap(apperr.Internal, MsgInternal, err)
	}

	users = make([]models.PublicUser, 0, len(records))
	for i := range records {
		users = append(users, records[i].Public())
	}
	return users, total, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.PublicUser, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *Service) find(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.dir.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, MsgUserNotFound, err)
		}
		s.l.Error("failed to get user", zap.Uint("id", id), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
	}
	return user, nil
}
