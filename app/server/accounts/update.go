package accounts

import (
	"acquisitions-api/app/server/apperr"
	"acquisitions-api/app/server/directory"
	"acquisitions-api/app/server/models"
	"acquisitions-api/app/server/policy"
	"context"
	"errors"
	"go.uber.org/zap"
)

// UpdateInput 为 nil 的字段保持不变
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *models.Role
}

func (in *UpdateInput) mapFields(user *models.User) {
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
}

func (s *Service) Update(ctx context.Context, actor models.Identity, id uint, in UpdateInput) (*models.PublicUser, error) {
	// 授权
	if err := policy.Decide(actor, policy.Update, id, policy.Payload{RoleChange: in.Role != nil}).Err(); err != nil {
		s.l.Info("update denied", zap.Uint("actor", actor.ID), zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		in.Email = &email
	}

	// 从数据库中获得指定的用户
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// 邮箱变更时检查是否被其他用户占用
	if in.Email != nil && *in.Email != user.Email {
		if other, err := s.dir.FindByEmail(ctx, *in.Email); err == nil && other.ID != user.ID {
			return nil, apperr.New(apperr.Conflict, MsgEmailExists)
		} else if err != nil && !errors.Is(err, directory.ErrNotFound) {
			s.l.Error("failed to look up user by email", zap.Uint("id", id), zap.Error(err))
			return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
		}
	}

	in.mapFields(user)

	// 重新计算密码摘要
	if in.Password != nil {
		digest, err := s.hasher.Hash(*in.Password)
		if err != nil {
			s.l.Error("failed to hash password", zap.Uint("id", id), zap.Error(err))
			return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
		}
		user.Password = digest
	}

	// 更新用户信息
	if err = s.dir.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, directory.ErrDuplicateEmail):
			return nil, apperr.Wrap(apperr.Conflict, MsgEmailExists, err)
		case errors.Is(err, directory.ErrNotFound):
			return nil, apperr.Wrap(apperr.NotFound, MsgUserNotFound, err)
		default:
			s.l.Error("failed to update user", zap.Uint("id", id), zap.Error(err))
			return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
		}
	}

	s.l.Info("user updated", zap.Uint("id", id), zap.Uint("actor", actor.ID))
	public := user.Public()
	return &public, nil
}

// ChangeRole 管理员修改角色的快捷方式，与只带 role 字段的 Update 等价
func (s *Service) ChangeRole(ctx context.Context, actor models.Identity, id uint, role models.Role) (*models.PublicUser, error) {
	return s.Update(ctx, actor, id, UpdateInput{Role: &role})
}

func (s *Service) Delete(ctx context.Context, actor models.Identity, id uint) (*models.PublicUser, error) {
	// 授权
	if err := policy.Decide(actor, policy.Delete, id, policy.Payload{}).Err(); err != nil {
		s.l.Info("delete denied", zap.Uint("actor", actor.ID), zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if actor.ID == id && actor.Role == models.RoleAdmin {
		s.l.Warn("admin deleting their own account", zap.Uint("id", id))
	}

	// 删除用户
	deleted, err := s.dir.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, MsgUserNotFound, err)
		}
		s.l.Error("failed to delete user", zap.Uint("id", id), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, MsgInternal, err)
	}

	s.l.Info("user deleted", zap.Uint("id", id), zap.Uint("actor", actor.ID))
	public := deleted.Public()
	return &public, nil
}

// Bootstrap 没有任何用户时创建初始管理员，返回是否创建
func (s *Service) Bootstrap(ctx context.Context, name, email, plaintext string) (bool, error) {
	email = NormalizeEmail(email)

	count, err := s.dir.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		return false, err
	}

	if err = s.dir.Create(ctx, &models.User{
		Name:     name,
		Email:    email,
		Password: digest,
		Role:     models.RoleAdmin,
	}); err != nil {
		return false, err
	}

	s.l.Info("bootstrap admin created", zap.String("email", email))
	return true, nil
}
