package directory

import (
	"acquisitions-api/app/server/models"
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already taken")
)

// Store 用户记录的存取，邮箱唯一性由底层存储保证
type Store interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// List 按 id 升序返回，limit < 0 表示全部
	List(ctx context.Context, offset, limit int) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	// Delete 删除并返回被删除的记录
	Delete(ctx context.Context, id uint) (*models.User, error)
	Identity(ctx context.Context, id uint) (*models.Identity, error)
}
