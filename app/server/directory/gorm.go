package directory

import (
	"acquisitions-api/app/server/models"
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// uniqueViolationCode postgres 的 unique_violation
const uniqueViolationCode = "23505"

type Gorm struct {
	db *gorm.DB
}

var _ Store = (*Gorm)(nil)

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(fmt.Sprintf("find user %d", id), err)
	}
	return &user, nil
}

func (g *Gorm) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate("find user by email", err)
	}
	return &user, nil
}

func (g *Gorm) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	users := []models.User{}
	query := g.db.WithContext(ctx).Model(&models.User{}).Order("id ASC")
	if limit >= 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (g *Gorm) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (g *Gorm) Create(ctx context.Context, user *models.User) error {
	if err := g.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate("create user", err)
	}
	return nil
}

func (g *Gorm) Update(ctx context.Context, user *models.User) error {
	// updated_at 由 gorm 自动刷新
	res := g.db.WithContext(ctx).
		Model(user).
		Select("name", "email", "role", "password", "updated_at").
		Updates(user)
	if res.Error != nil {
		return translate(fmt.Sprintf("update user %d", user.ID), res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) Delete(ctx context.Context, id uint) (*models.User, error) {
	var deleted []models.User
	res := g.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&deleted)
	if res.Error != nil {
		return nil, translate(fmt.Sprintf("delete user %d", id), res.Error)
	}
	if len(deleted) == 0 {
		return nil, ErrNotFound
	}
	return &deleted[0], nil
}

func (g *Gorm) Identity(ctx context.Context, id uint) (*models.Identity, error) {
	var user models.User
	if err := g.db.WithContext(ctx).
		Select("id", "email", "name", "role").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(fmt.Sprintf("resolve identity %d", id), err)
	}
	identity := user.Identity()
	return &identity, nil
}

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUniqueViolation 开启 TranslateError 时 gorm 会转成 ErrDuplicatedKey，否则是原始的 PgError
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
