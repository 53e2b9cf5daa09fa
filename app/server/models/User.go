package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID uint `gorm:"column:id;primaryKey"`

	// 基础信息
	Name  string `gorm:"column:name;size:255;not null"`             // 显示名称
	Email string `gorm:"column:email;size:255;not null;uniqueIndex"` // 邮箱，全局唯一，用于登录
	Role  Role   `gorm:"column:role;size:50;not null;default:user"`  // user 或 admin

	// 登录与授权认证相关
	Password string `gorm:"column:password;size:255;not null"` // 密码摘要，绝不返回给调用方

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// PublicUser 去掉密码摘要后可以返回给调用方的用户信息
type PublicUser struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Identity 认证时用到的用户投影，可以安全地放进缓存
type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

func (u *User) Identity() Identity {
	return Identity{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
