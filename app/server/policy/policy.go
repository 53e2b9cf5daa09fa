// Package policy decides whether an authenticated identity may act on a user record.
// Decisions are pure functions of the identity, the action, the target id and the payload.
package policy

import (
	"acquisitions-api/app/server/apperr"
	"acquisitions-api/app/server/models"
)

type Action int

const (
	ReadOne Action = iota
	ReadAll
	Update
	Delete
)

const (
	ReasonRoleChange = "Access denied. Only admins can change user roles."
	ReasonUpdateSelf = "Access denied. You can only update your own information."
	ReasonDeleteSelf = "Access denied. You can only delete your own account."
	ReasonAccessSelf = "Access denied. You can only access your own resources."
)

// Payload 只关心会影响授权结果的字段
type Payload struct {
	RoleChange bool
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err 拒绝时返回 Authorization 错误，允许时返回 nil
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.New(apperr.Authorization, d.Reason)
}

func Decide(identity models.Identity, action Action, target uint, payload Payload) Decision {
	isAdmin := identity.Role == models.RoleAdmin
	isSelf := identity.ID == target

	switch action {
	case Update:
		// 先检查角色变更，再检查是否本人
		if payload.RoleChange && !isAdmin {
			return deny(ReasonRoleChange)
		}
		if !isSelf && !isAdmin {
			return deny(ReasonUpdateSelf)
		}
		return allow()
	case Delete:
		if !isSelf && !isAdmin {
			return deny(ReasonDeleteSelf)
		}
		return allow()
	default:
		return allow()
	}
}

// SelfOrAdmin 路由级别的检查：本人或管理员
func SelfOrAdmin(identity models.Identity, target uint) Decision {
	if identity.ID != target && identity.Role != models.RoleAdmin {
		return deny(ReasonAccessSelf)
	}
	return allow()
}
