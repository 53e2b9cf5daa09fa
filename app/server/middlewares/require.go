package middlewares

import (
	"acquisitions-api/app/server/apperr"
	"acquisitions-api/app/server/models"
	"acquisitions-api/app/server/policy"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"strconv"
)

// ParamID 解析路径中的用户 id，只接受正整数
func ParamID(c echo.Context) (uint, *apperr.Error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Invalid(map[string]string{"id": "must be a positive integer"})
	}
	return uint(id), nil
}

// RequireSelfOrAdmin 只允许本人或管理员访问 :id 对应的资源
func RequireSelfOrAdmin(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return reject(c, apperr.New(apperr.Authentication, MsgAuthRequired))
			}

			id, perr := ParamID(c)
			if perr != nil {
				return reject(c, perr)
			}

			if d := policy.SelfOrAdmin(identity, id); !d.Allowed {
				l.Info("access denied", zap.Uint("actor", identity.ID), zap.Uint("id", id))
				return reject(c, apperr.New(apperr.Authorization, d.Reason))
			}

			return next(c)
		}
	}
}

func RequireAdmin(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return reject(c, apperr.New(apperr.Authentication, MsgAuthRequired))
			}

			if identity.Role != models.RoleAdmin {
				l.Info("admin privileges required", zap.Uint("actor", identity.ID), zap.String("path", c.Path()))
				return reject(c, apperr.New(apperr.Authorization, MsgAdminRequired))
			}

			return next(c)
		}
	}
}
