package middlewares

import (
	"acquisitions-api/app/server/apperr"
	"acquisitions-api/app/server/directory"
	"acquisitions-api/app/server/jwt"
	"acquisitions-api/app/server/models"
	"context"
	"errors"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	MsgNoToken       = "Access denied. No token provided."
	MsgInvalidToken  = "Access denied. Invalid token."
	MsgUserNotFound  = "Access denied. User not found."
	MsgAuthError     = "Authentication error"
	MsgAuthRequired  = "Access denied. Authentication required."
	MsgAdminRequired = "Access denied. Admin privileges required."
)

const (
	TokenCookieName = "token"

	ctxKeyClaims     = "token"
	ctxKeyTokenError = "token_error"
	ctxKeyIdentity   = "identity"
)

// IdentityResolver 根据 token 中的 id 找到仍然存在的用户
type IdentityResolver interface {
	Identity(ctx context.Context, id uint) (*models.Identity, error)
}

// UserAuth 先从 cookie 再从 Bearer 头中提取 token，只校验第一个存在的 token，
// 确认用户仍然存在后把 Identity 放进 context
func UserAuth(resolver IdentityResolver, codec *jwt.JWT, l *zap.Logger) echo.MiddlewareFunc {
	extract := echojwt.WithConfig(echojwt.Config{
		ContextKey:  ctxKeyClaims,
		TokenLookup: "cookie:" + TokenCookieName + ",header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			if auth == "" {
				// 空 cookie 视为没有 token，继续尝试 header
				return nil, errors.New("empty token")
			}
			if prev, ok := c.Get(ctxKeyTokenError).(error); ok {
				// 已经有一个 token 无效，不再尝试后面的来源
				return nil, prev
			}
			user, err := codec.ParseUser(auth)
			if err != nil {
				c.Set(ctxKeyTokenError, err)
				return nil, err
			}
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if tokenErr, ok := c.Get(ctxKeyTokenError).(error); ok {
				l.Info("rejected invalid token", zap.String("path", c.Path()), zap.Error(tokenErr))
				return reject(c, apperr.New(apperr.Authentication, MsgInvalidToken))
			}
			return reject(c, apperr.New(apperr.Authentication, MsgNoToken))
		},
	})

	resolve := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ctxKeyClaims).(*jwt.User)
			if !ok {
				l.Error("token claims missing from context")
				return reject(c, apperr.New(apperr.Internal, MsgAuthError))
			}

			rctx := c.Request().Context()

			// 确认用户仍然存在，已删除用户的 token 不再有效
			identity, err := resolver.Identity(rctx, claims.ID)
			if err != nil {
				if errors.Is(err, directory.ErrNotFound) {
					l.Info("token for missing user", zap.Uint("id", claims.ID))
					return reject(c, apperr.New(apperr.Authentication, MsgUserNotFound))
				}
				l.Error("failed to resolve identity", zap.Uint("id", claims.ID), zap.Error(err))
				return reject(c, apperr.New(apperr.Internal, MsgAuthError))
			}

			// 设置 context
			c.Set(ctxKeyIdentity, *identity)

			// 继续处理
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return extract(resolve(next))
	}
}

func IdentityFrom(c echo.Context) (models.Identity, bool) {
	identity, ok := c.Get(ctxKeyIdentity).(models.Identity)
	return identity, ok
}

func reject(c echo.Context, e *apperr.Error) error {
	return c.JSON(e.Kind.Status(), e.Body())
}
