package handlers

import (
	"acquisitions-api/app/server/accounts"
	"acquisitions-api/app/server/apperr"
	"acquisitions-api/app/server/middlewares"
	"acquisitions-api/app/server/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"time"
)

type sessionResponse struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (a *App) AuthSignup(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		a.l.Info("failed to bind json body", zap.Error(err))
		return a.er(c, apperr.Invalid(map[string]string{"body": "malformed JSON body"}))
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		return a.er(c, invalid(err))
	}

	session, err := a.accounts.Signup(rctx, accounts.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return a.er(c, err)
	}

	a.setTokenCookie(c, session.Token)

	return c.JSON(http.StatusCreated, &sessionResponse{
		Message: "User registered",
		User:    session.User,
	})
}

func (a *App) AuthSignin(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		a.l.Info("failed to bind json body", zap.Error(err))
		return a.er(c, apperr.Invalid(map[string]string{"body": "malformed JSON body"}))
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		return a.er(c, invalid(err))
	}

	session, err := a.accounts.Signin(rctx, req.Email, req.Password)
	if err != nil {
		return a.er(c, err)
	}

	a.setTokenCookie(c, session.Token)

	return c.JSON(http.StatusOK, &sessionResponse{
		Message: "User signed in",
		User:    session.User,
	})
}

// AuthSignout 只清除 cookie，已签发的 token 在过期前仍然有效
func (a *App) AuthSignout(c echo.Context) error {
	c.SetCookie(a.tokenCookie("", -1))

	a.l.Info("user signed out")
	return c.JSON(http.StatusOK, &messageResponse{
		Message: "User signed out successfully",
	})
}

func (a *App) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(a.tokenCookie(token, int(a.jwt.TTL()/time.Second)))
}

func (a *App) tokenCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middlewares.TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.isProd,
		SameSite: http.SameSiteStrictMode,
	}
}
