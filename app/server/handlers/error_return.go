package handlers

import (
	"acquisitions-api/app/server/apperr"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
)

const MsgRouteNotFound = "Route not found"

// er 按错误分类写出 {error, details} 响应，未识别的错误一律 500 且不暴露细节
func (a *App) er(c echo.Context, err error) error {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if e.Kind == apperr.Internal {
		a.l.Error("internal error", zap.String("method", c.Request().Method), zap.String("path", c.Path()), zap.Error(err))
		// 只返回固定信息
		e = apperr.New(apperr.Internal, "Internal server error")
	}
	return c.JSON(e.Kind.Status(), e.Body())
}

// HTTPErrorHandler 处理 echo 自身产生的错误（未匹配的路由、panic 恢复等）
func (a *App) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			err = apperr.New(apperr.NotFound, MsgRouteNotFound)
		case http.StatusBadRequest:
			err = apperr.Invalid(map[string]string{"body": "malformed request"})
		default:
			if he.Code < http.StatusInternalServerError {
				if rerr := c.JSON(he.Code, apperr.Body{Error: http.StatusText(he.Code)}); rerr != nil {
					a.l.Error("failed to write error response", zap.Error(rerr))
				}
				return
			}
		}
	}

	if rerr := a.er(c, err); rerr != nil {
		a.l.Error("failed to write error response", zap.Error(rerr))
	}
}
