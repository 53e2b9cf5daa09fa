package handlers

import (
	"acquisitions-api/app/server/accounts"
	"acquisitions-api/app/server/apperr"
	"acquisitions-api/app/server/middlewares"
	"acquisitions-api/app/server/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
)

type userResponse struct {
	Message string             `json:"message"`
	User    *models.PublicUser `json:"user"`
}

type userListResponse struct {
	Message string              `json:"message"`
	Users   []models.PublicUser `json:"users"`
	Count   int                 `json:"count"`
	PageMax *int64              `json:"page_max,omitempty"`
}

func (a *App) UserList(c echo.Context) error {
	rctx := c.Request().Context()

	showAll, page, limit, perr := a.parsePagination(c)
	if perr != nil {
		return a.er(c, perr)
	}

	offset := 0
	if showAll {
		limit = -1
	} else {
		offset = page * limit
	}

	users, total, err := a.accounts.List(rctx, offset, limit)
	if err != nil {
		return a.er(c, err)
	}

	res := &userListResponse{
		Message: "Successfully retrieved users",
		Users:   users,
		Count:   len(users),
	}
	if !showAll {
		pageMax := a.calcMaxPage(total, showAll, limit)
		res.PageMax = &pageMax
	}

	return c.JSON(http.StatusOK, res)
}

func (a *App) UserInfoGet(c echo.Context) error {
	id, perr := middlewares.ParamID(c)
	if perr != nil {
		return a.er(c, perr)
	}

	rctx := c.Request().Context()

	// 从数据库中获得指定的用户
	user, err := a.accounts.Get(rctx, id)
	if err != nil {
		return a.er(c, err)
	}

	return c.JSON(http.StatusOK, &userResponse{
		Message: "Successfully retrieved user",
		User:    user,
	})
}

func (a *App) UserInfoUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	identity, ok := middlewares.IdentityFrom(c)
	if !ok {
		return a.er(c, apperr.New(apperr.Authentication, middlewares.MsgAuthRequired))
	}

	id, perr := middlewares.ParamID(c)
	if perr != nil {
		return a.er(c, perr)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Info("failed to bind request", zap.Error(err))
		return a.er(c, apperr.Invalid(map[string]string{"body": "malformed JSON body"}))
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		return a.er(c, invalid(err))
	}

	user, err := a.accounts.Update(rctx, identity, id, accounts.UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return a.er(c, err)
	}

	return c.JSON(http.StatusOK, &userResponse{
		Message: "User updated successfully",
		User:    user,
	})
}

func (a *App) UserDelete(c echo.Context) error {
	// 抓取 user 信息（认证）
	identity, ok := middlewares.IdentityFrom(c)
	if !ok {
		return a.er(c, apperr.New(apperr.Authentication, middlewares.MsgAuthRequired))
	}

	id, perr := middlewares.ParamID(c)
	if perr != nil {
		return a.er(c, perr)
	}

	rctx := c.Request().Context()

	// 删除用户
	user, err := a.accounts.Delete(rctx, identity, id)
	if err != nil {
		return a.er(c, err)
	}

	return c.JSON(http.StatusOK, &userResponse{
		Message: "User deleted successfully",
		User:    user,
	})
}

func (a *App) UserRoleUpdate(c echo.Context) error {
	// 抓取 user 信息（认证）
	identity, ok := middlewares.IdentityFrom(c)
	if !ok {
		return a.er(c, apperr.New(apperr.Authentication, middlewares.MsgAuthRequired))
	}

	id, perr := middlewares.ParamID(c)
	if perr != nil {
		return a.er(c, perr)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		a.l.Info("failed to bind request", zap.Error(err))
		return a.er(c, apperr.Invalid(map[string]string{"body": "malformed JSON body"}))
	}
	if err := req.Validate(); err != nil {
		return a.er(c, invalid(err))
	}

	user, err := a.accounts.ChangeRole(rctx, identity, id, req.Role)
	if err != nil {
		return a.er(c, err)
	}

	return c.JSON(http.StatusOK, &userResponse{
		Message: "User role updated successfully",
		User:    user,
	})
}
