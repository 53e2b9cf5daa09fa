package handlers

import (
	"acquisitions-api/app/server/middlewares"
	"github.com/labstack/echo/v4"
)

// Register 绑定全部路由，并接管 echo 的错误处理
func (a *App) Register(e *echo.Echo) {
	e.HTTPErrorHandler = a.HTTPErrorHandler

	e.GET("/", a.Root)
	e.GET("/health", a.HealthCheck)
	e.GET("/api", a.APIInfo)

	auth := e.Group("/api/auth")
	auth.POST("/signup", a.AuthSignup)
	auth.POST("/signin", a.AuthSignin)
	auth.POST("/signout", a.AuthSignout)

	// 中间件按路由添加，未匹配的路径直接返回 404 而不是先要求认证
	userAuth := middlewares.UserAuth(a.resolver, a.jwt, a.l)
	users := e.Group("/api/users")
	users.GET("", a.UserList, userAuth)
	users.GET("/:id", a.UserInfoGet, userAuth, middlewares.RequireSelfOrAdmin(a.l))
	users.PUT("/:id", a.UserInfoUpdate, userAuth)
	users.DELETE("/:id", a.UserDelete, userAuth, middlewares.RequireSelfOrAdmin(a.l))
	users.PATCH("/:id/role", a.UserRoleUpdate, userAuth, middlewares.RequireAdmin(a.l))
}
