package handlers

import (
	"github.com/labstack/echo/v4"
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"` // 秒
}

func (a *App) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, &healthResponse{
		Status:    "Ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Uptime:    time.Since(a.startedAt).Seconds(),
	})
}

func (a *App) APIInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, &messageResponse{
		Message: "Acquisitions API is running!",
	})
}

func (a *App) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, "Hello from Acquisitions!")
}
