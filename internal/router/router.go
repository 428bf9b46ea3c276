package router

import (
	"net/http"

	"inbox-triage/internal/handler"
	"inbox-triage/internal/middleware"
	"inbox-triage/internal/session"
	"inbox-triage/internal/triage"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	e *echo.Echo,
	dashboardHandler *handler.DashboardHandler,
	sseHandler *handler.SSEHandler,
	tracker *session.Tracker,
) {
	e.Use(middleware.MetricsMiddleware())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Every API call is tied to a browser session for the viewed set
	api := e.Group("/api")
	api.Use(middleware.SessionMiddleware(tracker))

	api.GET("/board", dashboardHandler.GetBoard)
	api.GET("/triage", dashboardHandler.GetTriage)
	api.POST("/refresh", dashboardHandler.Refresh)

	api.GET("/emails/:id", dashboardHandler.GetEmail)
	api.POST("/emails/:id/done", dashboardHandler.Action(triage.ActionDone))
	api.POST("/emails/:id/ignore", dashboardHandler.Action(triage.ActionIgnore))
	api.POST("/emails/:id/restore", dashboardHandler.Action(triage.ActionRestore))
	api.POST("/emails/:id/snooze", dashboardHandler.Snooze)

	// Real-time triage updates via Server-Sent Events (SSE)
	api.GET("/sse", sseHandler.Stream)
}
