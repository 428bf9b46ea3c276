package middleware

import (
	"strconv"
	"time"

	"inbox-triage/internal/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request durations by route template
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}
			metrics.RecordHTTPRequestDuration(c.Request().Method, c.Path(), strconv.Itoa(status), time.Since(start))
			return err
		}
	}
}
