package middleware

import (
	"net/http"

	"inbox-triage/internal/session"

	"github.com/labstack/echo/v4"
)

// SessionMiddleware resolves the browser session id and stores it on the context
func SessionMiddleware(tracker *session.Tracker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := tracker.SessionID(c.Response(), c.Request())
			if err != nil {
				c.Logger().Error("Failed to resolve session:", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "Failed to resolve session",
				})
			}

			c.Set(session.ContextKey, id)
			return next(c)
		}
	}
}
