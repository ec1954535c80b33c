package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireTerminal guards the card-reader endpoints. The reader device
// has no user session; it authenticates with a shared token in
// X-Terminal-Token. An empty configured token disables the check
// (dev mode).
func RequireTerminal(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return next(c)
			}
			got := c.Request().Header.Get("X-Terminal-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_TERMINAL_TOKEN"})
			}
			return next(c)
		}
	}
}
