package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequirePrivileged admits only identities with admin or teacher rights.
// Degraded identities are never privileged, so moderation routes close
// while the user store is down.
func RequirePrivileged() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			who := IdentityFrom(c)
			if who == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			if !who.Privileged() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
