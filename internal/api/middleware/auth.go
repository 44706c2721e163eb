package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuspress/newsroom/internal/api/metrics"
	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/service"
)

// identityKey is the echo context key holding the resolved domain.Identity.
const identityKey = "identity"

// SessionResolver is the part of service.SessionResolver the middleware uses.
type SessionResolver interface {
	Resolve(ctx context.Context, cookieHeader string) service.Resolution
}

// Session resolves the caller from the Cookie header and stores the identity
// in the context. Anonymous requests pass through with no identity set.
func Session(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := resolver.Resolve(req.Context(), req.Header.Get("Cookie"))
			metrics.SessionResolutionsTotal.WithLabelValues(string(res.Outcome)).Inc()

			if res.Identity != nil {
				c.Set(identityKey, res.Identity)
			}
			return next(c)
		}
	}
}

// RequireAuth rejects requests that Session could not resolve to an identity.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFrom(c) == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.ErrAuthenticationRequired.Error()})
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Session, or nil.
func IdentityFrom(c echo.Context) domain.Identity {
	who, _ := c.Get(identityKey).(domain.Identity)
	return who
}

// SetIdentity stores who in the context. Used by handlers that establish a
// session mid-request and by tests.
func SetIdentity(c echo.Context, who domain.Identity) {
	c.Set(identityKey, who)
}
