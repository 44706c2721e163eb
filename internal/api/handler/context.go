package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuspress/newsroom/internal/api/middleware"
	"github.com/campuspress/newsroom/internal/core/domain"
)

// ctxIdentity returns the identity resolved by the Session middleware and
// fails fast with 401 before any service call when there is none.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	who := middleware.IdentityFrom(c)
	if who == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, domain.ErrAuthenticationRequired.Error())
	}
	return who, nil
}
