package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/finance-tracker/finance-api/internal/api/middleware"
	"github.com/finance-tracker/finance-api/internal/core/domain"
)

// ctxPrincipal returns the principal installed by the authentication filter.
// Routes using it sit behind RequireAuthenticated; a missing principal is 401.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return nil, echo.ErrUnauthorized
	}
	return p, nil
}
