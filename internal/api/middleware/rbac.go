package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuthenticated rejects requests that carry no principal.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := Principal(c); !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="finance-api"`)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			return next(c)
		}
	}
}

// RequireAuthority enforces that the principal holds at least one of the
// given authorities. Unauthenticated requests get 401, others 403.
func RequireAuthority(authorities ...string) echo.MiddlewareFunc {
	authenticated := RequireAuthenticated()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authenticated(func(c echo.Context) error {
			p, _ := Principal(c)
			if !p.HasAuthority(authorities...) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		})
	}
}
