package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/finance-tracker/finance-api/internal/core/domain"
)

type principalKey struct{}

// PrincipalContextKey is the echo.Context key holding the request principal.
const PrincipalContextKey = "principal"

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal installed by Authenticate, if any.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}

// Principal returns the principal attached to the echo context, if any.
func Principal(c echo.Context) (*domain.Principal, bool) {
	if p, ok := c.Get(PrincipalContextKey).(*domain.Principal); ok && p != nil {
		return p, true
	}
	return PrincipalFromContext(c.Request().Context())
}
