package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finance-tracker/finance-api/internal/api/metrics"
	"github.com/finance-tracker/finance-api/internal/core/domain"
	"github.com/finance-tracker/finance-api/internal/core/ports"
)

// Authenticate resolves a bearer token into a principal for the current
// request. It never rejects: requests without a usable token continue
// unauthenticated and route guards decide. Roles are reloaded from the store
// on every request, never read from the token.
func Authenticate(tokens ports.TokenVerifier, identities ports.PrincipalLoader, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			subject, err := tokens.Verify(raw)
			if err != nil {
				reason := tokenFailureReason(err)
				metrics.TokenVerificationFailuresTotal.WithLabelValues(reason).Inc()
				log.Debug().Str("reason", reason).Str("path", c.Path()).Msg("bearer token rejected")
				return next(c)
			}

			ctx := c.Request().Context()
			principal, err := identities.LoadPrincipal(ctx, subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.TokenVerificationFailuresTotal.WithLabelValues("unknown_subject").Inc()
					log.Debug().Str("subject", subject).Msg("token subject no longer exists")
				} else {
					log.Error().Err(err).Str("subject", subject).Msg("load principal")
				}
				return next(c)
			}

			c.Set(PrincipalContextKey, principal)
			c.SetRequest(c.Request().WithContext(WithPrincipal(ctx, principal)))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
