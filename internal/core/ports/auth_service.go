package ports

import (
	"context"

	"github.com/finance-tracker/finance-api/internal/core/domain"
)

// PasswordHasher produces and checks one-way salted password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints signed identity tokens.
type TokenIssuer interface {
	Issue(subject string, claims map[string]any) (string, error)
}

// TokenVerifier validates a token and returns its subject. Failures wrap
// domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// LoginThrottle limits repeated failed logins per identifier.
type LoginThrottle interface {
	Allow(ctx context.Context, identifier string) (bool, error)
	RecordFailure(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}

// PrincipalLoader reloads the current identity behind a token subject.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, username string) (*domain.Principal, error)
}

type AuthService interface {
	PrincipalLoader
	Authenticate(ctx context.Context, usernameOrEmail, password string) (*domain.Principal, error)
	Login(ctx context.Context, usernameOrEmail, password string) (string, error)
	Register(ctx context.Context, username, email, password string) (string, error)
	GetUser(ctx context.Context, username string) (*domain.User, error)
}
