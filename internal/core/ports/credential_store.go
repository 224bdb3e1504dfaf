package ports

import (
	"context"

	"github.com/finance-tracker/finance-api/internal/core/domain"
)

// CredentialStore persists user identities and roles. Implementations must
// enforce uniqueness of username and email atomically and report a violation
// as domain.ErrUserExists.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)

	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
	// FindOrCreateRole returns the named role, inserting it atomically if absent.
	FindOrCreateRole(ctx context.Context, name string) (*domain.Role, error)
}
