package ports

import (
	"context"

	"github.com/finance-tracker/finance-api/internal/core/domain"
)

// ProfileRepository persists one profile per user.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}

// ProfileInput carries the targets submitted by a client; nil means unset.
type ProfileInput struct {
	MonthlyIncome        *float64
	MonthlySavingsTarget *float64
	MonthlyExpenseTarget *float64
}

type ProfileService interface {
	Get(ctx context.Context, username string) (*domain.Profile, error)
	Save(ctx context.Context, username string, in ProfileInput) (*domain.Profile, error)
}
