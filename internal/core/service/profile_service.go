package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/finance-tracker/finance-api/internal/core/domain"
	"github.com/finance-tracker/finance-api/internal/core/ports"
)

type profileService struct {
	users    ports.CredentialStore
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

// NewProfileService returns a ProfileService keyed on the authenticated username.
func NewProfileService(users ports.CredentialStore, profiles ports.ProfileRepository, log zerolog.Logger) ports.ProfileService {
	return &profileService{users: users, profiles: profiles, log: log}
}

// Get returns the user's profile, or an empty one when none has been saved.
func (s *profileService) Get(ctx context.Context, username string) (*domain.Profile, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByUserID(ctx, user.ID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return &domain.Profile{UserID: user.ID}, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Save replaces the user's targets, creating the profile on first use.
func (s *profileService) Save(ctx context.Context, username string, in ports.ProfileInput) (*domain.Profile, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	for _, v := range []*float64{in.MonthlyIncome, in.MonthlySavingsTarget, in.MonthlyExpenseTarget} {
		if v != nil && *v < 0 {
			return nil, domain.ErrValidation
		}
	}

	saved, err := s.profiles.Upsert(ctx, &domain.Profile{
		UserID:               user.ID,
		MonthlyIncome:        in.MonthlyIncome,
		MonthlySavingsTarget: in.MonthlySavingsTarget,
		MonthlyExpenseTarget: in.MonthlyExpenseTarget,
		UpdatedAt:            time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("user_id", user.ID).Msg("profile saved")
	return saved, nil
}
