package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finance-tracker/finance-api/internal/core/domain"
	"github.com/finance-tracker/finance-api/internal/core/ports"
)

// AdminSeed describes the bootstrap administrator. An empty Password skips it.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// Seeder installs the default roles and, optionally, an administrator.
type Seeder struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewSeeder(store ports.CredentialStore, hasher ports.PasswordHasher, log zerolog.Logger) *Seeder {
	return &Seeder{store: store, hasher: hasher, log: log}
}

// Seed is idempotent; running it against a seeded store changes nothing.
func (s *Seeder) Seed(ctx context.Context, admin *AdminSeed) error {
	for _, name := range []string{domain.RoleUser, domain.RoleAdmin} {
		if err := s.ensureRole(ctx, name); err != nil {
			return err
		}
	}

	if admin == nil {
		return nil
	}
	if admin.Password == "" {
		s.log.Warn().Str("username", admin.Username).Msg("admin seed skipped: no password configured")
		return nil
	}
	return s.ensureAdmin(ctx, *admin)
}

func (s *Seeder) ensureRole(ctx context.Context, name string) error {
	_, err := s.store.FindRoleByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrRoleNotFound) {
		return fmt.Errorf("seed role %s: %w", name, err)
	}
	if _, err := s.store.FindOrCreateRole(ctx, name); err != nil {
		return fmt.Errorf("seed role %s: %w", name, err)
	}
	s.log.Info().Str("role", name).Msg("role created")
	return nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, admin AdminSeed) error {
	exists, err := s.store.ExistsByUsername(ctx, admin.Username)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("seed admin: hash password: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.store.Save(ctx, &domain.User{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: hash,
		Roles:        []string{domain.RoleUser, domain.RoleAdmin},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info().Str("username", admin.Username).Msg("admin user created")
	return nil
}
