package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/finance-tracker/finance-api/internal/core/domain"
	"github.com/finance-tracker/finance-api/internal/core/ports"
)

// AuthService implements credential authentication, login and registration.
type AuthService struct {
	store    ports.CredentialStore
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	throttle ports.LoginThrottle // optional
	log      zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle enables failed-login throttling.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

func NewAuthService(store ports.CredentialStore, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{store: store, hasher: hasher, tokens: tokens, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate resolves usernameOrEmail by exact username, then by exact
// email, and checks the password. The returned principal always carries the
// canonical username, whichever identifier was supplied.
func (s *AuthService) Authenticate(ctx context.Context, usernameOrEmail, password string) (*domain.Principal, error) {
	user, err := s.resolve(ctx, usernameOrEmail)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrBadCredentials
	}
	return domain.NewPrincipal(user), nil
}

func (s *AuthService) resolve(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.store.FindByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.store.FindByEmail(ctx, identifier)
}

// LoadPrincipal reloads the identity for a token subject with its current roles.
func (s *AuthService) LoadPrincipal(ctx context.Context, username string) (*domain.Principal, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return domain.NewPrincipal(user), nil
}

// Login authenticates and issues a token whose subject is the canonical username.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (string, error) {
	if strings.TrimSpace(usernameOrEmail) == "" || password == "" {
		return "", domain.ErrValidation
	}

	throttleKey := strings.ToLower(strings.TrimSpace(usernameOrEmail))
	if !s.allowed(ctx, throttleKey) {
		return "", domain.ErrTooManyAttempts
	}

	principal, err := s.Authenticate(ctx, usernameOrEmail, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrBadCredentials) {
			s.recordFailure(ctx, throttleKey)
			s.log.Info().Str("reason", err.Error()).Msg("login rejected")
		}
		return "", err
	}
	s.resetThrottle(ctx, throttleKey)

	token, err := s.tokens.Issue(principal.Username, map[string]any{})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Register creates an account with the default role and returns a token for it.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return "", domain.ErrValidation
	}
	if len(password) > domain.MaxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return "", err
	}

	role, err := s.store.FindOrCreateRole(ctx, domain.RoleUser)
	if err != nil {
		return "", fmt.Errorf("default role: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.store.Save(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{role.Name},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// A concurrent registration that won the unique index surfaces as
		// domain.ErrUserExists, the same outcome as the pre-check.
		return "", err
	}

	token, err := s.tokens.Issue(user.Username, map[string]any{})
	if err != nil {
		return "", err
	}
	s.log.Info().Str("username", user.Username).Str("user_id", user.ID).Msg("user registered")
	return token, nil
}

// GetUser returns the stored account for username.
func (s *AuthService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	return s.store.FindByUsername(ctx, username)
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	taken, err := s.store.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUserExists
	}
	taken, err = s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUserExists
	}
	return nil
}

// A throttle backend error never blocks a login.
func (s *AuthService) allowed(ctx context.Context, key string) bool {
	if s.throttle == nil {
		return true
	}
	ok, err := s.throttle.Allow(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle unavailable")
		return true
	}
	return ok
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("record failed login")
	}
}

func (s *AuthService) resetThrottle(ctx context.Context, key string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("reset login throttle")
	}
}
