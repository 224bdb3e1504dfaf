package service

import (
	"context"
	"errors"
	"testing"

	"github.com/finance-tracker/finance-api/internal/core/domain"
	"github.com/finance-tracker/finance-api/internal/core/ports"
)

type stubProfileRepo struct {
	byUser map[string]*domain.Profile
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byUser: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) Upsert(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	clone := *p
	r.byUser[p.UserID] = &clone
	out := clone
	return &out, nil
}

func amount(v float64) *float64 { return &v }

func newTestProfileService(t *testing.T) (ports.ProfileService, *stubProfileRepo) {
	t.Helper()
	store := newStubCredentialStore()
	auth, _ := newTestAuthService(store)
	mustRegister(t, auth, "alice", "alice@x.com", "pw1")

	repo := newStubProfileRepo()
	return NewProfileService(store, repo, discardLogger), repo
}

func TestProfileService_Get_EmptyWhenUnset(t *testing.T) {
	svc, _ := newTestProfileService(t)

	p, err := svc.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.MonthlyIncome != nil || p.MonthlySavingsTarget != nil || p.MonthlyExpenseTarget != nil {
		t.Fatalf("expected empty profile, got %+v", p)
	}
}

func TestProfileService_SaveThenGet(t *testing.T) {
	svc, repo := newTestProfileService(t)

	saved, err := svc.Save(context.Background(), "alice", ports.ProfileInput{
		MonthlyIncome:        amount(5000),
		MonthlySavingsTarget: amount(1000),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.UpdatedAt.IsZero() {
		t.Fatalf("expected UpdatedAt to be set")
	}
	if len(repo.byUser) != 1 {
		t.Fatalf("expected one stored profile, got %d", len(repo.byUser))
	}

	// A second save replaces the targets rather than merging them.
	if _, err := svc.Save(context.Background(), "alice", ports.ProfileInput{MonthlyExpenseTarget: amount(2500)}); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := svc.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MonthlyIncome != nil || got.MonthlyExpenseTarget == nil || *got.MonthlyExpenseTarget != 2500 {
		t.Fatalf("unexpected profile after replace: %+v", got)
	}
	if len(repo.byUser) != 1 {
		t.Fatalf("expected upsert to keep a single profile, got %d", len(repo.byUser))
	}
}

func TestProfileService_Save_RejectsNegativeAmounts(t *testing.T) {
	svc, _ := newTestProfileService(t)

	_, err := svc.Save(context.Background(), "alice", ports.ProfileInput{MonthlyIncome: amount(-1)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProfileService_UnknownUser(t *testing.T) {
	svc, _ := newTestProfileService(t)

	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Save(context.Background(), "ghost", ports.ProfileInput{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
