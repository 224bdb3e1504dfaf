package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/finance-tracker/finance-api/internal/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_IssueVerify_RoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.Issue("alice", map[string]any{"plan": "free"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sub, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("expected subject alice, got %q", sub)
	}
}

func TestTokenService_Issue_EmbedsClaims(t *testing.T) {
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewTokenService(testSecret, 2*time.Hour).WithClock(fixedClock(issuedAt))

	token, err := svc.Issue("alice", map[string]any{"plan": "free", "sub": "mallory"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected compact JWS, got %d parts", len(parts))
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if payload["sub"] != "alice" {
		t.Fatalf("caller claims must not override sub, got %v", payload["sub"])
	}
	if payload["plan"] != "free" {
		t.Fatalf("expected plan claim, got %v", payload["plan"])
	}
	if payload["iat"] != float64(issuedAt.Unix()) {
		t.Fatalf("unexpected iat %v", payload["iat"])
	}
	if payload["exp"] != float64(issuedAt.Add(2*time.Hour).Unix()) {
		t.Fatalf("unexpected exp %v", payload["exp"])
	}
}

func TestTokenService_Verify_Expired(t *testing.T) {
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer := NewTokenService(testSecret, time.Hour).WithClock(fixedClock(issuedAt))

	token, err := issuer.Issue("alice", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	before := issuer.WithClock(fixedClock(issuedAt.Add(59 * time.Minute)))
	if _, err := before.Verify(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	after := issuer.WithClock(fixedClock(issuedAt.Add(time.Hour + time.Second)))
	_, err = after.Verify(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected expiry to fold into ErrInvalidToken")
	}
}

func TestTokenService_Verify_TamperedSignature(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	token, _ := svc.Issue("alice", nil)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[10] == 'A' {
		sig[10] = 'B'
	} else {
		sig[10] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := svc.Verify(tampered); !errors.Is(err, domain.ErrTokenInvalidSignature) {
		t.Fatalf("expected ErrTokenInvalidSignature, got %v", err)
	}
}

func TestTokenService_Verify_TamperedPayload(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	token, _ := svc.Issue("alice", nil)
	parts := strings.Split(token, ".")

	raw, _ := base64.RawURLEncoding.DecodeString(parts[1])
	forged := strings.Replace(string(raw), `"alice"`, `"admin"`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err := svc.Verify(strings.Join(parts, "."))
	if !errors.Is(err, domain.ErrTokenInvalidSignature) {
		t.Fatalf("expected ErrTokenInvalidSignature, got %v", err)
	}
}

func TestTokenService_Verify_EveryPayloadByteAltered(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	token, _ := svc.Issue("alice", map[string]any{"k": "v"})
	parts := strings.Split(token, ".")

	raw, _ := base64.RawURLEncoding.DecodeString(parts[1])
	for i := range raw {
		altered := append([]byte(nil), raw...)
		altered[i] ^= 0x01
		candidate := parts[0] + "." + base64.RawURLEncoding.EncodeToString(altered) + "." + parts[2]
		if _, err := svc.Verify(candidate); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("byte %d altered: expected verification failure, got %v", i, err)
		}
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	token, _ := NewTokenService(testSecret, time.Hour).Issue("alice", nil)
	other := NewTokenService("ffffffffffffffffffffffffffffffff", time.Hour)

	if _, err := other.Verify(token); !errors.Is(err, domain.ErrTokenInvalidSignature) {
		t.Fatalf("expected ErrTokenInvalidSignature, got %v", err)
	}
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("Verify(%q): expected ErrTokenMalformed, got %v", tok, err)
		}
	}
}

func TestTokenService_Verify_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	claims := jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(time.Hour).Unix()}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(hs512); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected HS512 token to be rejected, got %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Verify(none); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected alg=none token to be rejected, got %v", err)
	}
}

func TestTokenService_Verify_RequiresExpiryAndSubject(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"}).SignedString([]byte(testSecret))
	if _, err := svc.Verify(noExp); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if _, err := svc.Verify(noSub); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for missing subject, got %v", err)
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	if ttl := NewTokenService(testSecret, 0).TTL(); ttl != 24*time.Hour {
		t.Fatalf("expected default TTL 24h, got %v", ttl)
	}
}
