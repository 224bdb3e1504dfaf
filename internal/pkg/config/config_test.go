package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": validSecret,
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.Auth.JWTTTL != 24*time.Hour {
		t.Fatalf("unexpected ttl %v", cfg.Auth.JWTTTL)
	}
	if cfg.Auth.LoginWindow != 15*time.Minute || cfg.Auth.LoginMaxAttempts != 5 {
		t.Fatalf("unexpected throttle defaults: %d %v", cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Auth.RateLimit != 10 || cfg.Auth.RateBurst != 20 {
		t.Fatalf("unexpected rate limit defaults: %v %d", cfg.Auth.RateLimit, cfg.Auth.RateBurst)
	}
	if !cfg.Seed.Admin || cfg.Seed.AdminUsername != "admin" {
		t.Fatalf("unexpected seed config %+v", cfg.Seed)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":           validSecret,
		"JWT_TTL":              "30m",
		"ENV":                  "production",
		"CORS_ALLOWED_ORIGINS": "https://app.example.com,https://admin.example.com",
		"MONGO_DB":             "finance_prod",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.JWTTTL != 30*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.Auth.JWTTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Mongo.Database != "finance_prod" {
		t.Fatalf("unexpected database %q", cfg.Mongo.Database)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("production must not be development")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"short secret":  {"JWT_SECRET": "short"},
		"zero ttl":      {"JWT_SECRET": validSecret, "JWT_TTL": "0s"},
		"bcrypt cost":   {"JWT_SECRET": validSecret, "BCRYPT_COST": "99"},
		"rate limit":    {"JWT_SECRET": validSecret, "AUTH_RATE_LIMIT": "-1"},
		"seed password": {"JWT_SECRET": validSecret, "SEED_ADMIN_PASSWORD": strings.Repeat("é", 40)},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("unexpected error format: %v", err)
			}
		})
	}
}

func TestLoad_SeedPasswordTooLongIsNamed(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":          validSecret,
		"SEED_ADMIN_PASSWORD": strings.Repeat("a", 73),
	}))
	if err == nil || !strings.Contains(err.Error(), "SEED_ADMIN_PASSWORD must be at most 72 bytes") {
		t.Fatalf("expected named seed password error, got %v", err)
	}
}
