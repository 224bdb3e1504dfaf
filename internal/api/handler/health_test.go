package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/health", "")
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	ok := DependencyCheck{Name: "mongodb", Check: func(context.Context) error { return nil }}
	down := DependencyCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }}

	c, rec := newJSONContext(http.MethodGet, "/health/ready", "")
	if err := NewHealthDependenciesHandler(zerolog.Nop(), ok).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var logs bytes.Buffer
	c, rec = newJSONContext(http.MethodGet, "/health/ready", "")
	if err := NewHealthDependenciesHandler(zerolog.New(&logs), ok, down).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	deps, _ := resp["dependencies"].(map[string]any)
	redisStatus, _ := deps["redis"].(map[string]any)
	if resp["status"] != "degraded" || redisStatus["status"] != "unhealthy" {
		t.Fatalf("unexpected payload %v", resp)
	}
	if _, leaked := redisStatus["error"]; leaked {
		t.Fatalf("dependency error must not be exposed: %v", redisStatus)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("response leaks backend error: %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "connection refused") || !strings.Contains(logs.String(), `"dependency":"redis"`) {
		t.Fatalf("expected failure to be logged, got %q", logs.String())
	}
}
