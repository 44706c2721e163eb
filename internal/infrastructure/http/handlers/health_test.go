package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	if err := NewHealthHandler().Liveness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error {
		return errors.New("dial tcp redis.internal:6379: connection refused")
	}

	cases := []struct {
		name   string
		checks map[string]Check
		code   int
		status string
	}{
		{name: "all up", checks: map[string]Check{"mongodb": ok, "redis": ok}, code: http.StatusOK, status: "ok"},
		{name: "redis down", checks: map[string]Check{"mongodb": ok, "redis": down}, code: http.StatusServiceUnavailable, status: "degraded"},
		{name: "no checks", checks: nil, code: http.StatusOK, status: "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			h := NewReadinessHandler(tc.checks, zerolog.Nop())
			if err := h.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tc.status {
				t.Fatalf("expected status %q, got %q", tc.status, resp.Status)
			}
			if tc.name == "redis down" {
				if resp.Dependencies["redis"].Status != "unhealthy" {
					t.Fatalf("expected redis unhealthy, got %+v", resp.Dependencies)
				}
				if strings.Contains(rec.Body.String(), "redis.internal") {
					t.Fatalf("response leaks dependency error detail: %s", rec.Body.String())
				}
			}
		})
	}
}
