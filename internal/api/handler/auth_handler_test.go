package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuspress/newsroom/internal/api/middleware"
	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/ports"
	"github.com/campuspress/newsroom/internal/core/service"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	tokens := newTokens(t)
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "alice" || in.Grade != "11" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Username: in.Username, DisplayName: "Alice", Role: domain.RoleStudent}, nil
		},
	}
	h := NewAuthHandler(stub, tokens, zerolog.Nop())

	req := jsonRequest(http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret123","grade":"11"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	cookie := rec.Header().Get("Set-Cookie")
	token, ok := service.ExtractToken(strings.SplitN(cookie, ";", 2)[0])
	if !ok {
		t.Fatalf("expected session cookie, got %q", cookie)
	}
	claims, err := tokens.Verify(token)
	if err != nil || claims.UserID != "u1" {
		t.Fatalf("cookie token invalid: %+v, %v", claims, err)
	}
	if !strings.Contains(cookie, "HttpOnly") || !strings.Contains(cookie, "SameSite=Strict") {
		t.Fatalf("cookie missing flags: %q", cookie)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User.ID != "u1" || resp.User.Role != domain.RoleStudent {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response must not carry password data")
	}
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, newTokens(t), zerolog.Nop())

	req := jsonRequest(http.MethodPost, "/api/auth/register", `{"username":"al","password":"short"}`)
	rec := httptest.NewRecorder()
	if err := h.Register(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "username must be at least 3") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
		return nil, domain.ErrUserExists
	}}
	h := NewAuthHandler(stub, newTokens(t), zerolog.Nop())

	req := jsonRequest(http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret123"}`)
	rec := httptest.NewRecorder()
	_ = h.Register(e.NewContext(req, rec))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatalf("no session must be started on failure")
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{loginFn: func(_ context.Context, username, password string) (*domain.User, error) {
		if password != "right" {
			return nil, domain.ErrInvalidCredentials
		}
		return &domain.User{ID: "u1", Username: username}, nil
	}}
	h := NewAuthHandler(stub, newTokens(t), zerolog.Nop())

	rec := httptest.NewRecorder()
	_ = h.Login(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"username":"maria","password":"wrong"}`), rec))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	if err := h.Login(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"username":"maria","password":"right"}`), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Set-Cookie"), service.CookieName+"=") {
		t.Fatalf("expected session cookie, got %q", rec.Header().Get("Set-Cookie"))
	}
}

func TestAuthHandler_Login_StoreFailure(t *testing.T) {
	e := newTestEcho()
	boom := errors.New("store down")
	stub := &stubAuthService{loginFn: func(context.Context, string, string) (*domain.User, error) {
		return nil, boom
	}}
	h := NewAuthHandler(stub, newTokens(t), zerolog.Nop())

	err := h.Login(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"username":"maria","password":"x"}`), httptest.NewRecorder()))
	if !errors.Is(err, boom) {
		t.Fatalf("expected error to reach the central handler, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, newTokens(t), zerolog.Nop())

	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if cookie := rec.Header().Get("Set-Cookie"); !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected expiring cookie, got %q", cookie)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, newTokens(t), zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), rec)
	middleware.SetIdentity(c, domain.DegradedIdentity{ID: "u1", Name: "maria"})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp identityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Kind != "degraded" || resp.DisplayName != "maria" || resp.IsAdminOrTeacher || resp.User != nil {
		t.Fatalf("unexpected identity response: %+v", resp)
	}
}

func TestAuthHandler_Me_Anonymous(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, newTokens(t), zerolog.Nop())

	err := h.Me(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), httptest.NewRecorder()))
	if err == nil {
		t.Fatalf("expected 401 error")
	}
}
