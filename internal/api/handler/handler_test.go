package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/ports"
	"github.com/campuspress/newsroom/internal/core/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	return s.loginFn(ctx, username, password)
}

type stubPostService struct {
	updateFn func(ctx context.Context, who domain.Identity, postID string, in ports.UpdatePostInput) (*domain.Post, error)
	deleteFn func(ctx context.Context, who domain.Identity, postID string) error
}

func (s *stubPostService) Update(ctx context.Context, who domain.Identity, postID string, in ports.UpdatePostInput) (*domain.Post, error) {
	return s.updateFn(ctx, who, postID, in)
}

func (s *stubPostService) Delete(ctx context.Context, who domain.Identity, postID string) error {
	return s.deleteFn(ctx, who, postID)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newTokens(t *testing.T) *service.TokenService {
	t.Helper()
	tokens, err := service.NewTokenService(service.TokenConfig{Secret: testSecret, Duration: time.Hour})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return tokens
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
