package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuspress/newsroom/internal/core/domain"
)

const (
	// CookieName is the cookie carrying the session token.
	CookieName = "authToken"
	// MinSecretLength is the shortest accepted signing secret, in bytes.
	MinSecretLength = 32
	// DefaultSessionDuration is the token and cookie lifetime when none is configured.
	DefaultSessionDuration = 48 * time.Hour
)

// ErrWeakSecret is returned by NewTokenService for a missing or short secret.
var ErrWeakSecret = fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)

// Claims is the signed session payload. Profile fields are deliberately not
// embedded; they are read from the user store on each request.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret   string
	Duration time.Duration
	// Secure adds the Secure attribute to cookies. Set in production.
	Secure bool
	Now    func() time.Time
}

// TokenService issues and verifies HS256 session tokens and renders them as cookies.
type TokenService struct {
	secret   []byte
	duration time.Duration
	secure   bool
	now      func() time.Time
}

// NewTokenService validates cfg and returns a TokenService. It fails when the
// secret is shorter than MinSecretLength.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultSessionDuration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenService{
		secret:   []byte(cfg.Secret),
		duration: cfg.Duration,
		secure:   cfg.Secure,
		now:      cfg.Now,
	}, nil
}

// Duration returns the session lifetime.
func (s *TokenService) Duration() time.Duration { return s.duration }

// Issue signs a token for the given account that expires after the session duration.
func (s *TokenService) Issue(userID, username string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token. Every failure is reported
// as an error wrapping domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// SessionCookie wraps token in the session cookie.
func (s *TokenService) SessionCookie(token string) *http.Cookie {
	return s.cookie(token, int(s.duration/time.Second))
}

// ClearCookie returns a cookie that expires the session immediately.
func (s *TokenService) ClearCookie() *http.Cookie {
	// A negative MaxAge renders as Max-Age=0.
	return s.cookie("", -1)
}

// SerializeCookie renders the Set-Cookie header value for token.
func (s *TokenService) SerializeCookie(token string) string {
	return s.SessionCookie(token).String()
}

// SerializeClearCookie renders the Set-Cookie header value that logs out.
func (s *TokenService) SerializeClearCookie() string {
	return s.ClearCookie().String()
}

func (s *TokenService) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExtractToken returns the session token from a raw Cookie header. Pairs are
// separated by semicolons and may carry surrounding whitespace. A missing or
// empty value reports false.
func ExtractToken(cookieHeader string) (string, bool) {
	for _, part := range strings.Split(cookieHeader, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || strings.TrimSpace(name) != CookieName {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return "", false
		}
		return value, true
	}
	return "", false
}

