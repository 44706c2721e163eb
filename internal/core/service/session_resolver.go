package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/ports"
)

// DefaultLookupTimeout bounds the probe and user lookup of a single resolution.
const DefaultLookupTimeout = 2 * time.Second

// Outcome is the reason a Resolution ended the way it did.
type Outcome string

const (
	OutcomeNoCookie      Outcome = "no_cookie"
	OutcomeInvalidToken  Outcome = "invalid_token"
	OutcomeLegacyAdmin   Outcome = "legacy_admin"
	OutcomeDegraded      Outcome = "degraded"
	OutcomeAuthenticated Outcome = "authenticated"
	OutcomeUserDeleted   Outcome = "user_deleted"
	OutcomeError         Outcome = "error"
)

// Resolution is the result of turning a Cookie header into an identity.
// Identity is nil for every unauthenticated outcome. Err carries the cause
// for invalid_token, degraded and error.
type Resolution struct {
	Identity domain.Identity
	Outcome  Outcome
	Err      error
}

// Authenticated reports whether an identity was resolved.
func (r Resolution) Authenticated() bool { return r.Identity != nil }

// SessionResolver resolves the caller of a request from its session cookie.
type SessionResolver struct {
	tokens  *TokenService
	users   ports.UserLookup
	probe   ports.DependencyProbe
	timeout time.Duration
	log     zerolog.Logger
}

// NewSessionResolver wires a resolver. probe may be nil, in which case the
// user lookup is attempted directly.
func NewSessionResolver(
	tokens *TokenService,
	users ports.UserLookup,
	probe ports.DependencyProbe,
	timeout time.Duration,
	log zerolog.Logger,
) *SessionResolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &SessionResolver{
		tokens:  tokens,
		users:   users,
		probe:   probe,
		timeout: timeout,
		log:     log,
	}
}

// Resolve never fails: every problem collapses into an unauthenticated
// Resolution with the reason recorded in Outcome.
func (r *SessionResolver) Resolve(ctx context.Context, cookieHeader string) (res Resolution) {
	defer func() {
		if p := recover(); p != nil {
			res = Resolution{Outcome: OutcomeError, Err: fmt.Errorf("resolve session: panic: %v", p)}
			r.log.Error().Err(res.Err).Msg("session resolution failed")
		}
	}()

	token, ok := ExtractToken(cookieHeader)
	if !ok {
		return Resolution{Outcome: OutcomeNoCookie}
	}

	claims, err := r.tokens.Verify(token)
	if err != nil {
		return Resolution{Outcome: OutcomeInvalidToken, Err: err}
	}

	if claims.UserID == domain.LegacyAdminUserID {
		return Resolution{Identity: domain.AdminIdentity{}, Outcome: OutcomeLegacyAdmin}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.probe != nil && !r.probe.Available(lookupCtx) {
		return r.degraded(claims, domain.ErrStoreUnavailable)
	}

	user, err := r.users.FindByID(lookupCtx, claims.UserID)
	switch {
	case err == nil && user != nil:
		return Resolution{Identity: domain.FullIdentity{User: *user}, Outcome: OutcomeAuthenticated}
	case err == nil, errors.Is(err, domain.ErrUserNotFound):
		r.log.Info().Str("user_id", claims.UserID).Msg("session refers to a deleted account")
		return Resolution{Outcome: OutcomeUserDeleted}
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		return r.degraded(claims, err)
	default:
		r.log.Error().Err(err).Str("user_id", claims.UserID).Msg("session resolution failed")
		return Resolution{Outcome: OutcomeError, Err: fmt.Errorf("resolve session: %w", err)}
	}
}

func (r *SessionResolver) degraded(claims *Claims, cause error) Resolution {
	r.log.Warn().
		Err(cause).
		Str("user_id", claims.UserID).
		Msg("user store unavailable, resolving degraded session")
	return Resolution{
		Identity: domain.DegradedIdentity{ID: claims.UserID, Name: claims.Username},
		Outcome:  OutcomeDegraded,
		Err:      cause,
	}
}

// Current returns the resolved identity or nil.
func (r *SessionResolver) Current(ctx context.Context, cookieHeader string) domain.Identity {
	return r.Resolve(ctx, cookieHeader).Identity
}

// RequireAuth returns the resolved identity or domain.ErrAuthenticationRequired.
func (r *SessionResolver) RequireAuth(ctx context.Context, cookieHeader string) (domain.Identity, error) {
	if who := r.Current(ctx, cookieHeader); who != nil {
		return who, nil
	}
	return nil, domain.ErrAuthenticationRequired
}
