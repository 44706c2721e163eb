package service

import (
	"context"
	"time"

	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/ports"
	"github.com/campuspress/newsroom/internal/pkg/cache"
)

// CachedUserLookup memoizes a UserLookup. Only successful lookups are cached,
// so a missing user or a store outage is retried on the next request.
type CachedUserLookup struct {
	byID       func(context.Context, string) (*domain.User, error)
	byUsername func(context.Context, string) (*domain.User, error)
}

var _ ports.UserLookup = (*CachedUserLookup)(nil)

// NewCachedUserLookup wraps inner with c, keeping entries for ttl.
func NewCachedUserLookup(inner ports.UserLookup, c *cache.Cache[*domain.User], ttl time.Duration) *CachedUserLookup {
	return &CachedUserLookup{
		byID: cache.Memoize(c, inner.FindByID, func(id string) string {
			return "user:id:" + id
		}, ttl),
		byUsername: cache.Memoize(c, inner.FindByUsername, func(username string) string {
			return "user:username:" + username
		}, ttl),
	}
}

func (l *CachedUserLookup) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return cloneUser(l.byID(ctx, id))
}

func (l *CachedUserLookup) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return cloneUser(l.byUsername(ctx, username))
}

// cloneUser keeps callers from mutating the cached record.
func cloneUser(u *domain.User, err error) (*domain.User, error) {
	if err != nil || u == nil {
		return u, err
	}
	clone := *u
	return &clone, nil
}
