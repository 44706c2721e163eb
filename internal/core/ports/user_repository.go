package ports

import (
	"context"

	"github.com/campuspress/newsroom/internal/core/domain"
)

// UserLookup is the read side of the user store consumed by the session
// resolver. Both methods return domain.ErrUserNotFound for a missing row and
// wrap domain.ErrStoreUnavailable when the store cannot answer.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserRepository adds account creation to UserLookup.
type UserRepository interface {
	UserLookup
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// DependencyProbe is a cheap liveness check of the backing store.
type DependencyProbe interface {
	Available(ctx context.Context) bool
}
