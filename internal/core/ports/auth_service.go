package ports

import (
	"context"

	"github.com/campuspress/newsroom/internal/core/domain"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Username    string
	Password    string
	DisplayName string
	Email       string
	Grade       string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
}

// PostService exposes the gated post mutations.
type PostService interface {
	Update(ctx context.Context, who domain.Identity, postID string, in UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, who domain.Identity, postID string) error
}
