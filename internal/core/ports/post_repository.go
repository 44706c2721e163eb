package ports

import (
	"context"

	"github.com/campuspress/newsroom/internal/core/domain"
)

// PostOwnerLookup answers who currently owns a post.
//
// FindOwner returns domain.ErrPostNotFound when the post does not exist and
// an empty owner ID when the post exists without a recorded author.
type PostOwnerLookup interface {
	FindOwner(ctx context.Context, postID string) (string, error)
}

// UpdatePostInput carries the editable fields of a post.
type UpdatePostInput struct {
	Title   string
	Content string
}

// PostRepository is the mutation side of the post store. Only the calls the
// permission gate protects are modelled here.
type PostRepository interface {
	PostOwnerLookup
	Update(ctx context.Context, postID string, in UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, postID string) error
}
