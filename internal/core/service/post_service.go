package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/ports"
)

// PostService runs post mutations behind the Authorizer. A denied call never
// reaches the repository.
type PostService struct {
	repo  ports.PostRepository
	authz *Authorizer
	log   zerolog.Logger
}

var _ ports.PostService = (*PostService)(nil)

func NewPostService(repo ports.PostRepository, authz *Authorizer, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, authz: authz, log: log}
}

func (s *PostService) Update(ctx context.Context, who domain.Identity, postID string, in ports.UpdatePostInput) (*domain.Post, error) {
	if who == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if !s.authz.CanEdit(ctx, who, postID) {
		return nil, domain.ErrForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	post, err := s.repo.Update(ctx, postID, in)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.log.Info().Str("post_id", postID).Str("user_id", who.UserID()).Msg("post updated")
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, who domain.Identity, postID string) error {
	if who == nil {
		return domain.ErrAuthenticationRequired
	}
	if !s.authz.CanDelete(ctx, who, postID) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.log.Info().Str("post_id", postID).Str("user_id", who.UserID()).Msg("post deleted")
	return nil
}
