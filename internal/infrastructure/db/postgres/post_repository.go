package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/ports"
)

// PostRepository implements ports.PostRepository using PostgreSQL.
type PostRepository struct {
	pool *pgxpool.Pool
}

var _ ports.PostRepository = (*PostRepository)(nil)

// NewPostRepository constructs a PostgreSQL post repository.
func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

// FindOwner returns the author of postID, or "" when author_id is NULL.
func (r *PostRepository) FindOwner(ctx context.Context, postID string) (string, error) {
	var author pgtype.Text
	err := r.pool.QueryRow(ctx, `SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&author)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrPostNotFound
		}
		return "", wrapErr("find post owner", err)
	}
	return author.String, nil
}

// Update replaces the title and content of postID.
func (r *PostRepository) Update(ctx context.Context, postID string, in ports.UpdatePostInput) (*domain.Post, error) {
	var (
		p         domain.Post
		author    pgtype.Text
		updatedAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx,
		`UPDATE posts SET title = $2, content = $3, updated_at = $4
		 WHERE id = $1
		 RETURNING id, author_id, title, content, updated_at`,
		postID, in.Title, in.Content, time.Now().UTC(),
	).Scan(&p.ID, &author, &p.Title, &p.Content, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, wrapErr("update post", err)
	}

	p.OwnerID = author.String
	p.UpdatedAt = updatedAt.Time.UTC()
	return &p, nil
}

// Delete removes postID.
func (r *PostRepository) Delete(ctx context.Context, postID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return wrapErr("delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}
