package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/ports"
)

type PostRepository struct {
	col *mongo.Collection
}

var _ ports.PostRepository = (*PostRepository)(nil)

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

// mongoPost stores the author as the user's hex ID. A null or missing
// author_id means the post has no owner.
type mongoPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID  *string            `bson:"author_id"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (r *PostRepository) FindOwner(ctx context.Context, postID string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return "", domain.ErrPostNotFound
	}

	var doc struct {
		AuthorID *string `bson:"author_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"author_id": 1})
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrPostNotFound
		}
		return "", wrapErr("find post owner", err)
	}
	if doc.AuthorID == nil {
		return "", nil
	}
	return *doc.AuthorID, nil
}

func (r *PostRepository) Update(ctx context.Context, postID string, in ports.UpdatePostInput) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":      in.Title,
		"content":    in.Content,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoPost
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, wrapErr("update post", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, postID string) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrapErr("delete post", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (p mongoPost) toDomain() *domain.Post {
	post := &domain.Post{
		ID:        p.ID.Hex(),
		Title:     p.Title,
		Content:   p.Content,
		UpdatedAt: p.UpdatedAt.UTC(),
	}
	if p.AuthorID != nil {
		post.OwnerID = *p.AuthorID
	}
	return post
}
