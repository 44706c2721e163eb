package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/ports"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	next  int

	findByIDCalls int
	findByIDErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) add(u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = &u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.next++
	clone := *user
	clone.ID = "u" + strconv.Itoa(r.next)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByIDCalls++
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByIDCalls
}

type stubProbe struct {
	available bool
	calls     int
}

func (p *stubProbe) Available(context.Context) bool {
	p.calls++
	return p.available
}

type stubPostRepo struct {
	findOwnerFn func(ctx context.Context, postID string) (string, error)
	updateFn    func(ctx context.Context, postID string, in ports.UpdatePostInput) (*domain.Post, error)
	deleteFn    func(ctx context.Context, postID string) error

	ownerCalls int
}

func (r *stubPostRepo) FindOwner(ctx context.Context, postID string) (string, error) {
	r.ownerCalls++
	return r.findOwnerFn(ctx, postID)
}

func (r *stubPostRepo) Update(ctx context.Context, postID string, in ports.UpdatePostInput) (*domain.Post, error) {
	return r.updateFn(ctx, postID, in)
}

func (r *stubPostRepo) Delete(ctx context.Context, postID string) error {
	return r.deleteFn(ctx, postID)
}

// ownedPosts returns a FindOwner func over a fixed post→owner table.
func ownedPosts(owners map[string]string) func(context.Context, string) (string, error) {
	return func(_ context.Context, postID string) (string, error) {
		owner, ok := owners[postID]
		if !ok {
			return "", domain.ErrPostNotFound
		}
		return owner, nil
	}
}
