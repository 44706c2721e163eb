package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/ports"
)

// Action is a post mutation subject to authorization.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Reason explains an authorization Decision.
type Reason string

const (
	ReasonPrivileged   Reason = "privileged"
	ReasonAdminFlag    Reason = "admin_flag"
	ReasonOwner        Reason = "owner"
	ReasonNotOwner     Reason = "not_owner"
	ReasonNotFound     Reason = "not_found"
	ReasonNoOwner      Reason = "no_owner"
	ReasonLookupFailed Reason = "lookup_failed"
	ReasonAnonymous    Reason = "anonymous"
)

// Decision is the answer to "may this identity mutate this post".
type Decision struct {
	Allowed bool
	Reason  Reason
}

// DecisionHook observes every decision. Used for metrics.
type DecisionHook func(action Action, d Decision)

// Authorizer gates post edits and deletes. Ownership is looked up on every
// call and never cached.
type Authorizer struct {
	posts ports.PostOwnerLookup
	hook  DecisionHook
	log   zerolog.Logger
}

// NewAuthorizer returns an Authorizer. hook may be nil.
func NewAuthorizer(posts ports.PostOwnerLookup, hook DecisionHook, log zerolog.Logger) *Authorizer {
	return &Authorizer{posts: posts, hook: hook, log: log}
}

// AuthorizeOption adjusts a single authorization call.
type AuthorizeOption func(*authorizeParams)

type authorizeParams struct {
	admin bool
}

// WithAdminFlag lets a caller that has already established admin rights by
// other means skip the ownership lookup. It never admits an anonymous caller.
func WithAdminFlag(isAdmin bool) AuthorizeOption {
	return func(p *authorizeParams) { p.admin = isAdmin }
}

// CanEdit reports whether who may edit the post.
func (a *Authorizer) CanEdit(ctx context.Context, who domain.Identity, postID string, opts ...AuthorizeOption) bool {
	return a.Authorize(ctx, ActionEdit, who, postID, opts...).Allowed
}

// CanDelete reports whether who may delete the post.
func (a *Authorizer) CanDelete(ctx context.Context, who domain.Identity, postID string, opts ...AuthorizeOption) bool {
	return a.Authorize(ctx, ActionDelete, who, postID, opts...).Allowed
}

// Authorize decides action for who on postID and reports it to the hook.
// Edit and delete share the same rule.
func (a *Authorizer) Authorize(ctx context.Context, action Action, who domain.Identity, postID string, opts ...AuthorizeOption) Decision {
	var p authorizeParams
	for _, opt := range opts {
		opt(&p)
	}
	d := a.decide(ctx, who, postID, p)
	if a.hook != nil {
		a.hook(action, d)
	}
	return d
}

func (a *Authorizer) decide(ctx context.Context, who domain.Identity, postID string, p authorizeParams) Decision {
	if who == nil {
		return Decision{Reason: ReasonAnonymous}
	}
	if who.Privileged() {
		return Decision{Allowed: true, Reason: ReasonPrivileged}
	}
	if p.admin {
		return Decision{Allowed: true, Reason: ReasonAdminFlag}
	}

	ownerID, err := a.posts.FindOwner(ctx, postID)
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		return Decision{Reason: ReasonNotFound}
	case err != nil:
		a.log.Error().Err(err).Str("post_id", postID).Msg("post owner lookup failed")
		return Decision{Reason: ReasonLookupFailed}
	case ownerID == "":
		return Decision{Reason: ReasonNoOwner}
	case ownerID == who.UserID():
		return Decision{Allowed: true, Reason: ReasonOwner}
	default:
		return Decision{Reason: ReasonNotOwner}
	}
}
