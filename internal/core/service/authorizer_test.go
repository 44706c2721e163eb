package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuspress/newsroom/internal/core/domain"
)

func student(id string) domain.Identity {
	return domain.FullIdentity{User: domain.User{ID: id, Username: id, Role: domain.RoleStudent}}
}

func TestAuthorizer_PrivilegedSkipsLookup(t *testing.T) {
	posts := &stubPostRepo{findOwnerFn: func(context.Context, string) (string, error) {
		t.Fatalf("owner lookup must not run for privileged identities")
		return "", nil
	}}
	a := NewAuthorizer(posts, nil, zerolog.Nop())

	for _, who := range []domain.Identity{
		domain.AdminIdentity{},
		domain.FullIdentity{User: domain.User{ID: "t1", Role: domain.RoleTeacher}},
		domain.FullIdentity{User: domain.User{ID: "a1", Role: domain.RoleAdmin}},
	} {
		if !a.CanEdit(context.Background(), who, "p1") || !a.CanDelete(context.Background(), who, "p1") {
			t.Fatalf("expected %T (%s) to be allowed", who, who.UserID())
		}
	}
	if posts.ownerCalls != 0 {
		t.Fatalf("expected no lookups, got %d", posts.ownerCalls)
	}
}

func TestAuthorizer_OwnershipRules(t *testing.T) {
	posts := &stubPostRepo{findOwnerFn: ownedPosts(map[string]string{
		"p1":       "u1",
		"orphan":   "",
		"caseTest": "U1",
	})}
	a := NewAuthorizer(posts, nil, zerolog.Nop())

	cases := []struct {
		name   string
		who    domain.Identity
		postID string
		want   bool
		reason Reason
	}{
		{name: "owner", who: student("u1"), postID: "p1", want: true, reason: ReasonOwner},
		{name: "other user", who: student("u2"), postID: "p1", reason: ReasonNotOwner},
		{name: "missing post", who: student("u1"), postID: "nope", reason: ReasonNotFound},
		{name: "no owner", who: student("u1"), postID: "orphan", reason: ReasonNoOwner},
		{name: "case sensitive", who: student("u1"), postID: "caseTest", reason: ReasonNotOwner},
		{name: "degraded owner", who: domain.DegradedIdentity{ID: "u1", Name: "maria"}, postID: "p1", want: true, reason: ReasonOwner},
		{name: "degraded non-owner", who: domain.DegradedIdentity{ID: "t1", Name: "mr.kim"}, postID: "p1", reason: ReasonNotOwner},
		{name: "anonymous", who: nil, postID: "p1", reason: ReasonAnonymous},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			edit := a.CanEdit(context.Background(), tc.who, tc.postID)
			del := a.CanDelete(context.Background(), tc.who, tc.postID)
			if edit != del {
				t.Fatalf("edit (%v) and delete (%v) disagree", edit, del)
			}
			if edit != tc.want {
				t.Fatalf("expected allowed=%v, got %v", tc.want, edit)
			}
			if d := a.Authorize(context.Background(), ActionEdit, tc.who, tc.postID); d.Reason != tc.reason {
				t.Fatalf("expected reason %s, got %s", tc.reason, d.Reason)
			}
		})
	}
}

func TestAuthorizer_NeverCachesOwnership(t *testing.T) {
	owner := "u1"
	posts := &stubPostRepo{findOwnerFn: func(context.Context, string) (string, error) { return owner, nil }}
	a := NewAuthorizer(posts, nil, zerolog.Nop())

	if !a.CanEdit(context.Background(), student("u1"), "p1") {
		t.Fatalf("expected owner to be allowed")
	}
	owner = "u2"
	if a.CanEdit(context.Background(), student("u1"), "p1") {
		t.Fatalf("expected transfer to revoke access")
	}
	if posts.ownerCalls != 2 {
		t.Fatalf("expected a lookup per call, got %d", posts.ownerCalls)
	}
}

func TestAuthorizer_LookupFailureDenies(t *testing.T) {
	posts := &stubPostRepo{findOwnerFn: func(context.Context, string) (string, error) {
		return "", errors.New("connection reset")
	}}
	a := NewAuthorizer(posts, nil, zerolog.Nop())

	d := a.Authorize(context.Background(), ActionDelete, student("u1"), "p1")
	if d.Allowed || d.Reason != ReasonLookupFailed {
		t.Fatalf("expected lookup_failed denial, got %+v", d)
	}
}

func TestAuthorizer_HookSeesEveryDecision(t *testing.T) {
	posts := &stubPostRepo{findOwnerFn: ownedPosts(map[string]string{"p1": "u1"})}

	var seen []Action
	a := NewAuthorizer(posts, func(action Action, d Decision) {
		seen = append(seen, action)
	}, zerolog.Nop())

	a.CanEdit(context.Background(), student("u1"), "p1")
	a.CanDelete(context.Background(), student("u2"), "p1")

	if len(seen) != 2 || seen[0] != ActionEdit || seen[1] != ActionDelete {
		t.Fatalf("unexpected hook calls: %v", seen)
	}
}

func TestAuthorizer_AdminFlagSkipsLookup(t *testing.T) {
	posts := &stubPostRepo{findOwnerFn: func(context.Context, string) (string, error) {
		t.Fatalf("owner lookup must not run when the caller passes the admin flag")
		return "", nil
	}}
	a := NewAuthorizer(posts, nil, zerolog.Nop())

	who := domain.DegradedIdentity{ID: "u9", Name: "kim"}
	if !a.CanEdit(context.Background(), who, "p1", WithAdminFlag(true)) {
		t.Fatalf("expected edit to be allowed with the admin flag")
	}
	if d := a.Authorize(context.Background(), ActionDelete, who, "p1", WithAdminFlag(true)); !d.Allowed || d.Reason != ReasonAdminFlag {
		t.Fatalf("unexpected decision %+v", d)
	}
	if d := a.Authorize(context.Background(), ActionEdit, nil, "p1", WithAdminFlag(true)); d.Allowed || d.Reason != ReasonAnonymous {
		t.Fatalf("anonymous caller must stay denied, got %+v", d)
	}
}

func TestAuthorizer_AdminFlagFalseChecksOwnership(t *testing.T) {
	var lookups int
	posts := &stubPostRepo{findOwnerFn: func(context.Context, string) (string, error) {
		lookups++
		return "someone-else", nil
	}}
	a := NewAuthorizer(posts, nil, zerolog.Nop())

	if a.CanDelete(context.Background(), student("u1"), "p1", WithAdminFlag(false)) {
		t.Fatalf("expected denial for a non-owner")
	}
	if lookups != 1 {
		t.Fatalf("expected one owner lookup, got %d", lookups)
	}
}
