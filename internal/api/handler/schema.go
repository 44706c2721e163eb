package handler

import (
	"time"

	"github.com/campuspress/newsroom/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Username    string `json:"username"     validate:"required,min=3,max=32,alphanumunicode"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"max=64"`
	Email       string `json:"email"        validate:"omitempty,email"`
	Grade       string `json:"grade"        validate:"max=16"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updatePostRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Grade       string `json:"grade,omitempty"`
	Role        string `json:"role"`
}

type authResponse struct {
	User userResponse `json:"user"`
}

type identityResponse struct {
	Kind             string        `json:"kind"`
	ID               string        `json:"id"`
	Username         string        `json:"username"`
	DisplayName      string        `json:"display_name"`
	IsAdminOrTeacher bool          `json:"is_admin_or_teacher"`
	User             *userResponse `json:"user,omitempty"`
}

type postResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

type cacheStatsResponse struct {
	Size      int      `json:"size"`
	MaxSize   int      `json:"max_size"`
	Keys      []string `json:"keys"`
	Hits      uint64   `json:"hits"`
	Misses    uint64   `json:"misses"`
	Evictions uint64   `json:"evictions"`
}

// --- Domain → response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Grade:       u.Grade,
		Role:        u.Role,
	}
}

func toIdentityResponse(who domain.Identity) identityResponse {
	resp := identityResponse{
		Kind:             string(who.Kind()),
		ID:               who.UserID(),
		Username:         who.Username(),
		DisplayName:      who.DisplayName(),
		IsAdminOrTeacher: who.Privileged(),
	}
	if full, ok := who.(domain.FullIdentity); ok {
		u := toUserResponse(&full.User)
		resp.User = &u
	}
	return resp
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Title:     p.Title,
		Content:   p.Content,
		UpdatedAt: p.UpdatedAt,
	}
}
