package domain

import "time"

// Post is the subset of an article the access-control layer cares about.
// OwnerID is empty when the author row was removed or never recorded.
type Post struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
