package domain

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserExists             = errors.New("user already exists")
	ErrPostNotFound           = errors.New("post not found")
	ErrForbidden              = errors.New("access forbidden")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidToken           = errors.New("invalid token")

	// ErrStoreUnavailable marks lookup failures caused by the backing store
	// being unreachable or too slow, as opposed to a definitive answer.
	ErrStoreUnavailable = errors.New("store unavailable")
)
