package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownClient is returned when a request carries no usable address header.
const UnknownClient = "unknown"

// ClientIdentifier returns the first X-Forwarded-For address, else
// X-Real-IP, else UnknownClient. It never returns an empty string.
func ClientIdentifier(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return UnknownClient
}
