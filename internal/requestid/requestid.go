// Package requestid issues and validates the identifiers attached to every
// API request.
package requestid

import (
	"github.com/google/uuid"
)

// Header is the HTTP header that carries the request id in both directions.
const Header = "X-Request-ID"

// New returns a time-ordered UUIDv7 string, or a random UUIDv4 if the v7
// generator fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// FromHeader returns the caller's id when it is a well-formed UUID, otherwise
// a fresh one.
func FromHeader(value string) string {
	if value == "" {
		return New()
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return New()
	}
	return parsed.String()
}
