package ids

import (
	"strings"

	"github.com/google/uuid"
)

// NewSessionID returns a time-ordered (v7) UUID so session identifiers sort
// chronologically. Falls back to a random v4 if the v7 source fails.
func NewSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ResolveSessionID returns the caller-supplied identifier when it parses as a
// UUID, and a fresh one otherwise. Malformed input is the expected "generate
// new" case, not an error.
func ResolveSessionID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NewSessionID()
	}
	if _, err := uuid.Parse(raw); err != nil {
		return NewSessionID()
	}
	return raw
}
