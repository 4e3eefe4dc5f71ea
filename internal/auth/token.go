package auth

import (
	"fmt"

	"github.com/google/uuid"
)

// TokenGenerator produces opaque unique identifiers. Used for user ids,
// session identifiers, and reset tokens; the only property callers may rely
// on is uniqueness.
type TokenGenerator interface {
	NewToken() (string, error)
}

// UUIDGenerator implements TokenGenerator with random (v4) UUIDs.
type UUIDGenerator struct{}

// NewToken returns a fresh UUIDv4 string.
func (UUIDGenerator) NewToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return id.String(), nil
}
