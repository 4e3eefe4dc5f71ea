package auth

import "context"

// SessionStore maps opaque session identifiers to user identifiers and owns
// their lifecycle. A session is valid from creation until it is destroyed
// or, where the backend supports a TTL, until the TTL elapses; expiry is
// one-way, an expired session is never reported valid again.
//
// Lookup misses (unknown or expired sessions) resolve to an empty user id
// with a nil error; errors are reserved for storage failures. Every backend
// keeps a single active session per user: creating a new session replaces
// the previous one.
type SessionStore interface {
	// Create issues a new session for the user and returns its identifier.
	Create(ctx context.Context, userID string) (string, error)

	// UserID resolves a session identifier to the owning user id, or ""
	// if the session is unknown or expired.
	UserID(ctx context.Context, sessionID string) (string, error)

	// Destroy removes the user's active session, if any. Idempotent.
	Destroy(ctx context.Context, userID string) error
}
