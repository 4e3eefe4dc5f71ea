package auth

import (
	"context"
)

// DirectoryStore is a SessionStore that keeps the session identifier
// directly on the user row in the user directory. Single active session per
// user falls out of the schema; there is no TTL, sessions live until
// destroyed.
type DirectoryStore struct {
	repo   UserRepository
	tokens TokenGenerator
}

// NewDirectoryStore creates a DirectoryStore over the given repository.
func NewDirectoryStore(repo UserRepository, tokens TokenGenerator) *DirectoryStore {
	return &DirectoryStore{repo: repo, tokens: tokens}
}

// Create issues a new session identifier and persists it on the user row,
// overwriting whatever session the user had.
func (s *DirectoryStore) Create(ctx context.Context, userID string) (string, error) {
	id, err := s.tokens.NewToken()
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateSessionID(ctx, userID, &id); err != nil {
		return "", err
	}
	return id, nil
}

// UserID resolves a session identifier by reverse lookup on the user table.
func (s *DirectoryStore) UserID(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", nil
	}

	user, err := s.repo.FindBySessionID(ctx, sessionID)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// Destroy clears the session identifier on the user row. Clearing it for a
// user without a session, or for an unknown user, is a no-op.
func (s *DirectoryStore) Destroy(ctx context.Context, userID string) error {
	return s.repo.UpdateSessionID(ctx, userID, nil)
}
