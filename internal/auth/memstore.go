package auth

import (
	"context"
	"sync"
	"time"
)

// sessionRecord is the per-session state kept by MemoryStore.
type sessionRecord struct {
	userID    string
	createdAt time.Time
}

// MemoryStore is an in-process SessionStore guarded by a mutex. Sessions
// created with a positive TTL become invalid once now exceeds createdAt+TTL;
// a TTL of zero or less disables expiry. Expired entries are evicted lazily
// on lookup.
type MemoryStore struct {
	tokens TokenGenerator
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]sessionRecord
	byUser   map[string]string

	// now is swappable for tests.
	now func() time.Time
}

// NewMemoryStore creates a MemoryStore issuing identifiers from the given
// generator. ttl <= 0 means sessions never expire.
func NewMemoryStore(tokens TokenGenerator, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		tokens:   tokens,
		ttl:      ttl,
		sessions: make(map[string]sessionRecord),
		byUser:   make(map[string]string),
		now:      time.Now,
	}
}

// Create issues a new session identifier for the user, replacing any
// previous session the user held.
func (s *MemoryStore) Create(_ context.Context, userID string) (string, error) {
	id, err := s.tokens.NewToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byUser[userID]; ok {
		delete(s.sessions, old)
	}
	s.sessions[id] = sessionRecord{userID: userID, createdAt: s.now()}
	s.byUser[userID] = id

	return id, nil
}

// UserID resolves a session identifier, enforcing the TTL.
func (s *MemoryStore) UserID(_ context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return "", nil
	}
	if s.ttl > 0 && s.now().After(rec.createdAt.Add(s.ttl)) {
		delete(s.sessions, sessionID)
		delete(s.byUser, rec.userID)
		return "", nil
	}

	return rec.userID, nil
}

// Destroy removes the user's active session. Destroying a user without a
// session is a no-op.
func (s *MemoryStore) Destroy(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byUser[userID]; ok {
		delete(s.sessions, id)
		delete(s.byUser, userID)
	}
	return nil
}
