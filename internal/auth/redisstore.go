package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefixes. session:<id> holds the owning user id; user_session:<id>
// holds the user's single active session id so logins can replace it and
// Destroy stays O(1).
const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_session:"
)

// RedisStore is a SessionStore backed by Redis. Expiry rides on native key
// TTLs, so an expired session simply stops existing; a TTL of zero or less
// stores keys without expiration.
type RedisStore struct {
	client *redis.Client
	tokens TokenGenerator
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore on the given client.
// ttl <= 0 means sessions never expire.
func NewRedisStore(client *redis.Client, tokens TokenGenerator, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, tokens: tokens, ttl: ttl}
}

// expiration converts the configured TTL to a go-redis expiration argument,
// where zero means "no expiry".
func (s *RedisStore) expiration() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	return s.ttl
}

// Create issues a new session for the user, deleting any session the user
// already held.
func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	id, err := s.tokens.NewToken()
	if err != nil {
		return "", err
	}

	userKey := userSessionKeyPrefix + userID

	// Replace the previous session, if one exists.
	old, err := s.client.Get(ctx, userKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("reading active session: %w", err)
	}

	pipe := s.client.TxPipeline()
	if old != "" {
		pipe.Del(ctx, sessionKeyPrefix+old)
	}
	pipe.Set(ctx, sessionKeyPrefix+id, userID, s.expiration())
	pipe.Set(ctx, userKey, id, s.expiration())
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	return id, nil
}

// UserID resolves a session identifier. A missing key -- never created,
// destroyed, or expired by Redis -- resolves to "".
func (s *RedisStore) UserID(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", nil
	}

	userID, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session: %w", err)
	}

	return userID, nil
}

// Destroy removes the user's active session, if any.
func (s *RedisStore) Destroy(ctx context.Context, userID string) error {
	userKey := userSessionKeyPrefix + userID

	id, err := s.client.Get(ctx, userKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading active session: %w", err)
	}

	if err := s.client.Del(ctx, sessionKeyPrefix+id, userKey).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
