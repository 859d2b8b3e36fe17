package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks logged-out token IDs until their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevocationStore keeps revoked token IDs in memory (single instance
// only).
type MemoryRevocationStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

// NewMemoryRevocationStore builds an in-memory store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{tokens: make(map[string]time.Time)}
}

// Revoke marks a token ID as revoked for the given ttl.
func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	s.tokens[tokenID] = time.Now().Add(ttl)
	s.mu.Unlock()
	return nil
}

// IsRevoked checks whether the token ID is on the denylist.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.tokens[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.tokens, tokenID)
		return false, nil
	}
	return true, nil
}

// RedisRevocationStore stores revoked token IDs in Redis with TTL, so the
// denylist survives restarts and is shared across instances.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore wraps an existing client.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revocationKey(tokenID), "1", ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := s.client.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func revocationKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}
