package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryRevocationStore(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("fresh token must not be revoked, got %v %v", revoked, err)
	}

	if err := store.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, _ = store.IsRevoked(ctx, "jti-1")
	if !revoked {
		t.Fatal("token must be revoked after Revoke")
	}

	// Non-positive TTL means the token already expired; nothing to deny.
	if err := store.Revoke(ctx, "jti-2", -time.Second); err != nil {
		t.Fatalf("revoke expired: %v", err)
	}
	revoked, _ = store.IsRevoked(ctx, "jti-2")
	if revoked {
		t.Fatal("already-expired token must not enter the denylist")
	}
}

func TestRedisRevocationStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisRevocationStore(client)
	ctx := context.Background()

	if err := store.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if !revoked {
		t.Fatal("token must be revoked after Revoke")
	}

	// The key carries the token's remaining lifetime; after that it lapses
	// on its own.
	srv.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("is revoked after expiry: %v", err)
	}
	if revoked {
		t.Fatal("denylist entry must lapse with the token's ttl")
	}

	revoked, err = store.IsRevoked(ctx, "never-revoked")
	if err != nil || revoked {
		t.Fatalf("unknown token must not be revoked, got %v %v", revoked, err)
	}
}
