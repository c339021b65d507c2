// Package redis provides the redis-backed refresh-token deny list, for
// deployments where revocation must be visible across instances.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go.carehub.io/hospital-api/cache"
)

// RevocationStore implements cache.RevocationStore using Redis.
type RevocationStore struct {
	client *redis.Client
	prefix string // optional key prefix
}

// NewRevocationStore creates a new RevocationStore instance.
func NewRevocationStore(client *redis.Client, prefix string) *RevocationStore {
	return &RevocationStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RevocationStore) redisKey(token string) string {
	return fmt.Sprintf("%s:revoked:%s", r.prefix, cache.HashToken(token))
}

// Revoke marks a token as unusable until its own expiry; the key carries a
// matching TTL so redis cleans up after the token dies naturally.
func (r *RevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.redisKey(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set revocation key in redis: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token is on the deny list.
func (r *RevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.redisKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation key in redis: %w", err)
	}
	return n > 0, nil
}

// Close closes the underlying redis client.
func (r *RevocationStore) Close() error {
	return r.client.Close()
}

var _ cache.RevocationStore = (*RevocationStore)(nil)
