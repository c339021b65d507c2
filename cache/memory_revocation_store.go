package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryRevocationStore implements RevocationStore using ttlcache. Suitable
// for a single-process deployment; use the redis store for cluster-wide
// revocation.
type MemoryRevocationStore struct {
	cache *ttlcache.Cache[string, struct{}]
}

// NewMemoryRevocationStore creates an in-memory deny list with automatic
// expiry of stale entries.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, struct{}](),
	)

	go cache.Start()

	return &MemoryRevocationStore{
		cache: cache,
	}
}

// Revoke implements RevocationStore.Revoke.
func (s *MemoryRevocationStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already past its own expiry; validation rejects it anyway.
		return nil
	}
	s.cache.Set(HashToken(token), struct{}{}, ttl)
	return nil
}

// IsRevoked implements RevocationStore.IsRevoked.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	// Get, not Has: expired entries may linger until the next cleanup pass.
	return s.cache.Get(HashToken(token)) != nil, nil
}

// Close stops the cleanup goroutine.
func (s *MemoryRevocationStore) Close() error {
	s.cache.Stop()

	return nil
}
