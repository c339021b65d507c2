package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationStore_RevokeAndLookup(t *testing.T) {
	store := NewMemoryRevocationStore()
	defer store.Close()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked, "unknown token must not read as revoked")

	require.NoError(t, store.Revoke(ctx, "token-a", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked, "revocation is per token")
}

func TestMemoryRevocationStore_EntryExpiresWithToken(t *testing.T) {
	store := NewMemoryRevocationStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "short-lived", time.Now().Add(30*time.Millisecond)))

	revoked, err := store.IsRevoked(ctx, "short-lived")
	require.NoError(t, err)
	assert.True(t, revoked)

	time.Sleep(60 * time.Millisecond)

	revoked, err = store.IsRevoked(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, revoked, "deny-list entry must not outlive the token")
}

func TestMemoryRevocationStore_AlreadyExpiredTokenIgnored(t *testing.T) {
	store := NewMemoryRevocationStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "stale", time.Now().Add(-time.Minute)))

	revoked, err := store.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestHashToken_StableAndDistinct(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
