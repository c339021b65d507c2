// Package cache holds the refresh-token deny list. Tokens stay stateless and
// self-verifying; the deny list is the revocation hook consulted on refresh
// and written on logout.
package cache

import (
	"context"
	"time"
)

// RevocationStore tracks refresh tokens that must no longer be accepted.
// Entries expire together with the token itself, so the store never grows
// past the live token population.
type RevocationStore interface {
	// Revoke marks a token as unusable until expiresAt.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	// IsRevoked reports whether the token has been revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Close releases any background resources held by the store.
	Close() error
}
