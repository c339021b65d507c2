package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken hashes a token string before it is used as a store key, so raw
// bearer tokens never land in the cache or in redis.
func HashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}
