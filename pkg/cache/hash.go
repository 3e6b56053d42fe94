package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// SourceKey returns the cache key for a parsed ITF source.
// Identical bytes always map to the same key.
func SourceKey(src []byte) string {
	return "stack:" + Hash(src)
}
