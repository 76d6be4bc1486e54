package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DocumentKey builds the cache key for a built document. The key covers
// everything that shapes the output: the content hash of the input objects,
// the enabled analyses in order, and the output format.
func DocumentKey(contentHash string, analyses []string, format string) string {
	parts := append([]string{"doc", contentHash, format}, analyses...)
	return Hash([]byte(strings.Join(parts, "\x00")))
}
