package common

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentID returns the hex-encoded SHA-256 digest of b. It is used as the
// content identifier of pinned evidence, so identical payloads share a key.
func ContentID(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
