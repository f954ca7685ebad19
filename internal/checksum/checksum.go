// Package checksum provides content hashing for snapshot versioning.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data. The API layer uses
// it as the snapshot ETag for optimistic concurrency on full replaces.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
