package fs

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the hex sha256 checksum of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
