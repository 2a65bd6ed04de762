package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// GetSHA256Hash returns the hex encoded SHA256 digest of content.
func GetSHA256Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
