// Package security provides secret generation utilities
package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateULID returns a new lexicographically sortable identifier,
// used as the scan ID so scan history orders by creation time.
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateSecureKey returns length hex characters of cryptographically
// secure randomness. A length of 64 yields a 32-byte key, suitable for
// both JWT signing and AES-256 secrets.
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
