package services

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the lowercase hex SHA-256 digest of the plaintext.
// The digest is deterministic and unsalted: the same plaintext always stores
// the same credential, which keeps the stored value one-way but leaves it
// open to precomputation attacks. Do not reuse this scheme elsewhere without
// adding a per-record salt.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
