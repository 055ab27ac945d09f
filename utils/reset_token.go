package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ResetTokenTTLMinutes is how long a password reset token stays valid.
const ResetTokenTTLMinutes = 30

// GenerateResetToken returns a random token and its SHA-256 hash. The raw
// token goes to the user by email, the hash goes to the database.
func GenerateResetToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %v", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, HashResetToken(raw), nil
}

// HashResetToken hashes a raw token the same way GenerateResetToken does,
// so a submitted token can be compared against the stored hash.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// VerifyResetToken reports whether a submitted raw token matches the stored
// hash and is still within its validity window. An empty stored hash means
// no reset is pending, which covers a token that was already consumed.
func VerifyResetToken(raw, storedHash string, expiry, now time.Time) bool {
	if storedHash == "" {
		return false
	}
	if now.After(expiry) {
		return false
	}
	return HashResetToken(raw) == storedHash
}
