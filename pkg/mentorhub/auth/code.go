package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const (
	// CodeLength is the number of digits in a verification code
	CodeLength = 6
	// CodeTTL is how long a verification code stays valid
	CodeTTL = 5 * time.Minute
)

// GenerateCode produces a 6-digit numeric verification code from a
// cryptographically secure random source. Leading zeros are preserved.
func GenerateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}

// HashCode creates a SHA-256 hash of the verification code for storage.
// Plain codes are never persisted.
func HashCode(code string) string {
	hash := sha256.Sum256([]byte(code))
	return hex.EncodeToString(hash[:])
}
