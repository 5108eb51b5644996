package oauth

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	// DefaultTokenLength is the number of random bytes used by GenerateToken
	// when no positive length is given.
	DefaultTokenLength = 10

	// StateTokenLength is the number of random bytes in the state parameter
	// providers put into authorization URLs.
	StateTokenLength = 15
)

// GenerateToken returns n cryptographically random bytes, hex-encoded.
// The result is 2n characters long. A non-positive n falls back to DefaultTokenLength.
func GenerateToken(n int) string {
	if n <= 0 {
		n = DefaultTokenLength
	}
	b := make([]byte, n)
	// crypto/rand.Read never returns an error since Go 1.24.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
