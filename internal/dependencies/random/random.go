package random

import (
	"crypto/rand"
	"strings"
)

// Random produces the unguessable strings used for session tokens
type Random interface {
	// Token returns n characters from the base32 alphabet
	Token(n int) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token returns n cryptographically random base32 characters
func (r *CryptoRandom) Token(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(n + 26)
	for b.Len() < n {
		b.WriteString(rand.Text())
	}
	return b.String()[:n]
}
