package service

import (
	"crypto/rand"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
)

// RandomSource supplies cryptographically secure random bytes for keys and nonces.
type RandomSource = io.Reader

// NewRandomSource returns the operating system CSPRNG.
func NewRandomSource() RandomSource {
	return rand.Reader
}

// ReadRandom fills a new buffer of n bytes from src.
func ReadRandom(src RandomSource, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(src, b); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrRandomSource, err)
	}
	return b, nil
}
