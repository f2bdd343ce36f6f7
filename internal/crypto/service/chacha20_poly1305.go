package service

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using ChaCha20-Poly1305.
//
// It shares the AES-GCM envelope geometry (12-byte nonce, 16-byte tag) and is
// efficient on platforms without hardware AES acceleration.
type ChaCha20Poly1305Cipher struct {
	aead   cipher.AEAD
	random RandomSource
}

// NewChaCha20Poly1305 creates a new ChaCha20-Poly1305 cipher instance.
// Returns an error if the key is not 32 bytes.
func NewChaCha20Poly1305(key []byte, random RandomSource) (*ChaCha20Poly1305Cipher, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead, random: random}, nil
}

// Encrypt encrypts plaintext using ChaCha20-Poly1305 under a fresh random nonce.
func (c *ChaCha20Poly1305Cipher) Encrypt(plaintext, aad []byte) (sealed, nonce []byte, err error) {
	nonce, err = ReadRandom(c.random, c.aead.NonceSize())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed = c.aead.Seal(nil, nonce, plaintext, aad)
	return sealed, nonce, nil
}

// Decrypt opens sealed bytes using ChaCha20-Poly1305, verifying the Poly1305 tag first.
func (c *ChaCha20Poly1305Cipher) Decrypt(sealed, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, fmt.Errorf("invalid nonce size: %d", len(nonce))
	}
	plaintext, err := c.aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
