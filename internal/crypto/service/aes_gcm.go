package service

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM
// (Advanced Encryption Standard with Galois/Counter Mode).
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce, drawn from the random source on every encryption
//   - 16-byte authentication tag appended to the ciphertext
//
// The cipher instance holds no mutable state and is safe for concurrent use.
type AESGCMCipher struct {
	aead   cipher.AEAD
	random RandomSource
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes. random supplies the nonces; pass
// NewRandomSource() outside of tests.
func NewAESGCM(key []byte, random RandomSource) (*AESGCMCipher, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead, random: random}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with optional additional authenticated data.
//
// A new nonce is read from the random source for each call; nonces are never
// derived or counted. The returned sealed bytes carry the 16-byte tag at the end.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (sealed, nonce []byte, err error) {
	nonce, err = ReadRandom(a.random, a.aead.NonceSize())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed = a.aead.Seal(nil, nonce, plaintext, aad)
	return sealed, nonce, nil
}

// Decrypt opens sealed bytes using AES-256-GCM with the provided nonce and AAD.
//
// The tag is verified before any plaintext is returned. A wrong key, nonce or
// AAD, or any modification of the sealed bytes, yields an error.
func (a *AESGCMCipher) Decrypt(sealed, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() {
		return nil, fmt.Errorf("invalid nonce size: %d", len(nonce))
	}
	plaintext, err := a.aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
