// Package service provides the cryptographic services protecting stored credentials.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), the string-level cipher
// engine used by the rest of the application, and the envelope classifier.
package service

import (
	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns the sealed bytes
	// (ciphertext with the tag appended) and the fresh nonce used.
	Encrypt(plaintext, aad []byte) (sealed, nonce []byte, err error)

	// Decrypt opens sealed bytes using the provided nonce and AAD.
	Decrypt(sealed, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Cipher seals and opens credential strings as encoded envelopes.
//
// Encrypt is used when a credential is saved, Decrypt when it is used. Decrypt
// passes legacy plaintext through unchanged, so callers can always decrypt
// before use.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(value string) (string, error)
}
