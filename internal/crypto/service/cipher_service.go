package service

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
)

// CipherService is the authenticated cipher engine for stored credentials.
//
// It reads the master key from a write-once KeyCell on every call, so it can be
// constructed before the key is initialized; calls made before that fail with
// ErrNotInitialized. All methods are CPU-bound and safe for concurrent use.
type CipherService struct {
	keys        *cryptoDomain.KeyCell
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
	logger      *slog.Logger
}

// NewCipherService creates the cipher engine.
func NewCipherService(
	keys *cryptoDomain.KeyCell,
	aeadManager AEADManager,
	algorithm cryptoDomain.Algorithm,
	logger *slog.Logger,
) *CipherService {
	return &CipherService{
		keys:        keys,
		aeadManager: aeadManager,
		algorithm:   algorithm,
		logger:      logger,
	}
}

// Encrypt seals plaintext under the master key and returns an encoded envelope:
// base64(nonce || ciphertext || tag).
//
// The empty string maps to the empty string without touching the key, mirroring
// Decrypt. An unset optional password therefore stays unset in storage.
func (s *CipherService) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	aead, err := s.cipher()
	if err != nil {
		return "", err
	}

	sealed, nonce, err := aead.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt value: %w", err)
	}

	return cryptoDomain.EncodeEnvelope(nonce, sealed), nil
}

// Decrypt opens an encoded envelope and returns the plaintext.
//
// Values that are not envelopes (empty, not base64, or shorter than the minimum
// envelope) are legacy plaintext and are returned unchanged. An envelope that
// fails authentication returns ErrDecryptionFailed; it is never passed through.
func (s *CipherService) Decrypt(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	env, ok := cryptoDomain.DecodeEnvelope(value)
	if !ok {
		s.logger.Warn("value does not look encrypted, returning as-is",
			slog.Int("length", len(value)),
		)
		return value, nil
	}

	aead, err := s.cipher()
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Decrypt(env.Sealed, env.Nonce, nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	defer cryptoDomain.Zero(plaintext)

	if !utf8.Valid(plaintext) {
		return "", cryptoDomain.ErrEncoding
	}

	return string(plaintext), nil
}

// cipher builds an AEAD for the current master key.
func (s *CipherService) cipher() (AEAD, error) {
	mk, err := s.keys.Get()
	if err != nil {
		return nil, err
	}

	key := mk.Bytes()
	defer cryptoDomain.Zero(key)

	return s.aeadManager.CreateCipher(key, s.algorithm)
}
