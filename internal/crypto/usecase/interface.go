// Package usecase defines the business logic interfaces for cryptographic operations.
//
// The master key use case loads or creates the single process-wide master key
// that protects stored credentials, and publishes it to the key cell read by the
// cipher engine.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
)

// MasterKeyUseCase defines the interface for master key lifecycle operations.
type MasterKeyUseCase interface {
	// Initialize loads the master key from the key store, or generates and
	// persists a new one when none is stored, then publishes it for the rest
	// of the process.
	//
	// It must succeed before any encrypt or decrypt call. Calling it again after
	// a successful run returns ErrMasterKeyAlreadySet; the published key never
	// changes during the life of the process.
	//
	// A failed call publishes nothing and leaves nothing staged in the key
	// store, so it is safe to retry. A key is only published once it has been
	// flushed.
	//
	// Returns:
	//   - ErrKeyStore if the store cannot be read, written or flushed
	//   - ErrKeyDecode if the stored value is not a valid encoded key
	//   - ErrInvalidKeySize (with ErrKeyDecode) if it decodes to other than 32 bytes
	//   - ErrRandomSource if a new key cannot be generated
	Initialize(ctx context.Context) error

	// CurrentKey returns the published master key, or ErrNotInitialized.
	CurrentKey() (*cryptoDomain.MasterKey, error)

	// Generate returns a fresh master key encoded for storage, without
	// persisting or publishing it. When a KMS keeper is configured the key is
	// wrapped by it before encoding.
	Generate(ctx context.Context) (string, error)
}
