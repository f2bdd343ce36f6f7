package domain

import (
	"github.com/allisson/queryowl/internal/errors"
)

// Credential protection error definitions.
//
// These wrap the standard errors from internal/errors so outer layers can map
// them without knowing about cryptography.
var (
	// ErrNotInitialized indicates the cipher was used before the master key was set up.
	// This is a programming error: the application must initialize encryption at startup.
	ErrNotInitialized = errors.Wrap(errors.ErrInternal, "encryption not initialized")

	// ErrMasterKeyAlreadySet indicates a second attempt to publish the process master key.
	// A silently replaced key would make every stored envelope undecryptable.
	ErrMasterKeyAlreadySet = errors.Wrap(errors.ErrConflict, "master key already set")

	// ErrKeyStore indicates the key store could not be read, written or flushed.
	ErrKeyStore = errors.Wrap(errors.ErrInternal, "key store failure")

	// ErrKeyDecode indicates the stored master key is not a valid encoded key.
	ErrKeyDecode = errors.Wrap(errors.ErrInvalidInput, "failed to decode master key")

	// ErrInvalidKeySize indicates key material that is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrUnsupportedAlgorithm indicates an unknown AEAD algorithm name.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrRandomSource indicates the randomness source failed to supply bytes.
	ErrRandomSource = errors.Wrap(errors.ErrInternal, "random source failure")

	// ErrDecryptionFailed indicates an envelope failed authentication.
	//
	// This can occur due to:
	//   - the envelope was sealed under a different master key
	//   - the stored value was tampered with or corrupted
	//
	// The specific cause is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrEncoding indicates an authenticated plaintext that is not valid UTF-8 text.
	ErrEncoding = errors.Wrap(errors.ErrInvalidInput, "decrypted value is not valid text")
)
