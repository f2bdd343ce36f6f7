// Package domain defines the credential-at-rest protection model: the process
// master key, the write-once cell that publishes it, and the encoded envelope
// format used to store sealed secrets.
package domain

import (
	"encoding/base64"
	"fmt"
	"sync/atomic"
)

// MasterKey is the single symmetric key protecting stored credentials.
// It is created once per installation and never changes for the lifetime of a process.
type MasterKey struct {
	key [KeySize]byte
}

// NewMasterKey copies raw key material into a MasterKey.
// The caller keeps ownership of b and may zero it afterwards.
func NewMasterKey(b []byte) (*MasterKey, error) {
	if len(b) != KeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(b))
	}
	mk := &MasterKey{}
	copy(mk.key[:], b)
	return mk, nil
}

// DecodeMasterKey parses the base64 form persisted in the key store.
func DecodeMasterKey(encoded string) (*MasterKey, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDecode, err)
	}
	defer Zero(raw)

	mk, err := NewMasterKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyDecode, err)
	}
	return mk, nil
}

// Zero overwrites key material that is no longer needed.
func Zero(b []byte) {
	clear(b)
}

// Bytes returns a copy of the key material. Callers should Zero it after use.
func (m *MasterKey) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b, m.key[:])
	return b
}

// Encode returns the base64 form persisted in the key store.
func (m *MasterKey) Encode() string {
	return base64.StdEncoding.EncodeToString(m.key[:])
}

// KeyCell publishes the process master key exactly once.
//
// Set is the single write; every later Set fails with ErrMasterKeyAlreadySet.
// Get is lock-free and safe for any number of concurrent readers; it observes
// either nothing (ErrNotInitialized) or the fully published key.
type KeyCell struct {
	key atomic.Pointer[MasterKey]
}

// NewKeyCell returns an empty cell.
func NewKeyCell() *KeyCell {
	return &KeyCell{}
}

// Set publishes mk. It fails if a key was already published.
func (c *KeyCell) Set(mk *MasterKey) error {
	if mk == nil {
		return fmt.Errorf("%w: nil master key", ErrInvalidKeySize)
	}
	if !c.key.CompareAndSwap(nil, mk) {
		return ErrMasterKeyAlreadySet
	}
	return nil
}

// Get returns the published key or ErrNotInitialized.
func (c *KeyCell) Get() (*MasterKey, error) {
	mk := c.key.Load()
	if mk == nil {
		return nil, ErrNotInitialized
	}
	return mk, nil
}

// IsSet reports whether a key has been published.
func (c *KeyCell) IsSet() bool {
	return c.key.Load() != nil
}
