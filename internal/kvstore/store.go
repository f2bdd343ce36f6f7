// Package kvstore implements the named JSON document stores that hold the
// master key and the connection records.
//
// A store maps string keys to JSON values. Writes are buffered by Set and only
// become durable after Flush. Two backends are provided: one JSON file per store
// under a data directory, and a kv_documents table in PostgreSQL or MySQL where
// the store name is the namespace.
package kvstore

import (
	"context"
	"encoding/json"

	apperrors "github.com/allisson/queryowl/internal/errors"
)

// ErrInvalidValue indicates a value passed to Set that is not valid JSON.
var ErrInvalidValue = apperrors.Wrap(apperrors.ErrInvalidInput, "value is not valid JSON")

// Store is a named JSON document store.
type Store interface {
	// Get returns the value for key. The boolean is false when the key is absent.
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)

	// Set stages value under key. It is not durable until Flush succeeds.
	Set(ctx context.Context, key string, value json.RawMessage) error

	// Flush persists every staged value. Staged values are discarded when it
	// fails, so Get never reports a value the backing storage does not hold
	// once Flush has returned.
	Flush(ctx context.Context) error

	// Close releases resources held by the store. Staged values are discarded.
	Close() error
}

// Opener opens stores by name.
type Opener interface {
	Open(ctx context.Context, name string) (Store, error)
}

// GetJSON reads key from store and unmarshals it into v.
// It reports false without touching v when the key is absent.
func GetJSON(ctx context.Context, store Store, key string, v any) (bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, apperrors.Wrapf(err, "failed to decode %q", key)
	}
	return true, nil
}

// SetJSON marshals v and stages it under key.
func SetJSON(ctx context.Context, store Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apperrors.Wrapf(err, "failed to encode %q", key)
	}
	return store.Set(ctx, key, raw)
}

func cloneValue(value json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(value))
	copy(out, value)
	return out
}

func validateValue(value json.RawMessage) error {
	if !json.Valid(value) {
		return ErrInvalidValue
	}
	return nil
}
