// Package repository persists the connections collection in a kvstore.Store.
//
// The collection lives under a single "connections" key as a JSON array.
// Elements that are not objects are loaded as opaque records and written back
// unchanged. Every write replaces the whole array, so callers serialize
// read-modify-write cycles with WithLock.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	connectionDomain "github.com/allisson/queryowl/internal/connection/domain"
	"github.com/allisson/queryowl/internal/kvstore"
)

// CollectionKey is the store key holding the connections array.
const CollectionKey = "connections"

// ConnectionRepository loads and saves the connections collection.
type ConnectionRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewConnectionRepository creates a repository over store.
func NewConnectionRepository(store kvstore.Store) *ConnectionRepository {
	return &ConnectionRepository{store: store}
}

// WithLock runs fn while holding the collection lock.
func (r *ConnectionRepository) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx)
}

// Load returns every stored record. A missing collection is empty. A stored
// value that is not an array returns ErrCorruptCollection.
func (r *ConnectionRepository) Load(ctx context.Context) ([]connectionDomain.Record, error) {
	raw, ok, err := r.store.Get(ctx, CollectionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read connections: %w", err)
	}
	if !ok {
		return []connectionDomain.Record{}, nil
	}

	var records []connectionDomain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", connectionDomain.ErrCorruptCollection, err)
	}
	if records == nil {
		records = []connectionDomain.Record{}
	}
	return records, nil
}

// Save replaces the stored collection with records and flushes the store.
func (r *ConnectionRepository) Save(ctx context.Context, records []connectionDomain.Record) error {
	if records == nil {
		records = []connectionDomain.Record{}
	}
	if err := kvstore.SetJSON(ctx, r.store, CollectionKey, records); err != nil {
		return fmt.Errorf("failed to stage connections: %w", err)
	}
	if err := r.store.Flush(ctx); err != nil {
		return fmt.Errorf("failed to persist connections: %w", err)
	}
	return nil
}
