// Package mocks provides testify mocks for kvstore interfaces.
package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/queryowl/internal/kvstore"
)

// MockStore is a mock implementation of kvstore.Store.
type MockStore struct {
	mock.Mock
}

// Get mocks the Get method.
func (m *MockStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(json.RawMessage), args.Bool(1), args.Error(2)
}

// Set mocks the Set method.
func (m *MockStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// Flush mocks the Flush method.
func (m *MockStore) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks the Close method.
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockOpener is a mock implementation of kvstore.Opener.
type MockOpener struct {
	mock.Mock
}

// Open mocks the Open method.
func (m *MockOpener) Open(ctx context.Context, name string) (kvstore.Store, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(kvstore.Store), args.Error(1)
}
