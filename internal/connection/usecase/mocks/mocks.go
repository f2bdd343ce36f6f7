// Package mocks provides testify mocks for the connection use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	connectionDomain "github.com/allisson/queryowl/internal/connection/domain"
)

// MockConnectionRepository is a mock implementation of usecase.ConnectionRepository.
// WithLock runs the callback directly after recording the call.
type MockConnectionRepository struct {
	mock.Mock
}

// Load mocks the Load method.
func (m *MockConnectionRepository) Load(ctx context.Context) ([]connectionDomain.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]connectionDomain.Record), args.Error(1)
}

// Save mocks the Save method.
func (m *MockConnectionRepository) Save(ctx context.Context, records []connectionDomain.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

// WithLock mocks the WithLock method.
func (m *MockConnectionRepository) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// MockMigrationUseCase is a mock implementation of usecase.MigrationUseCase.
type MockMigrationUseCase struct {
	mock.Mock
}

// Migrate mocks the Migrate method.
func (m *MockMigrationUseCase) Migrate(ctx context.Context) (*connectionDomain.MigrationResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connectionDomain.MigrationResult), args.Error(1)
}

// MockConnectionUseCase is a mock implementation of usecase.ConnectionUseCase.
type MockConnectionUseCase struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockConnectionUseCase) List(ctx context.Context) ([]*connectionDomain.Connection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*connectionDomain.Connection), args.Error(1)
}

// Get mocks the Get method.
func (m *MockConnectionUseCase) Get(ctx context.Context, id string) (*connectionDomain.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connectionDomain.Connection), args.Error(1)
}

// Credentials mocks the Credentials method.
func (m *MockConnectionUseCase) Credentials(ctx context.Context, id string) (*connectionDomain.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connectionDomain.Connection), args.Error(1)
}

// Create mocks the Create method.
func (m *MockConnectionUseCase) Create(
	ctx context.Context,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connectionDomain.Connection), args.Error(1)
}

// Update mocks the Update method.
func (m *MockConnectionUseCase) Update(
	ctx context.Context,
	id string,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connectionDomain.Connection), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockConnectionUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
