// Package mocks provides testify mocks for the crypto use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
)

// MockMasterKeyUseCase is a mock implementation of usecase.MasterKeyUseCase.
type MockMasterKeyUseCase struct {
	mock.Mock
}

// Initialize mocks the Initialize method.
func (m *MockMasterKeyUseCase) Initialize(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// CurrentKey mocks the CurrentKey method.
func (m *MockMasterKeyUseCase) CurrentKey() (*cryptoDomain.MasterKey, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.MasterKey), args.Error(1)
}

// Generate mocks the Generate method.
func (m *MockMasterKeyUseCase) Generate(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
