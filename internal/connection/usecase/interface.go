// Package usecase implements the connection workflows that touch stored
// credentials: the one-shot migration of plaintext passwords to envelopes, and
// the connection CRUD operations that encrypt on save and decrypt on use.
package usecase

import (
	"context"

	connectionDomain "github.com/allisson/queryowl/internal/connection/domain"
)

// ConnectionRepository defines persistence of the connections collection.
type ConnectionRepository interface {
	Load(ctx context.Context) ([]connectionDomain.Record, error)
	Save(ctx context.Context, records []connectionDomain.Record) error
	WithLock(ctx context.Context, fn func(ctx context.Context) error) error
}

// MigrationUseCase converts stored plaintext passwords to encoded envelopes.
type MigrationUseCase interface {
	// Migrate encrypts every password that does not already look encrypted.
	//
	// A record that fails to encrypt is left unchanged and counted as failed;
	// the rest are still migrated. The collection is written back only when at
	// least one record changed, so a second run performs no write. An error is
	// returned only when the store cannot be read or the write fails.
	Migrate(ctx context.Context) (*connectionDomain.MigrationResult, error)
}

// ConnectionUseCase defines connection management business logic.
type ConnectionUseCase interface {
	List(ctx context.Context) ([]*connectionDomain.Connection, error)
	Get(ctx context.Context, id string) (*connectionDomain.Connection, error)
	// Credentials returns the connection with its password decrypted.
	// Legacy plaintext passwords are returned as stored.
	Credentials(ctx context.Context, id string) (*connectionDomain.Connection, error)
	Create(ctx context.Context, input *connectionDomain.ConnectionInput) (*connectionDomain.Connection, error)
	Update(
		ctx context.Context,
		id string,
		input *connectionDomain.ConnectionInput,
	) (*connectionDomain.Connection, error)
	Delete(ctx context.Context, id string) error
}
