package usecase

import (
	"context"
	"time"

	connectionDomain "github.com/allisson/queryowl/internal/connection/domain"
	"github.com/allisson/queryowl/internal/metrics"
)

// migrationUseCaseWithMetrics decorates MigrationUseCase with metrics instrumentation.
type migrationUseCaseWithMetrics struct {
	next    MigrationUseCase
	metrics metrics.BusinessMetrics
}

// NewMigrationUseCaseWithMetrics wraps a MigrationUseCase with metrics recording.
func NewMigrationUseCaseWithMetrics(useCase MigrationUseCase, m metrics.BusinessMetrics) MigrationUseCase {
	return &migrationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Migrate records metrics for migration runs.
func (u *migrationUseCaseWithMetrics) Migrate(ctx context.Context) (*connectionDomain.MigrationResult, error) {
	start := time.Now()
	result, err := u.next.Migrate(ctx)
	metrics.Observe(ctx, u.metrics, "connections", "connection_migrate", start, err)
	return result, err
}

// connectionUseCaseWithMetrics decorates ConnectionUseCase with metrics instrumentation.
type connectionUseCaseWithMetrics struct {
	next    ConnectionUseCase
	metrics metrics.BusinessMetrics
}

// NewConnectionUseCaseWithMetrics wraps a ConnectionUseCase with metrics recording.
func NewConnectionUseCaseWithMetrics(useCase ConnectionUseCase, m metrics.BusinessMetrics) ConnectionUseCase {
	return &connectionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// List records metrics for connection listing.
func (u *connectionUseCaseWithMetrics) List(ctx context.Context) ([]*connectionDomain.Connection, error) {
	start := time.Now()
	conns, err := u.next.List(ctx)
	metrics.Observe(ctx, u.metrics, "connections", "connection_list", start, err)
	return conns, err
}

// Get records metrics for connection retrieval.
func (u *connectionUseCaseWithMetrics) Get(ctx context.Context, id string) (*connectionDomain.Connection, error) {
	start := time.Now()
	conn, err := u.next.Get(ctx, id)
	metrics.Observe(ctx, u.metrics, "connections", "connection_get", start, err)
	return conn, err
}

// Credentials records metrics for credential retrieval.
func (u *connectionUseCaseWithMetrics) Credentials(
	ctx context.Context,
	id string,
) (*connectionDomain.Connection, error) {
	start := time.Now()
	conn, err := u.next.Credentials(ctx, id)
	metrics.Observe(ctx, u.metrics, "connections", "connection_credentials", start, err)
	return conn, err
}

// Create records metrics for connection creation.
func (u *connectionUseCaseWithMetrics) Create(
	ctx context.Context,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	start := time.Now()
	conn, err := u.next.Create(ctx, input)
	metrics.Observe(ctx, u.metrics, "connections", "connection_create", start, err)
	return conn, err
}

// Update records metrics for connection updates.
func (u *connectionUseCaseWithMetrics) Update(
	ctx context.Context,
	id string,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	start := time.Now()
	conn, err := u.next.Update(ctx, id, input)
	metrics.Observe(ctx, u.metrics, "connections", "connection_update", start, err)
	return conn, err
}

// Delete records metrics for connection deletion.
func (u *connectionUseCaseWithMetrics) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := u.next.Delete(ctx, id)
	metrics.Observe(ctx, u.metrics, "connections", "connection_delete", start, err)
	return err
}
