package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/queryowl/internal/config"
)

// migrationsPath returns the migration source for a SQL store driver.
func migrationsPath(driver string) (string, error) {
	switch driver {
	case config.StoreDriverPostgres:
		return "file://migrations/postgresql", nil
	case config.StoreDriverMySQL:
		return "file://migrations/mysql", nil
	default:
		return "", fmt.Errorf("migrations require a SQL store driver, got: %q", driver)
	}
}

// RunMigrations creates the kv_documents schema for the postgres or mysql store.
// Returns nil when there is nothing to apply.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	path, err := migrationsPath(driver)
	if err != nil {
		return err
	}

	logger.Info("running database migrations", slog.String("driver", driver))

	m, err := migrate.New(path, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
