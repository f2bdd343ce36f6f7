package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	connectionUseCase "github.com/allisson/queryowl/internal/connection/usecase"
	cryptoUseCase "github.com/allisson/queryowl/internal/crypto/usecase"
)

// RunMigrateConnections initializes the master key and encrypts every stored
// connection password that is still plaintext, then prints the counts.
// Running it twice is safe: the second run migrates nothing.
func RunMigrateConnections(
	ctx context.Context,
	masterKeyUseCase cryptoUseCase.MasterKeyUseCase,
	migrationUseCase connectionUseCase.MigrationUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if err := ensureInitialized(ctx, masterKeyUseCase); err != nil {
		return err
	}

	result, err := migrationUseCase.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate connections: %w", err)
	}

	logger.Info("connection migration finished",
		slog.Int("total", result.Total),
		slog.Int("migrated", result.Migrated),
		slog.Int("failed", result.Failed),
	)

	if format == "json" {
		return writeJSON(writer, result)
	}

	_, _ = fmt.Fprintf(writer, "Total: %d\n", result.Total)
	_, _ = fmt.Fprintf(writer, "Migrated: %d\n", result.Migrated)
	_, _ = fmt.Fprintf(writer, "Failed: %d\n", result.Failed)
	if result.Failed > 0 {
		_, _ = fmt.Fprintln(writer, "\nFailed records were left unchanged and will be retried on the next run.")
	}
	return nil
}
