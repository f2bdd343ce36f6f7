package usecase

import (
	"context"
	"errors"
	"log/slog"

	connectionDomain "github.com/allisson/queryowl/internal/connection/domain"
	cryptoService "github.com/allisson/queryowl/internal/crypto/service"
)

type migrationUseCase struct {
	repo   ConnectionRepository
	cipher cryptoService.Cipher
	logger *slog.Logger
}

// NewMigrationUseCase creates the credential migration driver.
func NewMigrationUseCase(
	repo ConnectionRepository,
	cipher cryptoService.Cipher,
	logger *slog.Logger,
) MigrationUseCase {
	return &migrationUseCase{
		repo:   repo,
		cipher: cipher,
		logger: logger,
	}
}

// Migrate encrypts plaintext passwords in place.
func (m *migrationUseCase) Migrate(ctx context.Context) (*connectionDomain.MigrationResult, error) {
	result := &connectionDomain.MigrationResult{}

	err := m.repo.WithLock(ctx, func(ctx context.Context) error {
		records, err := m.repo.Load(ctx)
		if errors.Is(err, connectionDomain.ErrCorruptCollection) {
			m.logger.Warn("stored connections could not be parsed, nothing to migrate", slog.Any("error", err))
			return nil
		}
		if err != nil {
			return err
		}

		for i := range records {
			result.Add(m.migrateRecord(i, &records[i]))
		}

		if result.Migrated == 0 {
			return nil
		}
		return m.repo.Save(ctx, records)
	})
	if err != nil {
		return nil, err
	}

	if result.Migrated > 0 {
		m.logger.Info("Migrated connections",
			slog.Int("migrated", result.Migrated),
			slog.Int("failed", result.Failed),
			slog.Int("total", result.Total),
		)
	}
	return result, nil
}

// migrateRecord replaces a plaintext password with its envelope. Records
// that are not objects, without a string password, with an empty one, or with
// one that already looks encrypted are left alone.
func (m *migrationUseCase) migrateRecord(index int, record *connectionDomain.Record) connectionDomain.Outcome {
	password, ok := record.Password()
	if !ok || password == "" || cryptoService.LooksEncrypted(password) {
		return connectionDomain.OutcomeUnchanged
	}

	encrypted, err := m.cipher.Encrypt(password)
	if err != nil {
		m.logger.Warn("failed to encrypt connection password",
			slog.Int("index", index),
			slog.String("id", record.StringField("id")),
			slog.Any("error", err),
		)
		return connectionDomain.OutcomeFailed
	}

	record.SetPassword(encrypted)
	return connectionDomain.OutcomeChanged
}
