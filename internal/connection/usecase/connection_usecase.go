package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	connectionDomain "github.com/allisson/queryowl/internal/connection/domain"
	cryptoService "github.com/allisson/queryowl/internal/crypto/service"
)

type connectionUseCase struct {
	repo   ConnectionRepository
	cipher cryptoService.Cipher
	logger *slog.Logger
	now    func() time.Time
}

// NewConnectionUseCase creates the connection management use case.
func NewConnectionUseCase(
	repo ConnectionRepository,
	cipher cryptoService.Cipher,
	logger *slog.Logger,
) ConnectionUseCase {
	return &connectionUseCase{
		repo:   repo,
		cipher: cipher,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns every connection that decodes cleanly. Records that do not are
// skipped and logged.
func (c *connectionUseCase) List(ctx context.Context) ([]*connectionDomain.Connection, error) {
	var out []*connectionDomain.Connection

	err := c.repo.WithLock(ctx, func(ctx context.Context) error {
		records, err := c.repo.Load(ctx)
		if err != nil {
			return err
		}

		out = make([]*connectionDomain.Connection, 0, len(records))
		for i, record := range records {
			conn, err := connectionDomain.ConnectionFromRecord(record)
			if err != nil {
				c.logger.Warn("skipping unreadable connection", slog.Int("index", i), slog.Any("error", err))
				continue
			}
			out = append(out, conn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the connection with its password as stored.
func (c *connectionUseCase) Get(ctx context.Context, id string) (*connectionDomain.Connection, error) {
	var conn *connectionDomain.Connection

	err := c.repo.WithLock(ctx, func(ctx context.Context) error {
		records, err := c.repo.Load(ctx)
		if err != nil {
			return err
		}

		index := findRecord(records, id)
		if index < 0 {
			return connectionDomain.ErrConnectionNotFound
		}

		conn, err = connectionDomain.ConnectionFromRecord(records[index])
		return err
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Credentials returns the connection with its password decrypted.
func (c *connectionUseCase) Credentials(ctx context.Context, id string) (*connectionDomain.Connection, error) {
	conn, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	password, err := c.cipher.Decrypt(conn.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt password of connection %s: %w", id, err)
	}
	conn.Password = password
	return conn, nil
}

// Create stores a new connection with its password encrypted.
func (c *connectionUseCase) Create(
	ctx context.Context,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate connection id: %w", err)
	}

	now := c.now()
	conn := &connectionDomain.Connection{
		ID:        id.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.apply(conn, input); err != nil {
		return nil, err
	}

	err = c.repo.WithLock(ctx, func(ctx context.Context) error {
		records, err := c.repo.Load(ctx)
		if err != nil {
			return err
		}

		record, err := conn.ToRecord(connectionDomain.Record{})
		if err != nil {
			return err
		}
		return c.repo.Save(ctx, append(records, record))
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Update replaces the editable fields of a connection. Fields the connection
// does not model are kept.
func (c *connectionUseCase) Update(
	ctx context.Context,
	id string,
	input *connectionDomain.ConnectionInput,
) (*connectionDomain.Connection, error) {
	var conn *connectionDomain.Connection

	err := c.repo.WithLock(ctx, func(ctx context.Context) error {
		records, err := c.repo.Load(ctx)
		if err != nil {
			return err
		}

		index := findRecord(records, id)
		if index < 0 {
			return connectionDomain.ErrConnectionNotFound
		}

		conn, err = connectionDomain.ConnectionFromRecord(records[index])
		if err != nil {
			return err
		}
		if err := c.apply(conn, input); err != nil {
			return err
		}
		conn.UpdatedAt = c.now()

		record, err := conn.ToRecord(records[index])
		if err != nil {
			return err
		}
		records[index] = record
		return c.repo.Save(ctx, records)
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Delete removes a connection.
func (c *connectionUseCase) Delete(ctx context.Context, id string) error {
	return c.repo.WithLock(ctx, func(ctx context.Context) error {
		records, err := c.repo.Load(ctx)
		if err != nil {
			return err
		}

		index := findRecord(records, id)
		if index < 0 {
			return connectionDomain.ErrConnectionNotFound
		}
		return c.repo.Save(ctx, append(records[:index], records[index+1:]...))
	})
}

// apply copies input into conn, encrypting a supplied password.
func (c *connectionUseCase) apply(conn *connectionDomain.Connection, input *connectionDomain.ConnectionInput) error {
	conn.Name = input.Name
	conn.Driver = input.Driver
	conn.Host = input.Host
	conn.Port = input.Port
	conn.Database = input.Database
	conn.Username = input.Username
	conn.SSLMode = input.SSLMode

	if input.Password == nil {
		return nil
	}
	encrypted, err := c.cipher.Encrypt(*input.Password)
	if err != nil {
		return fmt.Errorf("failed to encrypt password: %w", err)
	}
	conn.Password = encrypted
	return nil
}

func findRecord(records []connectionDomain.Record, id string) int {
	if id == "" {
		return -1
	}
	for i, record := range records {
		if record.StringField("id") == id {
			return i
		}
	}
	return -1
}
