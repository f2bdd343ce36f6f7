package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/allisson/queryowl/internal/database"
	apperrors "github.com/allisson/queryowl/internal/errors"
)

// dialect holds the statements that differ between SQL databases.
type dialect struct {
	selectQuery string
	upsertQuery string
}

// SQLStore keeps a store as rows of the kv_documents table, one row per key,
// scoped by namespace.
//
// Set stages values in memory. Flush upserts every staged value inside a single
// transaction; either all of them become durable or none do. Get sees staged
// values before they are flushed. A failed Flush discards them.
//
// Database schema requirements:
//   - namespace: VARCHAR (store name)
//   - doc_key: VARCHAR
//   - value: JSONB (PostgreSQL) or JSON (MySQL)
//   - updated_at: timestamp
//   - PRIMARY KEY (namespace, doc_key)
type SQLStore struct {
	db        *sql.DB
	txManager database.TxManager
	namespace string
	dialect   dialect
	now       func() time.Time

	mu      sync.Mutex
	pending map[string]json.RawMessage
}

func newSQLStore(db *sql.DB, txManager database.TxManager, namespace string, d dialect) *SQLStore {
	return &SQLStore{
		db:        db,
		txManager: txManager,
		namespace: namespace,
		dialect:   d,
		now:       func() time.Time { return time.Now().UTC() },
		pending:   make(map[string]json.RawMessage),
	}
}

// Namespace returns the namespace rows of this store are written under.
func (s *SQLStore) Namespace() string {
	return s.namespace
}

// Get returns the staged value for key if there is one, otherwise the stored row.
func (s *SQLStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.Lock()
	staged, ok := s.pending[key]
	s.mu.Unlock()
	if ok {
		return cloneValue(staged), true, nil
	}

	querier := database.GetTx(ctx, s.db)

	var value []byte
	err := querier.QueryRowContext(ctx, s.dialect.selectQuery, s.namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrapf(err, "failed to get %q from %s", key, s.namespace)
	}

	return json.RawMessage(value), true, nil
}

// Set stages value under key.
func (s *SQLStore) Set(_ context.Context, key string, value json.RawMessage) error {
	if err := validateValue(value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[key] = cloneValue(value)
	return nil
}

// Flush upserts every staged value in one transaction. Staged values are
// discarded whether or not the transaction commits, so after a failed Flush
// Get reports what the table holds.
func (s *SQLStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}
	defer clear(s.pending)

	updatedAt := s.now()
	keys := slices.Sorted(maps.Keys(s.pending))

	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		querier := database.GetTx(txCtx, s.db)
		for _, key := range keys {
			_, err := querier.ExecContext(
				txCtx,
				s.dialect.upsertQuery,
				s.namespace,
				key,
				string(s.pending[key]),
				updatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrapf(err, "failed to flush %s", s.namespace)
	}
	return nil
}

// Close drops staged values. The connection pool is owned by the caller.
func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.pending)
	return nil
}

// SQLOpener opens SQL stores that share one connection pool.
type SQLOpener struct {
	driver    string
	db        *sql.DB
	txManager database.TxManager
}

// NewSQLOpener creates an Opener for the given driver ("postgres" or "mysql").
func NewSQLOpener(driver string, db *sql.DB, txManager database.TxManager) *SQLOpener {
	return &SQLOpener{driver: driver, db: db, txManager: txManager}
}

// Open returns the store whose rows are scoped by name.
func (o *SQLOpener) Open(_ context.Context, name string) (Store, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty store name", apperrors.ErrInvalidInput)
	}

	switch o.driver {
	case database.DriverPostgres:
		return NewPostgreSQLStore(o.db, o.txManager, name), nil
	case database.DriverMySQL:
		return NewMySQLStore(o.db, o.txManager, name), nil
	default:
		return nil, fmt.Errorf("%w: unsupported store driver %q", apperrors.ErrInvalidInput, o.driver)
	}
}
