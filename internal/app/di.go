// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/allisson/queryowl/internal/config"
	"github.com/allisson/queryowl/internal/database"
	"github.com/allisson/queryowl/internal/kvstore"
)

const connectTimeout = 10 * time.Second

// Container holds all application dependencies and provides methods to access them.
// Components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger    *slog.Logger
	db        *sql.DB
	txManager database.TxManager

	// Stores
	storeOpener  kvstore.Opener
	keyStore     kvstore.Store
	recordsStore kvstore.Store

	// Crypto, connections, metrics and servers (see di_crypto.go, di_connection.go)
	cryptoComponents
	connectionComponents
	serverComponents

	// Initialization flags and mutex for thread-safety
	mu               sync.Mutex
	loggerInit       sync.Once
	dbInit           sync.Once
	txManagerInit    sync.Once
	storeOpenerInit  sync.Once
	keyStoreInit     sync.Once
	recordsStoreInit sync.Once
	initErrors       map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection. Only available when a SQL store driver is configured.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// StoreOpener returns the opener for the configured store driver.
func (c *Container) StoreOpener() (kvstore.Opener, error) {
	var err error
	c.storeOpenerInit.Do(func() {
		c.storeOpener, err = c.initStoreOpener()
		if err != nil {
			c.initErrors["storeOpener"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storeOpener"]; exists {
		return nil, storedErr
	}
	return c.storeOpener, nil
}

// KeyStore returns the store holding the master key.
func (c *Container) KeyStore() (kvstore.Store, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = c.openStore(c.config.KeyStoreName)
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// RecordsStore returns the store holding the connection records.
func (c *Container) RecordsStore() (kvstore.Store, error) {
	var err error
	c.recordsStoreInit.Do(func() {
		c.recordsStore, err = c.openStore(c.config.RecordsStoreName)
		if err != nil {
			c.initErrors["recordsStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordsStore"]; exists {
		return nil, storedErr
	}
	return c.recordsStore, nil
}

// Shutdown releases every initialized resource. Servers are stopped first and
// the database is closed last.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.kmsKeeper != nil {
		if err := c.kmsKeeper.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kms keeper close: %w", err))
		}
	}

	for name, store := range map[string]kvstore.Store{"key store": c.keyStore, "records store": c.recordsStore} {
		if store == nil {
			continue
		}
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s close: %w", name, err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	return nil
}

// initLogger creates a JSON logger at the configured level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB connects to the database selected by the store driver.
func (c *Container) initDB() (*sql.DB, error) {
	if !c.config.UsesDatabase() {
		return nil, fmt.Errorf("store driver %q does not use a database", c.config.StoreDriver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := database.Connect(ctx, database.Config{
		Driver:             c.config.StoreDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initStoreOpener selects the file or SQL opener from the store driver.
func (c *Container) initStoreOpener() (kvstore.Opener, error) {
	switch c.config.StoreDriver {
	case config.StoreDriverFile:
		return kvstore.NewFileOpener(c.config.DataDir), nil
	case config.StoreDriverPostgres, config.StoreDriverMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for store opener: %w", err)
		}
		txManager, err := c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for store opener: %w", err)
		}
		return kvstore.NewSQLOpener(c.config.StoreDriver, db, txManager), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", c.config.StoreDriver)
	}
}

func (c *Container) openStore(name string) (kvstore.Store, error) {
	opener, err := c.StoreOpener()
	if err != nil {
		return nil, err
	}

	store, err := opener.Open(context.Background(), name)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %q: %w", name, err)
	}
	return store, nil
}
