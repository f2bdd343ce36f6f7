package app

import (
	"context"
	"fmt"
	"sync"

	connectionHTTP "github.com/allisson/queryowl/internal/connection/http"
	connectionRepository "github.com/allisson/queryowl/internal/connection/repository"
	connectionUseCase "github.com/allisson/queryowl/internal/connection/usecase"
	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
	"github.com/allisson/queryowl/internal/http"
)

type connectionComponents struct {
	connectionRepo    connectionUseCase.ConnectionRepository
	migrationUseCase  connectionUseCase.MigrationUseCase
	connectionUseCase connectionUseCase.ConnectionUseCase

	connectionRepoInit    sync.Once
	migrationUseCaseInit  sync.Once
	connectionUseCaseInit sync.Once
}

type serverComponents struct {
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	httpServerInit    sync.Once
	metricsServerInit sync.Once
}

// ConnectionRepository returns the repository over the connection records store.
func (c *Container) ConnectionRepository() (connectionUseCase.ConnectionRepository, error) {
	var err error
	c.connectionRepoInit.Do(func() {
		c.connectionRepo, err = c.initConnectionRepository()
		if err != nil {
			c.initErrors["connectionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["connectionRepo"]; exists {
		return nil, storedErr
	}
	return c.connectionRepo, nil
}

// MigrationUseCase returns the credential migration driver.
func (c *Container) MigrationUseCase() (connectionUseCase.MigrationUseCase, error) {
	var err error
	c.migrationUseCaseInit.Do(func() {
		c.migrationUseCase, err = c.initMigrationUseCase()
		if err != nil {
			c.initErrors["migrationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["migrationUseCase"]; exists {
		return nil, storedErr
	}
	return c.migrationUseCase, nil
}

// ConnectionUseCase returns the connection management use case.
func (c *Container) ConnectionUseCase() (connectionUseCase.ConnectionUseCase, error) {
	var err error
	c.connectionUseCaseInit.Do(func() {
		c.connectionUseCase, err = c.initConnectionUseCase()
		if err != nil {
			c.initErrors["connectionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["connectionUseCase"]; exists {
		return nil, storedErr
	}
	return c.connectionUseCase, nil
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Bootstrap initializes the master key and, when MIGRATE_ON_STARTUP is set,
// migrates plaintext credentials. It must run before any encrypt or decrypt.
func (c *Container) Bootstrap(ctx context.Context) error {
	masterKeyUseCase, err := c.MasterKeyUseCase()
	if err != nil {
		return err
	}

	if err := masterKeyUseCase.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}

	if !c.config.MigrateOnStartup {
		return nil
	}

	migrationUseCase, err := c.MigrationUseCase()
	if err != nil {
		return err
	}

	if _, err := migrationUseCase.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate connections: %w", err)
	}
	return nil
}

func (c *Container) initConnectionRepository() (connectionUseCase.ConnectionRepository, error) {
	recordsStore, err := c.RecordsStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get records store for connection repository: %w", err)
	}
	return connectionRepository.NewConnectionRepository(recordsStore), nil
}

func (c *Container) initMigrationUseCase() (connectionUseCase.MigrationUseCase, error) {
	repo, err := c.ConnectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection repository for migration use case: %w", err)
	}

	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for migration use case: %w", err)
	}

	baseUseCase := connectionUseCase.NewMigrationUseCase(repo, cipher, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for migration use case: %w", err)
		}
		return connectionUseCase.NewMigrationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initConnectionUseCase() (connectionUseCase.ConnectionUseCase, error) {
	repo, err := c.ConnectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection repository for connection use case: %w", err)
	}

	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for connection use case: %w", err)
	}

	baseUseCase := connectionUseCase.NewConnectionUseCase(repo, cipher, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for connection use case: %w", err)
		}
		return connectionUseCase.NewConnectionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	connUseCase, err := c.ConnectionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection use case for http server: %w", err)
	}

	migrationUseCase, err := c.MigrationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get migration use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(c.config.ServerHost, c.config.ServerPort, logger, c.readinessChecks())
	server.SetupRouter(
		c.config,
		connectionHTTP.NewConnectionHandler(connUseCase, logger),
		connectionHTTP.NewCryptoHandler(migrationUseCase, logger),
		metricsProvider,
	)

	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}

// readinessChecks reports the master key and, for SQL stores, the database.
func (c *Container) readinessChecks() map[string]http.ReadinessCheck {
	cell := c.KeyCell()
	checks := map[string]http.ReadinessCheck{
		"master_key": func(ctx context.Context) error {
			if !cell.IsSet() {
				return cryptoDomain.ErrNotInitialized
			}
			return nil
		},
	}

	if c.config.UsesDatabase() {
		checks["database"] = func(ctx context.Context) error {
			db, err := c.DB()
			if err != nil {
				return err
			}
			return db.PingContext(ctx)
		}
	}

	return checks
}
