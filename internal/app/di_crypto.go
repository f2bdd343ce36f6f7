package app

import (
	"context"
	"fmt"
	"sync"

	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
	cryptoService "github.com/allisson/queryowl/internal/crypto/service"
	cryptoUseCase "github.com/allisson/queryowl/internal/crypto/usecase"
	"github.com/allisson/queryowl/internal/metrics"
)

type cryptoComponents struct {
	keyCell          *cryptoDomain.KeyCell
	randomSource     cryptoService.RandomSource
	aeadManager      cryptoService.AEADManager
	kmsService       cryptoService.KMSService
	kmsKeeper        cryptoDomain.KMSKeeper
	cipher           cryptoService.Cipher
	masterKeyUseCase cryptoUseCase.MasterKeyUseCase
	metricsProvider  *metrics.Provider
	businessMetrics  metrics.BusinessMetrics

	keyCellInit          sync.Once
	randomSourceInit     sync.Once
	aeadManagerInit      sync.Once
	kmsServiceInit       sync.Once
	kmsKeeperInit        sync.Once
	cipherInit           sync.Once
	masterKeyUseCaseInit sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
}

// KeyCell returns the process-wide master key cell.
func (c *Container) KeyCell() *cryptoDomain.KeyCell {
	c.keyCellInit.Do(func() {
		c.keyCell = cryptoDomain.NewKeyCell()
	})
	return c.keyCell
}

// RandomSource returns the randomness source for keys and nonces.
func (c *Container) RandomSource() cryptoService.RandomSource {
	c.randomSourceInit.Do(func() {
		c.randomSource = cryptoService.NewRandomSource()
	})
	return c.randomSource
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager(c.RandomSource())
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KMSKeeper returns the keeper wrapping the stored master key, or nil when
// KMS_KEY_URI is not set.
func (c *Container) KMSKeeper() (cryptoDomain.KMSKeeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		c.kmsKeeper, err = c.initKMSKeeper()
		if err != nil {
			c.initErrors["kmsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// Cipher returns the cipher engine, instrumented when metrics are enabled.
func (c *Container) Cipher() (cryptoService.Cipher, error) {
	var err error
	c.cipherInit.Do(func() {
		c.cipher, err = c.initCipher()
		if err != nil {
			c.initErrors["cipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cipher"]; exists {
		return nil, storedErr
	}
	return c.cipher, nil
}

// MasterKeyUseCase returns the master key manager.
func (c *Container) MasterKeyUseCase() (cryptoUseCase.MasterKeyUseCase, error) {
	var err error
	c.masterKeyUseCaseInit.Do(func() {
		c.masterKeyUseCase, err = c.initMasterKeyUseCase()
		if err != nil {
			c.initErrors["masterKeyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.masterKeyUseCase, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder; a no-op one when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

func (c *Container) initKMSKeeper() (cryptoDomain.KMSKeeper, error) {
	if c.config.KMSKeyURI == "" {
		return nil, nil
	}

	keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}
	return keeper, nil
}

func (c *Container) initCipher() (cryptoService.Cipher, error) {
	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.CipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid cipher algorithm %q: %w", c.config.CipherAlgorithm, err)
	}

	baseCipher := cryptoService.NewCipherService(c.KeyCell(), c.AEADManager(), algorithm, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for cipher: %w", err)
		}
		return cryptoService.NewCipherWithMetrics(baseCipher, businessMetrics), nil
	}

	return baseCipher, nil
}

func (c *Container) initMasterKeyUseCase() (cryptoUseCase.MasterKeyUseCase, error) {
	keyStore, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get key store for master key use case: %w", err)
	}

	keeper, err := c.KMSKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get kms keeper for master key use case: %w", err)
	}

	return cryptoUseCase.NewMasterKeyUseCase(keyStore, c.KeyCell(), c.RandomSource(), keeper, c.Logger()), nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := provider.Business()
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}
