package service

import (
	"context"
	"time"

	"github.com/allisson/queryowl/internal/metrics"
)

// cipherWithMetrics decorates Cipher with metrics instrumentation.
type cipherWithMetrics struct {
	next    Cipher
	metrics metrics.BusinessMetrics
}

// NewCipherWithMetrics wraps a Cipher with metrics recording.
func NewCipherWithMetrics(next Cipher, m metrics.BusinessMetrics) Cipher {
	return &cipherWithMetrics{
		next:    next,
		metrics: m,
	}
}

// Encrypt records metrics for encrypt operations.
func (c *cipherWithMetrics) Encrypt(plaintext string) (string, error) {
	start := time.Now()
	out, err := c.next.Encrypt(plaintext)
	metrics.Observe(context.Background(), c.metrics, "crypto", "encrypt", start, err)
	return out, err
}

// Decrypt records metrics for decrypt operations.
func (c *cipherWithMetrics) Decrypt(value string) (string, error) {
	start := time.Now()
	out, err := c.next.Decrypt(value)
	metrics.Observe(context.Background(), c.metrics, "crypto", "decrypt", start, err)
	return out, err
}
