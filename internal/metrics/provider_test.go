package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		provider, err := NewProvider("queryowl")
		require.NoError(t, err)

		assert.Equal(t, "queryowl", provider.Namespace())
		assert.NotNil(t, provider.exporter)
		assert.NotNil(t, provider.registry)
		assert.NotNil(t, provider.MeterProvider())
		assert.NotNil(t, provider.Handler())
	})

	t.Run("EmptyNamespace", func(t *testing.T) {
		provider, err := NewProvider("")
		assert.Error(t, err)
		assert.Nil(t, provider)
	})
}

func TestProvider_BusinessAndHTTPShareNamespace(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("shared_ns")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := provider.Business()
	require.NoError(t, err)
	bm.RecordOperation(context.Background(), "crypto", "encrypt", StatusSuccess)

	router := gin.New()
	router.Use(provider.HTTPMiddleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	output := scrape(t, provider)
	assert.Contains(t, output, "shared_ns_operations_total")
	assert.Contains(t, output, "shared_ns_http_requests_total")
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		provider, err := NewProvider("queryowl")
		require.NoError(t, err)
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("NilMeterProvider", func(t *testing.T) {
		provider := &Provider{}
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
