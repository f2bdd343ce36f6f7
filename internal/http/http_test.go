package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/queryowl/internal/config"
	connectionDomain "github.com/allisson/queryowl/internal/connection/domain"
	connectionHTTP "github.com/allisson/queryowl/internal/connection/http"
	"github.com/allisson/queryowl/internal/connection/usecase/mocks"
	"github.com/allisson/queryowl/internal/metrics"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type routerFixture struct {
	server          *Server
	connectionUC    *mocks.MockConnectionUseCase
	migrationUC     *mocks.MockMigrationUseCase
	metricsProvider *metrics.Provider
}

func newRouterFixture(t *testing.T, cfg *config.Config, checks map[string]ReadinessCheck) *routerFixture {
	t.Helper()
	logger := discardLogger()

	provider, err := metrics.NewProvider(cfg.MetricsNamespace)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f := &routerFixture{
		server:          NewServer("127.0.0.1", 0, logger, checks),
		connectionUC:    &mocks.MockConnectionUseCase{},
		migrationUC:     &mocks.MockMigrationUseCase{},
		metricsProvider: provider,
	}
	f.server.SetupRouter(
		cfg,
		connectionHTTP.NewConnectionHandler(f.connectionUC, logger),
		connectionHTTP.NewCryptoHandler(f.migrationUC, logger),
		provider,
	)
	return f
}

func testConfig() *config.Config {
	return &config.Config{
		MetricsNamespace:        "queryowl_test",
		RateLimitEnabled:        false,
		RateLimitRequestsPerSec: 1,
		RateLimitBurst:          1,
	}
}

func (f *routerFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.server.GetHandler().ServeHTTP(w, req)
	return w
}

func TestServer_HealthEndpoint(t *testing.T) {
	f := newRouterFixture(t, testConfig(), nil)

	w := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestServer_ReadyEndpoint(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		f := newRouterFixture(t, testConfig(), map[string]ReadinessCheck{
			"master_key": func(ctx context.Context) error { return nil },
		})

		w := f.do(http.MethodGet, "/ready", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready","components":{"master_key":"ok"}}`, w.Body.String())
	})

	t.Run("NotReady", func(t *testing.T) {
		f := newRouterFixture(t, testConfig(), map[string]ReadinessCheck{
			"master_key": func(ctx context.Context) error { return nil },
			"database":   func(ctx context.Context) error { return errors.New("connection refused") },
		})

		w := f.do(http.MethodGet, "/ready", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not_ready", response["status"])
		components, ok := response["components"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "error", components["database"])
		assert.Equal(t, "ok", components["master_key"])
	})
}

func TestServer_Routes(t *testing.T) {
	f := newRouterFixture(t, testConfig(), nil)
	now := time.Now().UTC()
	conn := &connectionDomain.Connection{ID: "c1", Name: "prod", Driver: "postgres", CreatedAt: now, UpdatedAt: now}

	f.connectionUC.On("List", mock.Anything).Return([]*connectionDomain.Connection{conn}, nil)
	f.connectionUC.On("Get", mock.Anything, "c1").Return(conn, nil)
	f.connectionUC.On("Credentials", mock.Anything, "c1").Return(conn, nil)
	f.connectionUC.On("Create", mock.Anything, mock.Anything).Return(conn, nil)
	f.connectionUC.On("Update", mock.Anything, "c1", mock.Anything).Return(conn, nil)
	f.connectionUC.On("Delete", mock.Anything, "c1").Return(nil)
	f.migrationUC.On("Migrate", mock.Anything).Return(&connectionDomain.MigrationResult{}, nil)

	tests := []struct {
		method   string
		path     string
		body     string
		expected int
	}{
		{http.MethodGet, "/v1/connections", "", http.StatusOK},
		{http.MethodPost, "/v1/connections", `{"name":"prod","driver":"postgres"}`, http.StatusCreated},
		{http.MethodGet, "/v1/connections/c1", "", http.StatusOK},
		{http.MethodPut, "/v1/connections/c1", `{"name":"prod","driver":"postgres"}`, http.StatusOK},
		{http.MethodDelete, "/v1/connections/c1", "", http.StatusNoContent},
		{http.MethodGet, "/v1/connections/c1/credentials", "", http.StatusOK},
		{http.MethodPost, "/v1/crypto/classify", `{"value":"hunter2"}`, http.StatusOK},
		{http.MethodPost, "/v1/migrations/connections", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusNotFound},
		{http.MethodGet, "/v1/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := f.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expected, w.Code, w.Body.String())
		})
	}
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	f := newRouterFixture(t, cfg, nil)

	first := f.do(http.MethodPost, "/v1/crypto/classify", `{"value":"x"}`)
	assert.Equal(t, http.StatusOK, first.Code)

	second := f.do(http.MethodPost, "/v1/crypto/classify", `{"value":"x"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	health := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestIPRateLimiters_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newIPRateLimiters(1, 1)
	store.now = func() time.Time { return now }
	store.lastSweep = now

	first := store.get("10.0.0.1")
	assert.Same(t, first, store.get("10.0.0.1"))

	now = now.Add(2 * time.Hour)
	store.get("10.0.0.2")

	assert.Len(t, store.limiters, 1)
	assert.NotSame(t, first, store.get("10.0.0.1"))
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/v1/connections/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/connections/abc?value=hunter2", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, buf.String(), `"msg":"http request"`)
	assert.Contains(t, buf.String(), `"status":204`)
	assert.Contains(t, buf.String(), w.Header().Get("X-Request-Id"))
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := NewServer("127.0.0.1", 0, discardLogger(), nil)
	assert.Nil(t, server.GetHandler())
	assert.Error(t, server.Start(context.Background()))
}

func TestServer_ShutdownGracefully(t *testing.T) {
	f := newRouterFixture(t, testConfig(), nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- f.server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("queryowl_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("127.0.0.1", 0, discardLogger(), provider)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
