// Package http provides the HTTP server, its router and shared middleware.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/queryowl/internal/config"
	connectionHTTP "github.com/allisson/queryowl/internal/connection/http"
	"github.com/allisson/queryowl/internal/metrics"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency is able to serve requests.
type ReadinessCheck func(ctx context.Context) error

// Server is the API server.
type Server struct {
	*listener
	router *gin.Engine
	checks map[string]ReadinessCheck
}

// NewServer creates an API server. checks are run by the /ready endpoint, keyed
// by the component name reported in the response.
func NewServer(host string, port int, logger *slog.Logger, checks map[string]ReadinessCheck) *Server {
	return &Server{
		listener: newListener("http server", host, port, logger),
		checks:   checks,
	}
}

// SetupRouter builds the gin router with every route and middleware.
// metricsProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(
	cfg *config.Config,
	connectionHandler *connectionHTTP.ConnectionHandler,
	cryptoHandler *connectionHTTP.CryptoHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		router.Use(metricsProvider.HTTPMiddleware())
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	connections := v1.Group("/connections")
	{
		connections.GET("", connectionHandler.ListHandler)
		connections.POST("", connectionHandler.CreateHandler)
		connections.GET("/:id", connectionHandler.GetHandler)
		connections.PUT("/:id", connectionHandler.UpdateHandler)
		connections.DELETE("/:id", connectionHandler.DeleteHandler)
		connections.GET("/:id/credentials", connectionHandler.CredentialsHandler)
	}

	v1.POST("/crypto/classify", cryptoHandler.ClassifyHandler)
	v1.POST("/migrations/connections", cryptoHandler.MigrateHandler)

	s.router = router
	s.server.Handler = router
}

// Start serves the API until Shutdown is called. SetupRouter must run first.
func (s *Server) Start(ctx context.Context) error {
	return s.serve()
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler runs every readiness check and reports each component as
// "ok" or "error".
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	ready := true
	components := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", name), slog.Any("error", err))
			components[name] = "error"
			ready = false
			continue
		}
		components[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
