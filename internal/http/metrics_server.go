package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/allisson/queryowl/internal/metrics"
)

// MetricsServer serves Prometheus metrics on a port separate from the API.
type MetricsServer struct {
	*listener
}

// NewMetricsServer creates a server exposing /metrics from metricsProvider.
func NewMetricsServer(host string, port int, logger *slog.Logger, metricsProvider *metrics.Provider) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/metrics", gin.WrapH(metricsProvider.Handler()))

	l := newListener("metrics server", host, port, logger)
	l.server.Handler = router
	return &MetricsServer{listener: l}
}

// Start serves metrics until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	return s.serve()
}
