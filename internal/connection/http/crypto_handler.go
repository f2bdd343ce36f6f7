package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/queryowl/internal/connection/http/dto"
	connectionUseCase "github.com/allisson/queryowl/internal/connection/usecase"
	cryptoService "github.com/allisson/queryowl/internal/crypto/service"
	"github.com/allisson/queryowl/internal/httputil"
	customValidation "github.com/allisson/queryowl/internal/validation"
)

// CryptoHandler exposes the ciphertext classifier and the migration driver.
type CryptoHandler struct {
	migrationUseCase connectionUseCase.MigrationUseCase
	logger           *slog.Logger
}

// NewCryptoHandler creates a new crypto handler.
func NewCryptoHandler(migrationUseCase connectionUseCase.MigrationUseCase, logger *slog.Logger) *CryptoHandler {
	return &CryptoHandler{
		migrationUseCase: migrationUseCase,
		logger:           logger,
	}
}

// ClassifyHandler reports whether a value looks like an encoded envelope.
// POST /v1/crypto/classify
func (h *CryptoHandler) ClassifyHandler(c *gin.Context) {
	var req dto.ClassifyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ClassifyResponse{Encrypted: cryptoService.LooksEncrypted(req.Value)})
}

// MigrateHandler runs the credential migration. Running it again is harmless.
// POST /v1/migrations/connections
func (h *CryptoHandler) MigrateHandler(c *gin.Context) {
	result, err := h.migrationUseCase.Migrate(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMigrationResultToResponse(result))
}
