// Package http provides HTTP handlers for connection management, credential
// retrieval, and the credential migration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/queryowl/internal/connection/http/dto"
	connectionUseCase "github.com/allisson/queryowl/internal/connection/usecase"
	"github.com/allisson/queryowl/internal/httputil"
	customValidation "github.com/allisson/queryowl/internal/validation"
)

// ConnectionHandler handles HTTP requests for connection management operations.
type ConnectionHandler struct {
	connectionUseCase connectionUseCase.ConnectionUseCase
	logger            *slog.Logger
}

// NewConnectionHandler creates a new connection handler with required dependencies.
func NewConnectionHandler(
	connectionUseCase connectionUseCase.ConnectionUseCase,
	logger *slog.Logger,
) *ConnectionHandler {
	return &ConnectionHandler{
		connectionUseCase: connectionUseCase,
		logger:            logger,
	}
}

// ListHandler lists stored connections without their passwords.
// GET /v1/connections?offset=0&limit=50
func (h *ConnectionHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePage(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	conns, err := h.connectionUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConnectionsToListResponse(httputil.Apply(page, conns)))
}

// CreateHandler stores a new connection, encrypting its password.
// POST /v1/connections
// Returns 201 Created with connection metadata.
func (h *ConnectionHandler) CreateHandler(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	conn, err := h.connectionUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapConnectionToResponse(conn))
}

// GetHandler returns connection metadata.
// GET /v1/connections/:id
func (h *ConnectionHandler) GetHandler(c *gin.Context) {
	conn, err := h.connectionUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConnectionToResponse(conn))
}

// UpdateHandler replaces the editable fields of a connection.
// PUT /v1/connections/:id
func (h *ConnectionHandler) UpdateHandler(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	conn, err := h.connectionUseCase.Update(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConnectionToResponse(conn))
}

// DeleteHandler removes a connection.
// DELETE /v1/connections/:id
// Returns 204 No Content.
func (h *ConnectionHandler) DeleteHandler(c *gin.Context) {
	if err := h.connectionUseCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// CredentialsHandler returns the decrypted credentials of a connection.
// GET /v1/connections/:id/credentials
// SECURITY: The response carries the plaintext password.
func (h *ConnectionHandler) CredentialsHandler(c *gin.Context) {
	conn, err := h.connectionUseCase.Credentials(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.MapConnectionToCredentialsResponse(conn))
}

func (h *ConnectionHandler) bindRequest(c *gin.Context) (*dto.ConnectionRequest, bool) {
	var req dto.ConnectionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return nil, false
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return nil, false
	}

	return &req, true
}
