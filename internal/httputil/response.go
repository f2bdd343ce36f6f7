// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/queryowl/internal/errors"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorMapping describes how one error kind is reported to clients.
// An empty message means the error text itself is returned.
type errorMapping struct {
	status  int
	code    string
	message string
}

var errorMappings = map[error]errorMapping{
	apperrors.ErrNotFound: {
		status:  http.StatusNotFound,
		code:    "not_found",
		message: "The requested resource was not found",
	},
	apperrors.ErrConflict: {
		status:  http.StatusConflict,
		code:    "conflict",
		message: "The operation conflicts with the current state",
	},
	apperrors.ErrInvalidInput: {
		status: http.StatusUnprocessableEntity,
		code:   "invalid_input",
	},
	apperrors.ErrUnauthorized: {
		status:  http.StatusUnauthorized,
		code:    "unauthorized",
		message: "Authentication is required",
	},
	apperrors.ErrForbidden: {
		status:  http.StatusForbidden,
		code:    "forbidden",
		message: "You don't have permission to access this resource",
	},
	apperrors.ErrInternal: {
		status:  http.StatusInternalServerError,
		code:    "internal_error",
		message: "An internal error occurred",
	},
}

// HandleErrorGin writes the status and body for err's kind.
// Internal errors, including encryption failures, never expose their message.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	mapping := errorMappings[apperrors.Kind(err)]
	message := mapping.message
	if message == "" {
		message = err.Error()
	}

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", mapping.status),
			slog.String("error_code", mapping.code),
			slog.Any("error", err),
		)
	}

	c.JSON(mapping.status, ErrorResponse{Error: mapping.code, Message: message})
}

// HandleBadRequestGin writes a 400 response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()})
}

// HandleValidationErrorGin writes a 422 response for request validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation_error", Message: err.Error()})
}
