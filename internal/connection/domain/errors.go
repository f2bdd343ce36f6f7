package domain

import (
	"github.com/allisson/queryowl/internal/errors"
)

// Connection-specific error definitions.
var (
	// ErrConnectionNotFound indicates no stored connection has the requested ID.
	ErrConnectionNotFound = errors.Wrap(errors.ErrNotFound, "connection not found")

	// ErrCorruptCollection indicates the stored connections value is not a JSON array.
	ErrCorruptCollection = errors.Wrap(errors.ErrInternal, "stored connections are not a list")

	// ErrInvalidRecord indicates a stored record whose fields do not fit a connection.
	ErrInvalidRecord = errors.Wrap(errors.ErrInternal, "invalid connection record")
)
