// Package errors holds the error kinds shared by every layer. Domain packages
// wrap these sentinels; the HTTP layer and the CLI branch on the kind only.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the operation clashes with current state, such as a
	// value that may only be set once.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the caller supplied data that cannot be used,
	// including ciphertext that fails authentication.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller may not perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInternal indicates a failure of the application or one of its stores.
	ErrInternal = errors.New("internal error")
)

// kinds is ordered: the first match wins when an error wraps several.
var kinds = []error{
	ErrNotFound,
	ErrConflict,
	ErrInvalidInput,
	ErrUnauthorized,
	ErrForbidden,
	ErrInternal,
}

// Wrap adds message as context to err. Returns nil when err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap but formats the message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Kind returns the sentinel err wraps, or ErrInternal when it wraps none.
// A nil err has no kind.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}
