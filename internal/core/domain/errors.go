package domain

import (
	"errors"
	"strings"
)

// ErrValidation marks a missing or empty required field. Wrap it with the
// human-readable reason: fmt.Errorf("%w: content is required", ErrValidation).
var ErrValidation = errors.New("validation failed")

var (
	ErrUnauthenticated = errors.New("missing authentication token")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

// ValidationMessage returns the reason carried by a wrapped ErrValidation,
// or the generic message when nothing was attached.
func ValidationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
