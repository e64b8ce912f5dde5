// Package common defines shared sentinel errors used across the surfaces.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Generic/internal flow control.
	ErrInternal = errors.New("internal error")

	// Auth errors (missing, invalid or malformed token).
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
