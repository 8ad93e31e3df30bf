// Package common defines shared constants and sentinel errors used across
// the GeoLedger server and the admin CLI. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// A guarded update found the row in a state it may not leave.
	ErrInvalidTransition = errors.New("invalid status transition")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Evidence storage errors.
	ErrStorageNotConfigured = errors.New("evidence storage not configured")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFileTooLarge         = errors.New("file too large")

	// On-chain anchor errors.
	ErrTxNotConfirmed    = errors.New("transaction not confirmed")
	ErrAnchorUnavailable = errors.New("anchor unavailable")
)
