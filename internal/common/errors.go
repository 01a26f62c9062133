// Package common defines shared constants and sentinel errors used across
// ledgerkeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrorDuplicateAccount = errors.New("account already exists")
	ErrorUnknownCurrency  = errors.New("unknown currency")

	// Engine-level validation errors. These are local, non-retryable, and
	// surfaced verbatim to the caller for display.
	ErrorInvalidAmount     = errors.New("invalid amount")
	ErrorUnknownAccount    = errors.New("unknown account")
	ErrorInsufficientFunds = errors.New("insufficient funds")
	ErrorUnauthorized      = errors.New("unauthorized")
	ErrorInvalidRole       = errors.New("invalid role")

	// Tax sweep hardening.
	ErrorTaxPeriodApplied = errors.New("tax period already applied")
	ErrorCollectorMissing = errors.New("collector account missing")

	// Storage faults, reported after bounded retries at the engine boundary.
	ErrorStorageUnavailable = errors.New("storage unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
