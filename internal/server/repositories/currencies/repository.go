// Package currencies keeps the registry of known currency codes.
package currencies

import "context"

type Repository interface {
	// Register records code as a known currency. Registering an existing
	// code is a no-op, not an error.
	Register(ctx context.Context, code string) error

	// Exists reports whether code is registered.
	Exists(ctx context.Context, code string) (bool, error)
}
