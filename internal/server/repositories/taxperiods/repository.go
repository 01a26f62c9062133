// Package taxperiods records which billing periods have had the tax sweep
// applied, guarding against double application.
package taxperiods

import "context"

type Repository interface {
	// Begin marks period as started. If the period was already started it
	// returns common.ErrorTaxPeriodApplied.
	Begin(ctx context.Context, period string) error

	// MarkCompleted stamps the period's completion time.
	MarkCompleted(ctx context.Context, period string) error
}
