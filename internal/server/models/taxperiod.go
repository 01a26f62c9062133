package models

import "time"

// TaxPeriod marks a billing period for which the tax sweep has been started.
// The unique period key is what makes repeated sweep invocations safe.
type TaxPeriod struct {
	Period      string
	StartedAt   time.Time
	CompletedAt *time.Time
}
