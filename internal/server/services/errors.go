package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/sethvargo/go-retry"
)

// domainErrors are the validation sentinels surfaced verbatim to callers.
// Anything outside this set coming back from storage is a fault, not a
// business outcome.
var domainErrors = []error{
	common.ErrorInvalidAmount,
	common.ErrorUnknownAccount,
	common.ErrorUnknownCurrency,
	common.ErrorInsufficientFunds,
	common.ErrorDuplicateAccount,
	common.ErrorUnauthorized,
	common.ErrorTaxPeriodApplied,
	common.ErrorCollectorMissing,
	common.ErrorNotFound,
	common.ErrorInvalidRole,
}

func isDomainError(err error) bool {
	for _, sentinel := range domainErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// classifyStorage passes domain errors through untouched and folds everything
// else (driver faults, timeouts, cancellations) into ErrorStorageUnavailable
// so callers see one typed failure kind for storage trouble.
func classifyStorage(err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return errors.Join(common.ErrorStorageUnavailable, err)
}

// retryRead runs fn with bounded exponential backoff. Only storage-class
// failures are retried; reads are idempotent so blind retry is safe here.
// Writes never go through this path.
func retryRead(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if isDomainError(err) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}
