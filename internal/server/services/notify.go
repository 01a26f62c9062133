package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/logging"
	"github.com/shopspring/decimal"
)

// TransferEvent describes a committed transfer for external announcement.
type TransferEvent struct {
	Sender    string
	Recipient string
	Currency  string
	Net       decimal.Decimal
	Fee       decimal.Decimal
	At        time.Time
}

// Notifier receives events after an operation has become durable. Delivery is
// best-effort: a failing notifier never affects the committed operation.
type Notifier interface {
	TransferCompleted(ctx context.Context, event TransferEvent)
}

// LogNotifier announces transfers to the structured log. It stands in for an
// external broadcast channel (the original deployment posted to a group chat).
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notifier")}
}

func (n *LogNotifier) TransferCompleted(ctx context.Context, event TransferEvent) {
	n.logger.Info(ctx, "transfer completed",
		"sender", event.Sender,
		"recipient", event.Recipient,
		"currency", event.Currency,
		"net", event.Net.String(),
		"fee", event.Fee.String(),
	)
}
