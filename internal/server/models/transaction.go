package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind labels a transaction log record.
type TransactionKind string

const (
	KindTransfer   TransactionKind = "TRANSFER"
	KindMonthlyTax TransactionKind = "MONTHLY_TAX"
)

// Transaction is one append-only log record. FromAccount is nil for credits
// without a single source. Records are immutable once written; balances are a
// projection that could be rebuilt from this log.
type Transaction struct {
	ID          string
	FromAccount *string
	ToAccount   string
	Currency    string
	Amount      decimal.Decimal
	Timestamp   time.Time
	Kind        TransactionKind
}
