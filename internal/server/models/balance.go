package models

import "github.com/shopspring/decimal"

// Balance is one (account, currency) row. A missing row reads as amount 0;
// the amount is never negative.
type Balance struct {
	AccountID string
	Currency  string
	Amount    decimal.Decimal
}
