// Package services contains the server-side business logic. This file
// implements LedgerService, the engine owning all cross-entity invariants:
// transfer atomicity, fee and tax arithmetic, and conservation of funds.
package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/cryptox"
	"github.com/dmitrijs2005/ledgerkeeper/internal/dbx"
	"github.com/dmitrijs2005/ledgerkeeper/internal/logging"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/config"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferResult reports the split of a committed transfer.
type TransferResult struct {
	Net decimal.Decimal
	Fee decimal.Decimal
}

// TaxSummary reports the outcome of one tax sweep.
type TaxSummary struct {
	Period         string
	RowsTaxed      int
	RowsFailed     int
	TotalCollected map[string]decimal.Decimal
}

// LedgerService is the ledger engine. All operations take an explicit
// principal; admin-gated ones re-read the caller's role from the account
// store rather than trusting the principal's cached role.
type LedgerService struct {
	repos             repomanager.RepositoryManager
	logger            logging.Logger
	notifier          Notifier
	archiver          Archiver
	feeRate           decimal.Decimal
	taxRate           decimal.Decimal
	collectorUsername string
	storageTimeout    time.Duration

	// now is a clock seam for tests.
	now func() time.Time
}

// NewLedgerService constructs the engine. notifier may be nil.
func NewLedgerService(repos repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger, notifier Notifier) *LedgerService {
	return &LedgerService{
		repos:             repos,
		logger:            logger.With("module", "ledger_service"),
		notifier:          notifier,
		feeRate:           cfg.FeeRate,
		taxRate:           cfg.TaxRate,
		collectorUsername: cfg.CollectorUsername,
		storageTimeout:    cfg.StorageTimeout,
		now:               time.Now,
	}
}

// withDeadline bounds one storage interaction so no operation hangs
// indefinitely on an unavailable backend.
func (s *LedgerService) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storageTimeout)
}

// requireAdmin loads the caller's account and checks its current role.
func (s *LedgerService) requireAdmin(ctx context.Context, p *models.Principal) error {
	if p == nil {
		return common.ErrorUnauthorized
	}
	account, err := s.repos.Accounts(nil).GetByID(ctx, p.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return classifyStorage(err)
	}
	if account.Role != models.RoleAdmin {
		return common.ErrorUnauthorized
	}
	return nil
}

// CreateAccount registers a new ledger identity. Admin only. The raw
// credential is hashed before it reaches storage and never logged.
func (s *LedgerService) CreateAccount(ctx context.Context, p *models.Principal, username, credential string, role models.Role) (*models.Account, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if err := s.requireAdmin(ctx, p); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, common.ErrorInvalidRole
	}

	hash, err := cryptox.HashPassword(credential)
	if err != nil {
		return nil, err
	}
	account := &models.Account{
		ID:             uuid.NewString(),
		Username:       username,
		CredentialHash: hash,
		Role:           role,
	}
	created, err := s.repos.Accounts(nil).Create(ctx, account)
	if err != nil {
		return nil, classifyStorage(err)
	}

	s.logger.Info(ctx, "account created", "username", username, "role", string(role))
	return created, nil
}

// RegisterCurrency adds code to the currency registry. Admin only.
// Registering an existing code succeeds without effect.
func (s *LedgerService) RegisterCurrency(ctx context.Context, p *models.Principal, code string) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if err := s.requireAdmin(ctx, p); err != nil {
		return err
	}
	if code == "" {
		return common.ErrorUnknownCurrency
	}
	if err := s.repos.Currencies(nil).Register(ctx, code); err != nil {
		return classifyStorage(err)
	}

	s.logger.Info(ctx, "currency registered", "code", code)
	return nil
}

// GetBalances lists the caller's per-currency balances. Absent rows are
// simply not listed; their amount is zero by definition.
func (s *LedgerService) GetBalances(ctx context.Context, p *models.Principal) ([]models.Balance, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if p == nil {
		return nil, common.ErrorUnauthorized
	}

	var result []models.Balance
	err := retryRead(ctx, func(ctx context.Context) error {
		if _, err := s.repos.Accounts(nil).GetByID(ctx, p.AccountID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnknownAccount
			}
			return err
		}
		var err error
		result, err = s.repos.Balances(nil).ListByAccount(ctx, p.AccountID)
		return err
	})
	if err != nil {
		return nil, classifyStorage(err)
	}
	return result, nil
}

// Transfer moves amount of currency from the caller to recipientName.
// The debit, both credits (net to the recipient, fee to the collector), and
// the log append commit as one unit; any failure before commit leaves every
// balance untouched. Returns the net amount and the fee withheld.
func (s *LedgerService) Transfer(ctx context.Context, p *models.Principal, recipientName, currency string, amount decimal.Decimal) (*TransferResult, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if p == nil {
		return nil, common.ErrorUnauthorized
	}
	if !amount.IsPositive() {
		return nil, common.ErrorInvalidAmount
	}

	var (
		result *TransferResult
		event  TransferEvent
	)
	err := s.repos.WithTx(ctx, nil, func(ctx context.Context, tx dbx.DBTX) error {
		accountsRepo := s.repos.Accounts(tx)

		sender, err := accountsRepo.GetByID(ctx, p.AccountID)
		if err != nil {
			return mapMissingAccount(err)
		}
		recipient, err := accountsRepo.GetByUsername(ctx, recipientName)
		if err != nil {
			// Deliberately the same error as a missing sender: the result
			// must not reveal which side does not exist.
			return mapMissingAccount(err)
		}
		collector, err := accountsRepo.GetByUsername(ctx, s.collectorUsername)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorCollectorMissing
			}
			return err
		}

		known, err := s.repos.Currencies(tx).Exists(ctx, currency)
		if err != nil {
			return err
		}
		if !known {
			return common.ErrorUnknownCurrency
		}

		balancesRepo := s.repos.Balances(tx)

		// Lock every involved row in sorted key order so two transfers
		// sharing accounts cannot deadlock.
		ids := uniqueSorted(sender.ID, recipient.ID, collector.ID)
		held := make(map[string]decimal.Decimal, len(ids))
		for _, id := range ids {
			held[id], err = balancesRepo.GetForUpdate(ctx, id, currency)
			if err != nil {
				return err
			}
		}

		if held[sender.ID].LessThan(amount) {
			return common.ErrorInsufficientFunds
		}

		fee := amount.Mul(s.feeRate)
		net := amount.Sub(fee)

		// Accumulate deltas before writing so overlapping parties
		// (self-transfer, collector as recipient) net out correctly.
		held[sender.ID] = held[sender.ID].Sub(amount)
		held[recipient.ID] = held[recipient.ID].Add(net)
		held[collector.ID] = held[collector.ID].Add(fee)

		for _, id := range ids {
			if err := balancesRepo.Upsert(ctx, id, currency, held[id]); err != nil {
				return err
			}
		}

		now := s.now().UTC()
		record := &models.Transaction{
			ID:          uuid.NewString(),
			FromAccount: &sender.ID,
			ToAccount:   recipient.ID,
			Currency:    currency,
			Amount:      net,
			Timestamp:   now,
			Kind:        models.KindTransfer,
		}
		if err := s.repos.Transactions(tx).Append(ctx, record); err != nil {
			return err
		}

		result = &TransferResult{Net: net, Fee: fee}
		event = TransferEvent{
			Sender:    sender.Username,
			Recipient: recipient.Username,
			Currency:  currency,
			Net:       net,
			Fee:       fee,
			At:        now,
		}
		return nil
	})
	if err != nil {
		return nil, classifyStorage(err)
	}

	if s.notifier != nil {
		s.notifier.TransferCompleted(ctx, event)
	}
	return result, nil
}

// ApplyMonthlyTax runs the tax sweep for period (empty means the current
// month, "2006-01"). Admin only. The period marker makes a second invocation
// for the same period fail with ErrorTaxPeriodApplied instead of taxing
// twice. Each balance row is taxed in its own transaction: a failure on one
// row never corrupts rows already processed.
func (s *LedgerService) ApplyMonthlyTax(ctx context.Context, p *models.Principal, period string) (*TaxSummary, error) {
	adminCtx, cancel := s.withDeadline(ctx)
	err := s.requireAdmin(adminCtx, p)
	cancel()
	if err != nil {
		return nil, err
	}
	return s.applyTax(ctx, period)
}

// ApplyScheduledTax is the in-daemon scheduler entry point. It bypasses the
// principal gate: the scheduler is wired by the operator, not by a caller.
func (s *LedgerService) ApplyScheduledTax(ctx context.Context) (*TaxSummary, error) {
	return s.applyTax(ctx, "")
}

func (s *LedgerService) applyTax(ctx context.Context, period string) (*TaxSummary, error) {
	if period == "" {
		period = s.now().UTC().Format("2006-01")
	}

	setupCtx, cancel := s.withDeadline(ctx)
	defer cancel()

	collector, err := s.repos.Accounts(nil).GetByUsername(setupCtx, s.collectorUsername)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorCollectorMissing
		}
		return nil, classifyStorage(err)
	}

	// Claim the period first. The unique marker is what makes repeated
	// invocation safe.
	err = s.repos.WithTx(setupCtx, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.TaxPeriods(tx).Begin(ctx, period)
	})
	if err != nil {
		return nil, classifyStorage(err)
	}

	var rows []models.Balance
	err = retryRead(setupCtx, func(ctx context.Context) error {
		var err error
		rows, err = s.repos.Balances(nil).ListPositive(ctx)
		return err
	})
	if err != nil {
		return nil, classifyStorage(err)
	}

	summary := &TaxSummary{
		Period:         period,
		TotalCollected: make(map[string]decimal.Decimal),
	}

	for _, row := range rows {
		if row.AccountID == collector.ID {
			// Taxing the collector would only relabel its own proceeds.
			continue
		}
		tax, err := s.taxRow(ctx, collector.ID, row)
		if err != nil {
			summary.RowsFailed++
			s.logger.Error(ctx, "tax row failed",
				"account", row.AccountID, "currency", row.Currency, "error", err.Error())
			continue
		}
		if tax.IsPositive() {
			summary.RowsTaxed++
			summary.TotalCollected[row.Currency] = summary.TotalCollected[row.Currency].Add(tax)
		}
	}

	if summary.RowsFailed == 0 {
		completeCtx, cancel := s.withDeadline(ctx)
		defer cancel()
		if err := s.repos.TaxPeriods(nil).MarkCompleted(completeCtx, period); err != nil {
			s.logger.Warn(ctx, "marking tax period completed failed", "period", period, "error", err.Error())
		}
	}

	s.logger.Info(ctx, "tax sweep finished",
		"period", period, "rows_taxed", summary.RowsTaxed, "rows_failed", summary.RowsFailed)
	return summary, nil
}

// taxRow applies the tax to a single balance row as one isolated unit and
// returns the amount collected (zero when the row emptied out in the
// meantime).
func (s *LedgerService) taxRow(ctx context.Context, collectorID string, row models.Balance) (decimal.Decimal, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var collected decimal.Decimal
	err := s.repos.WithTx(ctx, nil, func(ctx context.Context, tx dbx.DBTX) error {
		balancesRepo := s.repos.Balances(tx)

		ids := uniqueSorted(row.AccountID, collectorID)
		held := make(map[string]decimal.Decimal, len(ids))
		for _, id := range ids {
			var err error
			held[id], err = balancesRepo.GetForUpdate(ctx, id, row.Currency)
			if err != nil {
				return err
			}
		}

		// Re-read under lock: the snapshot amount may be stale by now.
		current := held[row.AccountID]
		tax := current.Mul(s.taxRate)
		if !tax.IsPositive() {
			return nil
		}

		held[row.AccountID] = current.Sub(tax)
		held[collectorID] = held[collectorID].Add(tax)

		for _, id := range ids {
			if err := balancesRepo.Upsert(ctx, id, row.Currency, held[id]); err != nil {
				return err
			}
		}

		record := &models.Transaction{
			ID:          uuid.NewString(),
			FromAccount: &row.AccountID,
			ToAccount:   collectorID,
			Currency:    row.Currency,
			Amount:      tax,
			Timestamp:   s.now().UTC(),
			Kind:        models.KindMonthlyTax,
		}
		if err := s.repos.Transactions(tx).Append(ctx, record); err != nil {
			return err
		}

		collected = tax
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return collected, nil
}

func mapMissingAccount(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUnknownAccount
	}
	return err
}

func uniqueSorted(ids ...string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

