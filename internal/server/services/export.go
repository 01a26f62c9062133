package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
	"github.com/google/uuid"
)

// ErrArchiveNotConfigured is returned by ExportLog when no archiver is wired.
var ErrArchiveNotConfigured = errors.New("archive not configured")

// Archiver stores immutable log snapshots offsite.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte) error
}

// exportRecord is the JSON-lines shape of one archived log entry.
type exportRecord struct {
	ID          string  `json:"id"`
	FromAccount *string `json:"from_account,omitempty"`
	ToAccount   string  `json:"to_account"`
	Currency    string  `json:"currency"`
	Amount      string  `json:"amount"`
	Timestamp   string  `json:"timestamp"`
	Kind        string  `json:"kind"`
}

// SetArchiver wires the offsite archive backend. Intended for startup only,
// before the service handles requests.
func (s *LedgerService) SetArchiver(a Archiver) {
	s.archiver = a
}

// ExportLog uploads all transaction records with timestamp >= since to the
// archive as a JSON-lines object and returns the object key. Admin only.
// The export reads the append-only log; it never mutates ledger state.
func (s *LedgerService) ExportLog(ctx context.Context, p *models.Principal, since time.Time) (string, error) {
	readCtx, cancel := s.withDeadline(ctx)
	defer cancel()

	if err := s.requireAdmin(readCtx, p); err != nil {
		return "", err
	}
	if s.archiver == nil {
		return "", ErrArchiveNotConfigured
	}

	var records []models.Transaction
	err := retryRead(readCtx, func(ctx context.Context) error {
		var err error
		records, err = s.repos.Transactions(nil).ListSince(ctx, since)
		return err
	})
	if err != nil {
		return "", classifyStorage(err)
	}

	var body []byte
	for _, record := range records {
		line, err := json.Marshal(exportRecord{
			ID:          record.ID,
			FromAccount: record.FromAccount,
			ToAccount:   record.ToAccount,
			Currency:    record.Currency,
			Amount:      record.Amount.String(),
			Timestamp:   record.Timestamp.UTC().Format(time.RFC3339Nano),
			Kind:        string(record.Kind),
		})
		if err != nil {
			return "", err
		}
		body = append(body, line...)
		body = append(body, '\n')
	}

	now := s.now().UTC()
	key := fmt.Sprintf("ledger/%d/%02d/%s.jsonl", now.Year(), now.Month(), uuid.NewString())
	if err := s.archiver.Put(ctx, key, body); err != nil {
		return "", err
	}

	s.logger.Info(ctx, "transaction log archived", "key", key, "records", len(records))
	return key, nil
}
