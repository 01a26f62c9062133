package balances

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT amount FROM balances")).
		WithArgs("id1", "GLD").
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow("42.5"))

	amount, err := repo.Get(context.Background(), "id1", "GLD")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("42.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Get_AbsentRowIsZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT amount FROM balances")).
		WithArgs("id1", "GLD").
		WillReturnRows(sqlmock.NewRows([]string{"amount"}))

	amount, err := repo.Get(context.Background(), "id1", "GLD")
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestPostgresRepository_GetForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (account_id, currency) DO NOTHING")).
		WithArgs("id1", "GLD").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("id1", "GLD").
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow("10"))

	amount, err := repo.GetForUpdate(context.Background(), "id1", "GLD")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(10)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetForUpdate_MaterializesAbsentRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	// The zero row is inserted and locked before the read. A concurrent
	// transaction crediting the same key blocks on the insert and then
	// reads the committed amount instead of deriving its write from an
	// unlocked, absent row.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO balances (account_id, currency, amount)")).
		WithArgs("id1", "GLD").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("id1", "GLD").
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow("0"))

	amount, err := repo.GetForUpdate(context.Background(), "id1", "GLD")
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetForUpdate_UnknownCurrency(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO balances (account_id, currency, amount)")).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err = repo.GetForUpdate(context.Background(), "id1", "XXX")
	assert.ErrorIs(t, err, common.ErrorUnknownCurrency)
}

func TestPostgresRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	amount := decimal.RequireFromString("38")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO balances (account_id, currency, amount)")).
		WithArgs("id1", "GLD", amount).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), "id1", "GLD", amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Upsert_Negative(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	// Rejected before any query is issued.
	err = repo.Upsert(context.Background(), "id1", "GLD", decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, common.ErrorInvalidAmount)
}

func TestPostgresRepository_Upsert_ConstraintMapping(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{"unknown currency", "23503", common.ErrorUnknownCurrency},
		{"check violation", "23514", common.ErrorInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewPostgresRepository(db)

			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO balances")).
				WillReturnError(&pgconn.PgError{Code: tt.code})

			err = repo.Upsert(context.Background(), "id1", "XXX", decimal.NewFromInt(1))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPostgresRepository_ListByAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"account_id", "currency", "amount"}).
		AddRow("id1", "GLD", "60").
		AddRow("id1", "SLV", "5")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT account_id, currency, amount FROM balances")).
		WithArgs("id1").
		WillReturnRows(rows)

	result, err := repo.ListByAccount(context.Background(), "id1")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "GLD", result[0].Currency)
	assert.True(t, result[0].Amount.Equal(decimal.NewFromInt(60)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListPositive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"account_id", "currency", "amount"}).
		AddRow("id1", "GLD", "100").
		AddRow("id2", "GLD", "38")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE amount > 0")).
		WillReturnRows(rows)

	result, err := repo.ListPositive(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "id2", result[1].AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
