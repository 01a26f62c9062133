package currencies

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_Register(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO currencies (code)")).
		WithArgs("GLD").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Register(context.Background(), "GLD"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Register_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	// ON CONFLICT DO NOTHING: zero rows affected, no error.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO currencies (code)")).
		WithArgs("GLD").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Register(context.Background(), "GLD"))
}

func TestPostgresRepository_Exists(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"registered", true},
		{"unregistered", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewPostgresRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM currencies WHERE code = $1)")).
				WithArgs("GLD").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.want))

			got, err := repo.Exists(context.Background(), "GLD")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
