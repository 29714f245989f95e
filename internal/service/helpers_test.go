package service_test

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("alice", "alice@example.com", "secret-password")
	require.NoError(t, err)
	user.HashedPassword = user.Password
	user.Password = ""
	return user
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func newTx(t *testing.T, userID uuid.UUID, amount, category string, txType domain.TransactionType, date time.Time) *domain.Transaction {
	t.Helper()
	tx, err := domain.NewTransaction(userID, decimal.RequireFromString(amount), "USD", category, txType, date, nil)
	require.NoError(t, err)
	return tx
}
