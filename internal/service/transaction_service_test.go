package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/events"
	"github.com/phrazzld/fintrack-api/internal/mocks"
	"github.com/phrazzld/fintrack-api/internal/service"
	"github.com/phrazzld/fintrack-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transactionFixture struct {
	svc     service.TransactionService
	txStore *mocks.MockTransactionStore
	emitter *mocks.MockEventEmitter
}

func newTransactionFixture(t *testing.T, txs ...*domain.Transaction) (transactionFixture, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	txStore := mocks.NewMockTransactionStore(txs...)
	emitter := &mocks.MockEventEmitter{}

	svc, err := service.NewTransactionService(txStore, db, emitter, discardLogger())
	require.NoError(t, err)

	return transactionFixture{svc: svc, txStore: txStore, emitter: emitter}, mock
}

func TestNewTransactionService(t *testing.T) {
	db, _ := newMockDB(t)

	_, err := service.NewTransactionService(nil, db, &mocks.MockEventEmitter{}, nil)
	assert.Error(t, err)
	_, err = service.NewTransactionService(mocks.NewMockTransactionStore(), nil, &mocks.MockEventEmitter{}, nil)
	assert.Error(t, err)
	_, err = service.NewTransactionService(mocks.NewMockTransactionStore(), db, nil, nil)
	assert.Error(t, err)
}

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	date := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("valid input", func(t *testing.T) {
		f, _ := newTransactionFixture(t)

		tx, err := f.svc.Create(ctx, userID, service.TransactionInput{
			Amount:   decimal.RequireFromString("12.50"),
			Currency: "usd",
			Category: " Food ",
			Type:     domain.TransactionTypeExpense,
			Date:     date,
		})
		require.NoError(t, err)
		assert.Equal(t, userID, tx.UserID)
		assert.Equal(t, "Food", tx.Category)
		assert.Equal(t, "USD", tx.Currency)
		assert.Contains(t, f.txStore.Transactions, tx.ID)
		assert.Equal(t, []string{events.TransactionCreated}, f.emitter.Types())
		assert.Equal(t, userID, f.emitter.Events[0].UserID)
	})

	t.Run("invalid input", func(t *testing.T) {
		f, _ := newTransactionFixture(t)

		_, err := f.svc.Create(ctx, userID, service.TransactionInput{
			Amount:   decimal.NewFromInt(1),
			Currency: "USD",
			Type:     domain.TransactionTypeExpense,
			Date:     date,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
		assert.ErrorIs(t, err, domain.ErrEmptyCategory)
		assert.Empty(t, f.txStore.Transactions)
		assert.Empty(t, f.emitter.Events)
	})

	t.Run("store failure emits nothing", func(t *testing.T) {
		f, _ := newTransactionFixture(t)
		f.txStore.CreateFn = func(context.Context, *domain.Transaction) error {
			return store.ErrUnavailable
		}

		_, err := f.svc.Create(ctx, userID, service.TransactionInput{
			Amount:   decimal.NewFromInt(1),
			Currency: "USD",
			Category: "Food",
			Type:     domain.TransactionTypeIncome,
			Date:     date,
		})
		assert.ErrorIs(t, err, service.ErrServiceUnavailable)
		assert.Empty(t, f.emitter.Events)
	})

	t.Run("emitter failure does not fail the write", func(t *testing.T) {
		f, _ := newTransactionFixture(t)
		f.emitter.EmitEventFn = func(context.Context, *events.Event) error {
			return errors.New("broker down")
		}

		_, err := f.svc.Create(ctx, userID, service.TransactionInput{
			Amount:   decimal.NewFromInt(1),
			Currency: "USD",
			Category: "Food",
			Type:     domain.TransactionTypeIncome,
			Date:     date,
		})
		assert.NoError(t, err)
	})
}

func TestTransactionService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	tx := newTx(t, owner, "5", "Food", domain.TransactionTypeExpense, time.Now())

	f, _ := newTransactionFixture(t, tx)

	got, err := f.svc.Get(ctx, owner, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)

	_, err = f.svc.Get(ctx, uuid.New(), tx.ID)
	assert.ErrorIs(t, err, store.ErrTransactionNotFound)

	err = f.svc.Delete(ctx, uuid.New(), tx.ID)
	assert.ErrorIs(t, err, store.ErrTransactionNotFound)
	assert.Empty(t, f.emitter.Events)

	require.NoError(t, f.svc.Delete(ctx, owner, tx.ID))
	assert.Equal(t, []string{events.TransactionDeleted}, f.emitter.Types())

	_, err = f.svc.Get(ctx, owner, tx.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTransactionService_ListAndRecent(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var txs []*domain.Transaction
	for i := 0; i < 5; i++ {
		txs = append(txs, newTx(t, owner, "1", "Food", domain.TransactionTypeExpense, base.AddDate(0, 0, i)))
	}
	txs = append(txs, newTx(t, uuid.New(), "1", "Food", domain.TransactionTypeExpense, base))

	f, _ := newTransactionFixture(t, txs...)

	page, total, err := f.svc.List(ctx, owner, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, txs[3].ID, page[0].ID)
	assert.Equal(t, txs[2].ID, page[1].ID)

	recent, err := f.svc.Recent(ctx, owner, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, txs[4].ID, recent[0].ID)

	_, _, err = f.svc.List(ctx, owner, 0, 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, _, err = f.svc.List(ctx, owner, 10, -1)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestTransactionService_Patch(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("updates only supplied fields", func(t *testing.T) {
		description := "lunch"
		original, err := domain.NewTransaction(owner, decimal.NewFromInt(10), "USD", "Food",
			domain.TransactionTypeExpense, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), &description)
		require.NoError(t, err)

		f, mock := newTransactionFixture(t, original)
		mock.ExpectBegin()
		mock.ExpectCommit()

		category := "Dining"
		updated, err := f.svc.Patch(ctx, owner, original.ID, domain.TransactionPatch{Category: &category})
		require.NoError(t, err)

		assert.Equal(t, "Dining", updated.Category)
		assert.True(t, updated.Amount.Equal(decimal.NewFromInt(10)))
		require.NotNil(t, updated.Description)
		assert.Equal(t, "lunch", *updated.Description)
		assert.Equal(t, "Dining", f.txStore.Transactions[original.ID].Category)
		assert.Equal(t, 1, f.txStore.WithTxCalls)
		assert.Equal(t, []string{events.TransactionUpdated}, f.emitter.Types())
	})

	t.Run("invalid patch rolls back", func(t *testing.T) {
		original := newTx(t, owner, "10", "Food", domain.TransactionTypeExpense, time.Now())
		f, mock := newTransactionFixture(t, original)
		mock.ExpectBegin()
		mock.ExpectRollback()

		badType := domain.TransactionType("transfer")
		_, err := f.svc.Patch(ctx, owner, original.ID, domain.TransactionPatch{Type: &badType})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
		assert.Equal(t, domain.TransactionTypeExpense, f.txStore.Transactions[original.ID].Type)
		assert.Empty(t, f.emitter.Events)
	})

	t.Run("not owned", func(t *testing.T) {
		original := newTx(t, owner, "10", "Food", domain.TransactionTypeExpense, time.Now())
		f, mock := newTransactionFixture(t, original)
		mock.ExpectBegin()
		mock.ExpectRollback()

		category := "Other"
		_, err := f.svc.Patch(ctx, uuid.New(), original.ID, domain.TransactionPatch{Category: &category})
		assert.ErrorIs(t, err, store.ErrTransactionNotFound)
	})
}

func TestTransactionService_Replace(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	description := "old"
	original, err := domain.NewTransaction(owner, decimal.NewFromInt(10), "USD", "Food",
		domain.TransactionTypeExpense, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), &description)
	require.NoError(t, err)

	f, mock := newTransactionFixture(t, original)
	mock.ExpectBegin()
	mock.ExpectCommit()

	newDate := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	updated, err := f.svc.Replace(ctx, owner, original.ID, service.TransactionInput{
		Amount:   decimal.NewFromInt(2500),
		Currency: "EUR",
		Category: "Salary",
		Type:     domain.TransactionTypeIncome,
		Date:     newDate,
	})
	require.NoError(t, err)

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "EUR", updated.Currency)
	assert.Equal(t, domain.TransactionTypeIncome, updated.Type)
	assert.True(t, updated.Date.Equal(newDate))
	assert.Nil(t, updated.Description)
}
