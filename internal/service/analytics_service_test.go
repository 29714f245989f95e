package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/domain/analytics"
	"github.com/phrazzld/fintrack-api/internal/events"
	"github.com/phrazzld/fintrack-api/internal/mocks"
	"github.com/phrazzld/fintrack-api/internal/service"
	"github.com/phrazzld/fintrack-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyticsFixture struct {
	svc     service.AnalyticsService
	users   *mocks.MockUserStore
	txs     *mocks.MockTransactionStore
	budgets *mocks.MockBudgetStore
	cache   *service.AnalyticsCache
}

func newAnalyticsFixture(t *testing.T, user *domain.User, withCache bool) analyticsFixture {
	t.Helper()

	f := analyticsFixture{
		users:   mocks.NewMockUserStore(user),
		txs:     mocks.NewMockTransactionStore(),
		budgets: mocks.NewMockBudgetStore(),
	}
	if withCache {
		f.cache = service.NewAnalyticsCache(100, time.Minute)
	}

	agg, err := analytics.NewAggregator("USD")
	require.NoError(t, err)

	f.svc, err = service.NewAnalyticsService(f.users, f.txs, f.budgets, agg, f.cache, discardLogger())
	require.NoError(t, err)
	return f
}

func (f analyticsFixture) addTx(t *testing.T, userID uuid.UUID, amount, category string, txType domain.TransactionType, date time.Time) {
	t.Helper()
	tx := newTx(t, userID, amount, category, txType, date)
	f.txs.Transactions[tx.ID] = tx
}

func (f analyticsFixture) addBudget(t *testing.T, userID uuid.UUID, month time.Time, category string, amount int64) {
	t.Helper()
	b, err := domain.NewBudget(userID, month, category, decimal.NewFromInt(amount))
	require.NoError(t, err)
	f.budgets.Budgets = append(f.budgets.Budgets, b)
}

func TestNewAnalyticsService(t *testing.T) {
	agg, err := analytics.NewAggregator("USD")
	require.NoError(t, err)

	users := mocks.NewMockUserStore()
	txs := mocks.NewMockTransactionStore()
	budgets := mocks.NewMockBudgetStore()

	_, err = service.NewAnalyticsService(nil, txs, budgets, agg, nil, nil)
	assert.Error(t, err)
	_, err = service.NewAnalyticsService(users, nil, budgets, agg, nil, nil)
	assert.Error(t, err)
	_, err = service.NewAnalyticsService(users, txs, nil, agg, nil, nil)
	assert.Error(t, err)
	_, err = service.NewAnalyticsService(users, txs, budgets, nil, nil, nil)
	assert.Error(t, err)
}

func TestAnalyticsService_ComputeBudgetAnalytics(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t)
	march := domain.MonthPeriod(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	f := newAnalyticsFixture(t, user, false)
	f.addTx(t, user.ID, "-20", "Food", domain.TransactionTypeExpense, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	f.addTx(t, user.ID, "30", "Food", domain.TransactionTypeExpense, time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC))
	f.addTx(t, user.ID, "1000", "Salary", domain.TransactionTypeIncome, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	f.addTx(t, user.ID, "99", "Food", domain.TransactionTypeExpense, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	f.addTx(t, uuid.New(), "99", "Food", domain.TransactionTypeExpense, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	f.addBudget(t, user.ID, march.Start, "Food", 100)
	f.addBudget(t, user.ID, march.Start, "Transport", 40)
	f.addBudget(t, user.ID, march.End, "Food", 500)

	result, err := f.svc.ComputeBudgetAnalytics(ctx, user.ID, march)
	require.NoError(t, err)

	assert.Equal(t, "140", result.Budgeted.String())
	assert.Equal(t, "50", result.Spent.String())
	assert.Equal(t, "90", result.Remaining.String())
	require.Len(t, result.Breakdown, 2)
	assert.Equal(t, "Food", result.Breakdown[0].Category)
	assert.Equal(t, "50", result.Breakdown[0].Spent.String())
	assert.Equal(t, "100", result.Breakdown[0].Budgeted.String())
	assert.Equal(t, "Transport", result.Breakdown[1].Category)
	assert.True(t, result.Breakdown[1].Spent.IsZero())
}

func TestAnalyticsService_BudgetsAcrossMonths(t *testing.T) {
	user := newTestUser(t)
	f := newAnalyticsFixture(t, user, false)
	f.addBudget(t, user.ID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "Food", 10)
	f.addBudget(t, user.ID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Food", 20)
	f.addBudget(t, user.ID, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "Food", 40)

	period, err := domain.NewPeriod(
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	result, err := f.svc.ComputeBudgetAnalytics(context.Background(), user.ID, period)
	require.NoError(t, err)
	assert.Equal(t, "30", result.Budgeted.String())
}

func TestAnalyticsService_SummarizeCategories(t *testing.T) {
	user := newTestUser(t)
	f := newAnalyticsFixture(t, user, false)
	march := domain.MonthPeriod(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	f.addTx(t, user.ID, "20", "Food", domain.TransactionTypeExpense, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	f.addTx(t, user.ID, "5.5", "Coffee", domain.TransactionTypeExpense, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	f.addTx(t, user.ID, "1000", "Salary", domain.TransactionTypeIncome, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	totals, err := f.svc.SummarizeCategories(context.Background(), user.ID, march)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Coffee", totals[0].Category)
	assert.Equal(t, "5.5", totals[0].TotalSpent.String())
	assert.Equal(t, "Food", totals[1].Category)
}

func TestAnalyticsService_Errors(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t)
	march := domain.MonthPeriod(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	t.Run("unknown user", func(t *testing.T) {
		f := newAnalyticsFixture(t, user, false)
		_, err := f.svc.ComputeBudgetAnalytics(ctx, uuid.New(), march)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = f.svc.SummarizeCategories(ctx, uuid.New(), march)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("inverted period", func(t *testing.T) {
		f := newAnalyticsFixture(t, user, false)
		inverted := domain.Period{Start: march.End, End: march.Start}
		_, err := f.svc.ComputeBudgetAnalytics(ctx, user.ID, inverted)
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
		_, err = f.svc.SummarizeCategories(ctx, user.ID, domain.Period{Start: march.Start, End: march.Start})
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	})

	t.Run("transaction read fails", func(t *testing.T) {
		f := newAnalyticsFixture(t, user, false)
		f.txs.ListBetweenFn = func(context.Context, uuid.UUID, time.Time, time.Time) ([]*domain.Transaction, error) {
			return nil, store.ErrUnavailable
		}
		result, err := f.svc.ComputeBudgetAnalytics(ctx, user.ID, march)
		assert.ErrorIs(t, err, service.ErrServiceUnavailable)
		assert.Nil(t, result)
	})

	t.Run("budget read fails and cancels the other read", func(t *testing.T) {
		f := newAnalyticsFixture(t, user, false)
		f.budgets.ListForMonthsFn = func(context.Context, uuid.UUID, time.Time, time.Time) ([]*domain.Budget, error) {
			return nil, store.ErrUnavailable
		}
		f.txs.ListBetweenFn = func(ctx context.Context, _ uuid.UUID, _, _ time.Time) ([]*domain.Transaction, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		_, err := f.svc.ComputeBudgetAnalytics(ctx, user.ID, march)
		assert.ErrorIs(t, err, service.ErrServiceUnavailable)
	})

	t.Run("empty data", func(t *testing.T) {
		f := newAnalyticsFixture(t, user, false)
		result, err := f.svc.ComputeBudgetAnalytics(ctx, user.ID, march)
		require.NoError(t, err)
		assert.Empty(t, result.Breakdown)
		assert.True(t, result.Budgeted.IsZero())
		assert.True(t, result.Spent.IsZero())
		assert.True(t, result.Remaining.IsZero())
	})
}

func TestAnalyticsService_Cache(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t)
	march := domain.MonthPeriod(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	f := newAnalyticsFixture(t, user, true)
	f.addTx(t, user.ID, "20", "Food", domain.TransactionTypeExpense, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))

	var reads atomic.Int32
	f.txs.ListBetweenFn = func(_ context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
		reads.Add(1)
		var out []*domain.Transaction
		for _, tx := range f.txs.Transactions {
			if tx.UserID == userID && !tx.Date.Before(start) && tx.Date.Before(end) {
				out = append(out, tx)
			}
		}
		return out, nil
	}

	first, err := f.svc.ComputeBudgetAnalytics(ctx, user.ID, march)
	require.NoError(t, err)
	first.Breakdown[0].Category = "mutated by caller"

	second, err := f.svc.ComputeBudgetAnalytics(ctx, user.ID, march)
	require.NoError(t, err)
	assert.Equal(t, int32(1), reads.Load())
	assert.Equal(t, "Food", second.Breakdown[0].Category)

	// A summary for the same period is a separate entry.
	_, err = f.svc.SummarizeCategories(ctx, user.ID, march)
	require.NoError(t, err)
	assert.Equal(t, int32(2), reads.Load())

	// Any event for the user invalidates both.
	event, err := events.NewEvent(events.TransactionCreated, user.ID, nil)
	require.NoError(t, err)
	require.NoError(t, service.NewCacheInvalidator(f.cache).HandleEvent(ctx, event))
	assert.Equal(t, 0, f.cache.Size())

	f.addTx(t, user.ID, "5", "Food", domain.TransactionTypeExpense, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	third, err := f.svc.ComputeBudgetAnalytics(ctx, user.ID, march)
	require.NoError(t, err)
	assert.Equal(t, "25", third.Spent.String())
	assert.Equal(t, int32(3), reads.Load())
}

func TestAnalyticsService_CacheDropsResultReadBeforeWrite(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t)
	march := domain.MonthPeriod(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	food := newTx(t, user.ID, "-20", "Food", domain.TransactionTypeExpense, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	f := newAnalyticsFixture(t, user, true)

	readStarted := make(chan struct{})
	release := make(chan struct{})
	var reads atomic.Int32
	f.txs.ListBetweenFn = func(context.Context, uuid.UUID, time.Time, time.Time) ([]*domain.Transaction, error) {
		if reads.Add(1) == 1 {
			close(readStarted)
			<-release
			// Snapshot taken before the transaction below was written.
			return nil, nil
		}
		return []*domain.Transaction{food}, nil
	}

	done := make(chan []analytics.CategoryTotal, 1)
	go func() {
		totals, err := f.svc.SummarizeCategories(ctx, user.ID, march)
		assert.NoError(t, err)
		done <- totals
	}()

	<-readStarted
	event, err := events.NewEvent(events.TransactionCreated, user.ID, nil)
	require.NoError(t, err)
	require.NoError(t, service.NewCacheInvalidator(f.cache).HandleEvent(ctx, event))
	close(release)

	assert.Empty(t, <-done)
	assert.Equal(t, 0, f.cache.Size())

	after, err := f.svc.SummarizeCategories(ctx, user.ID, march)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Food", after[0].Category)
	assert.Equal(t, "20", after[0].TotalSpent.String())
	assert.Equal(t, int32(2), reads.Load())
}

func TestAnalyticsService_CacheHitStillRequiresUser(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t)
	march := domain.MonthPeriod(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	f := newAnalyticsFixture(t, user, true)
	f.addTx(t, user.ID, "20", "Food", domain.TransactionTypeExpense, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))

	_, err := f.svc.SummarizeCategories(ctx, user.ID, march)
	require.NoError(t, err)
	_, err = f.svc.ComputeBudgetAnalytics(ctx, user.ID, march)
	require.NoError(t, err)
	require.Equal(t, 2, f.cache.Size())

	delete(f.users.Users, user.ID)

	_, err = f.svc.SummarizeCategories(ctx, user.ID, march)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.svc.ComputeBudgetAnalytics(ctx, user.ID, march)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAnalyticsService_Idempotent(t *testing.T) {
	user := newTestUser(t)
	f := newAnalyticsFixture(t, user, false)
	march := domain.MonthPeriod(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	f.addTx(t, user.ID, "0.125", "Food", domain.TransactionTypeExpense, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	f.addTx(t, user.ID, "7", "Rent", domain.TransactionTypeExpense, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	f.addBudget(t, user.ID, march.Start, "Gym", 30)

	a, err := f.svc.ComputeBudgetAnalytics(context.Background(), user.ID, march)
	require.NoError(t, err)
	b, err := f.svc.ComputeBudgetAnalytics(context.Background(), user.ID, march)
	require.NoError(t, err)

	assert.True(t, a.Budgeted.Equal(b.Budgeted))
	assert.True(t, a.Spent.Equal(b.Spent))
	assert.True(t, a.Remaining.Equal(b.Remaining))
	require.Len(t, b.Breakdown, len(a.Breakdown))
	for i := range a.Breakdown {
		assert.Equal(t, a.Breakdown[i].Category, b.Breakdown[i].Category)
		assert.True(t, a.Breakdown[i].Spent.Equal(b.Breakdown[i].Spent))
		assert.True(t, a.Breakdown[i].Budgeted.Equal(b.Breakdown[i].Budgeted))
	}
	assert.Equal(t, "7.12", a.Spent.String())
}
