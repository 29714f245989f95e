package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/store"
)

// MockBudgetStore implements store.BudgetStore for testing
type MockBudgetStore struct {
	UpsertFn        func(ctx context.Context, budget *domain.Budget) error
	ListForMonthsFn func(ctx context.Context, userID uuid.UUID, firstMonth, lastMonth time.Time) ([]*domain.Budget, error)
	DeleteFn        func(ctx context.Context, userID uuid.UUID, month time.Time, category string) error

	mu      sync.Mutex
	Budgets []*domain.Budget
}

var _ store.BudgetStore = (*MockBudgetStore)(nil)

// NewMockBudgetStore creates a mock store holding budgets.
func NewMockBudgetStore(budgets ...*domain.Budget) *MockBudgetStore {
	return &MockBudgetStore{Budgets: budgets}
}

// Upsert implements store.BudgetStore
func (m *MockBudgetStore) Upsert(ctx context.Context, budget *domain.Budget) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, budget)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.Budgets {
		if b.UserID == budget.UserID && b.Month.Equal(budget.Month) && b.Category == budget.Category {
			m.Budgets[i] = budget
			return nil
		}
	}
	m.Budgets = append(m.Budgets, budget)
	return nil
}

// ListForMonths implements store.BudgetStore
func (m *MockBudgetStore) ListForMonths(
	ctx context.Context,
	userID uuid.UUID,
	firstMonth, lastMonth time.Time,
) ([]*domain.Budget, error) {
	if m.ListForMonthsFn != nil {
		return m.ListForMonthsFn(ctx, userID, firstMonth, lastMonth)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Budget, 0)
	for _, b := range m.Budgets {
		if b.UserID == userID && !b.Month.Before(firstMonth) && !b.Month.After(lastMonth) {
			result = append(result, b)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Month.Equal(result[j].Month) {
			return result[i].Month.Before(result[j].Month)
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// Delete implements store.BudgetStore
func (m *MockBudgetStore) Delete(ctx context.Context, userID uuid.UUID, month time.Time, category string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, month, category)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.Budgets {
		if b.UserID == userID && b.Month.Equal(month) && b.Category == category {
			m.Budgets = append(m.Budgets[:i], m.Budgets[i+1:]...)
			return nil
		}
	}
	return store.ErrBudgetNotFound
}

// WithTx returns the same mock; transactions are not simulated.
func (m *MockBudgetStore) WithTx(_ *sql.Tx) store.BudgetStore {
	return m
}
