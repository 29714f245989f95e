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

// MockTransactionStore implements store.TransactionStore for testing
type MockTransactionStore struct {
	CreateFn       func(ctx context.Context, tx *domain.Transaction) error
	GetByIDFn      func(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)
	GetForUpdateFn func(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)
	ListFn         func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, int, error)
	ListBetweenFn  func(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error)
	UpdateFn       func(ctx context.Context, tx *domain.Transaction) error
	DeleteFn       func(ctx context.Context, userID, id uuid.UUID) error

	mu           sync.Mutex
	Transactions map[uuid.UUID]*domain.Transaction
	// WithTxCalls counts how often WithTx was used
	WithTxCalls int
}

var _ store.TransactionStore = (*MockTransactionStore)(nil)

// NewMockTransactionStore creates a mock store holding txs.
func NewMockTransactionStore(txs ...*domain.Transaction) *MockTransactionStore {
	m := &MockTransactionStore{Transactions: make(map[uuid.UUID]*domain.Transaction)}
	for _, tx := range txs {
		m.Transactions[tx.ID] = tx
	}
	return m
}

// Create implements store.TransactionStore
func (m *MockTransactionStore) Create(ctx context.Context, tx *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions[tx.ID] = tx
	return nil
}

// GetByID implements store.TransactionStore
func (m *MockTransactionStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	return m.get(userID, id)
}

// GetForUpdate implements store.TransactionStore
func (m *MockTransactionStore) GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, userID, id)
	}
	return m.get(userID, id)
}

// get returns a copy so callers cannot mutate stored state without Update.
func (m *MockTransactionStore) get(userID, id uuid.UUID) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return nil, store.ErrTransactionNotFound
	}
	c := *tx
	return &c, nil
}

// List implements store.TransactionStore, newest first.
func (m *MockTransactionStore) List(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Transaction, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, limit, offset)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	owned := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.UserID == userID {
			owned = append(owned, tx)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].Date.After(owned[j].Date)
	})

	total := len(owned)
	if offset >= total {
		return []*domain.Transaction{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

// ListBetween implements store.TransactionStore
func (m *MockTransactionStore) ListBetween(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]*domain.Transaction, error) {
	if m.ListBetweenFn != nil {
		return m.ListBetweenFn(ctx, userID, start, end)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.UserID == userID && !tx.Date.Before(start) && tx.Date.Before(end) {
			result = append(result, tx)
		}
	}
	return result, nil
}

// Update implements store.TransactionStore
func (m *MockTransactionStore) Update(ctx context.Context, tx *domain.Transaction) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return store.ErrTransactionNotFound
	}
	m.Transactions[tx.ID] = tx
	return nil
}

// Delete implements store.TransactionStore
func (m *MockTransactionStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return store.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// WithTx returns the same mock and records the call.
func (m *MockTransactionStore) WithTx(_ *sql.Tx) store.TransactionStore {
	m.mu.Lock()
	m.WithTxCalls++
	m.mu.Unlock()
	return m
}
