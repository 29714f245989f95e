package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/domain/analytics"
	"github.com/phrazzld/fintrack-api/internal/service"
	"github.com/shopspring/decimal"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	RegisterFn     func(ctx context.Context, username, email, password string) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, username, password string) (*domain.User, error)
	GetUserFn      func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

var _ service.UserService = (*MockUserService)(nil)

// Register implements service.UserService
func (m *MockUserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, username, email, password)
	}
	return nil, nil
}

// Authenticate implements service.UserService
func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, username, password)
	}
	return nil, nil
}

// GetUser implements service.UserService
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, nil
}

// MockTransactionService implements service.TransactionService for testing
type MockTransactionService struct {
	CreateFn  func(ctx context.Context, userID uuid.UUID, input service.TransactionInput) (*domain.Transaction, error)
	GetFn     func(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)
	ListFn    func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, int, error)
	RecentFn  func(ctx context.Context, userID uuid.UUID, count int) ([]*domain.Transaction, error)
	ReplaceFn func(ctx context.Context, userID, id uuid.UUID, input service.TransactionInput) (*domain.Transaction, error)
	PatchFn   func(ctx context.Context, userID, id uuid.UUID, patch domain.TransactionPatch) (*domain.Transaction, error)
	DeleteFn  func(ctx context.Context, userID, id uuid.UUID) error
}

var _ service.TransactionService = (*MockTransactionService)(nil)

// Create implements service.TransactionService
func (m *MockTransactionService) Create(
	ctx context.Context,
	userID uuid.UUID,
	input service.TransactionInput,
) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, userID, input)
	}
	return nil, nil
}

// Get implements service.TransactionService
func (m *MockTransactionService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, id)
	}
	return nil, nil
}

// List implements service.TransactionService
func (m *MockTransactionService) List(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Transaction, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, limit, offset)
	}
	return nil, 0, nil
}

// Recent implements service.TransactionService
func (m *MockTransactionService) Recent(ctx context.Context, userID uuid.UUID, count int) ([]*domain.Transaction, error) {
	if m.RecentFn != nil {
		return m.RecentFn(ctx, userID, count)
	}
	return nil, nil
}

// Replace implements service.TransactionService
func (m *MockTransactionService) Replace(
	ctx context.Context,
	userID, id uuid.UUID,
	input service.TransactionInput,
) (*domain.Transaction, error) {
	if m.ReplaceFn != nil {
		return m.ReplaceFn(ctx, userID, id, input)
	}
	return nil, nil
}

// Patch implements service.TransactionService
func (m *MockTransactionService) Patch(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.TransactionPatch,
) (*domain.Transaction, error) {
	if m.PatchFn != nil {
		return m.PatchFn(ctx, userID, id, patch)
	}
	return nil, nil
}

// Delete implements service.TransactionService
func (m *MockTransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return nil
}

// MockBudgetService implements service.BudgetService for testing
type MockBudgetService struct {
	ListFn   func(ctx context.Context, userID uuid.UUID, month time.Time) ([]*domain.Budget, error)
	SetFn    func(ctx context.Context, userID uuid.UUID, month time.Time, category string, amount decimal.Decimal) (*domain.Budget, error)
	DeleteFn func(ctx context.Context, userID uuid.UUID, month time.Time, category string) error
}

var _ service.BudgetService = (*MockBudgetService)(nil)

// List implements service.BudgetService
func (m *MockBudgetService) List(ctx context.Context, userID uuid.UUID, month time.Time) ([]*domain.Budget, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, month)
	}
	return nil, nil
}

// Set implements service.BudgetService
func (m *MockBudgetService) Set(
	ctx context.Context,
	userID uuid.UUID,
	month time.Time,
	category string,
	amount decimal.Decimal,
) (*domain.Budget, error) {
	if m.SetFn != nil {
		return m.SetFn(ctx, userID, month, category, amount)
	}
	return nil, nil
}

// Delete implements service.BudgetService
func (m *MockBudgetService) Delete(ctx context.Context, userID uuid.UUID, month time.Time, category string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, month, category)
	}
	return nil
}

// MockAnalyticsService implements service.AnalyticsService for testing
type MockAnalyticsService struct {
	SummarizeCategoriesFn    func(ctx context.Context, userID uuid.UUID, period domain.Period) ([]analytics.CategoryTotal, error)
	ComputeBudgetAnalyticsFn func(ctx context.Context, userID uuid.UUID, period domain.Period) (*analytics.BudgetAnalytics, error)
}

var _ service.AnalyticsService = (*MockAnalyticsService)(nil)

// SummarizeCategories implements service.AnalyticsService
func (m *MockAnalyticsService) SummarizeCategories(
	ctx context.Context,
	userID uuid.UUID,
	period domain.Period,
) ([]analytics.CategoryTotal, error) {
	if m.SummarizeCategoriesFn != nil {
		return m.SummarizeCategoriesFn(ctx, userID, period)
	}
	return nil, nil
}

// ComputeBudgetAnalytics implements service.AnalyticsService
func (m *MockAnalyticsService) ComputeBudgetAnalytics(
	ctx context.Context,
	userID uuid.UUID,
	period domain.Period,
) (*analytics.BudgetAnalytics, error) {
	if m.ComputeBudgetAnalyticsFn != nil {
		return m.ComputeBudgetAnalyticsFn(ctx, userID, period)
	}
	return &analytics.BudgetAnalytics{}, nil
}
