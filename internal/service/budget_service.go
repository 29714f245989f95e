package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/events"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"
	"github.com/phrazzld/fintrack-api/internal/store"
	"github.com/shopspring/decimal"
)

// BudgetService maintains a user's monthly category budgets. Months are
// identified by any instant inside them.
type BudgetService interface {
	// List returns the month's budgets sorted by category.
	List(ctx context.Context, userID uuid.UUID, month time.Time) ([]*domain.Budget, error)

	// Set creates or replaces the budget for a category in a month.
	Set(ctx context.Context, userID uuid.UUID, month time.Time, category string, amount decimal.Decimal) (*domain.Budget, error)

	// Delete removes a budget. Returns store.ErrBudgetNotFound if there is none.
	Delete(ctx context.Context, userID uuid.UUID, month time.Time, category string) error
}

type budgetService struct {
	budgetStore store.BudgetStore
	emitter     events.EventEmitter
	logger      *slog.Logger
}

// NewBudgetService creates a BudgetService.
func NewBudgetService(
	budgetStore store.BudgetStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (BudgetService, error) {
	if budgetStore == nil {
		return nil, fmt.Errorf("budgetStore cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &budgetService{
		budgetStore: budgetStore,
		emitter:     emitter,
		logger:      logger.With(slog.String("component", "budget_service")),
	}, nil
}

func (s *budgetService) List(ctx context.Context, userID uuid.UUID, month time.Time) ([]*domain.Budget, error) {
	label := domain.MonthLabel(month)

	budgets, err := s.budgetStore.ListForMonths(ctx, userID, label, label)
	if err != nil {
		return nil, NewServiceError("budget", "list", err)
	}

	sort.SliceStable(budgets, func(i, j int) bool {
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

func (s *budgetService) Set(
	ctx context.Context,
	userID uuid.UUID,
	month time.Time,
	category string,
	amount decimal.Decimal,
) (*domain.Budget, error) {
	budget, err := domain.NewBudget(userID, month, category, amount)
	if err != nil {
		return nil, invalidInput(err)
	}

	if err := s.budgetStore.Upsert(ctx, budget); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save budget",
			slog.String("error", err.Error()),
			slog.String("month", domain.FormatMonth(budget.Month)))
		return nil, NewServiceError("budget", "set", err)
	}

	emit(ctx, s.emitter, s.logger, events.BudgetUpdated, userID, budget)
	return budget, nil
}

func (s *budgetService) Delete(ctx context.Context, userID uuid.UUID, month time.Time, category string) error {
	label := domain.MonthLabel(month)

	if err := s.budgetStore.Delete(ctx, userID, label, category); err != nil {
		return NewServiceError("budget", "delete", err)
	}

	emit(ctx, s.emitter, s.logger, events.BudgetDeleted, userID, map[string]string{
		"month":    domain.FormatMonth(label),
		"category": category,
	})
	return nil
}
