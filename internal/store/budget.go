package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
)

// BudgetStore persists monthly per-category budgets.
type BudgetStore interface {
	// Upsert creates the budget or replaces the amount of an existing one
	// for the same user, month and category.
	Upsert(ctx context.Context, budget *domain.Budget) error

	// ListForMonths returns the user's budgets whose month label lies in
	// [firstMonth, lastMonth], both inclusive.
	ListForMonths(ctx context.Context, userID uuid.UUID, firstMonth, lastMonth time.Time) ([]*domain.Budget, error)

	// Delete removes the budget for a category in a month.
	// Returns ErrBudgetNotFound if there is none.
	Delete(ctx context.Context, userID uuid.UUID, month time.Time, category string) error

	// WithTx returns a new BudgetStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BudgetStore
}
