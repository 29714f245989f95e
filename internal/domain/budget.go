package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNegativeBudget is returned when a budget amount is below zero.
var ErrNegativeBudget = errors.New("budget amount cannot be negative")

// Budget is a spending limit for one category in one calendar month.
type Budget struct {
	UserID    uuid.UUID       `json:"user_id"`
	Month     time.Time       `json:"month"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewBudget creates a validated Budget. month may be any instant in the
// target month; it is normalized to the month label.
func NewBudget(userID uuid.UUID, month time.Time, category string, amount decimal.Decimal) (*Budget, error) {
	b := &Budget{
		UserID:    userID,
		Month:     MonthLabel(month),
		Category:  strings.TrimSpace(category),
		Amount:    amount,
		UpdatedAt: time.Now().UTC(),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks that the budget is well formed.
func (b *Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if b.Month.IsZero() {
		return NewValidationError("month", "cannot be empty", ErrInvalidPeriod)
	}
	if b.Category == "" {
		return NewValidationError("category", "cannot be empty", ErrEmptyCategory)
	}
	if len(b.Category) > maxCategoryLength {
		return NewValidationError("category", "must be at most 100 characters", ErrCategoryTooLong)
	}
	if b.Amount.IsNegative() {
		return NewValidationError("amount", "cannot be negative", ErrNegativeBudget)
	}
	return nil
}

// BudgetMapping sums budgets by category. Budgets for the same category in
// several months are added together.
func BudgetMapping(budgets []*Budget) map[string]decimal.Decimal {
	mapping := make(map[string]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		if b == nil {
			continue
		}
		mapping[b.Category] = mapping[b.Category].Add(b.Amount)
	}
	return mapping
}
