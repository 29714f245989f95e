// Package analytics computes category spending summaries and budget-versus-
// actual breakdowns. Every function here is pure: callers pass in the
// transactions and budgets they read, and nothing is fetched or written.
package analytics

import (
	"errors"

	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNilTransaction is returned when the input contains a nil transaction.
var ErrNilTransaction = errors.New("transaction cannot be nil")

// Aggregator defines the analytics calculations.
type Aggregator interface {
	// SummarizeCategories totals expense spending per category inside the period.
	SummarizeCategories(
		transactions []*domain.Transaction,
		period domain.Period,
	) ([]CategoryTotal, error)

	// ComputeBudgetAnalytics joins per-category spending with budgets.
	ComputeBudgetAnalytics(
		transactions []*domain.Transaction,
		budgets map[string]decimal.Decimal,
		period domain.Period,
	) (*BudgetAnalytics, error)
}

type defaultAggregator struct {
	currency string
}

// NewAggregator creates an Aggregator that reports in the given currency.
// Sums are rounded to that currency's minor unit.
func NewAggregator(currency string) (Aggregator, error) {
	code, err := domain.NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	return &defaultAggregator{currency: code}, nil
}

func (a *defaultAggregator) SummarizeCategories(
	transactions []*domain.Transaction,
	period domain.Period,
) ([]CategoryTotal, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	spent, err := spendByCategory(transactions, period, a.currency)
	if err != nil {
		return nil, err
	}

	totals := make([]CategoryTotal, 0, len(spent))
	for _, category := range sortedCategories(spent, nil) {
		totals = append(totals, CategoryTotal{Category: category, TotalSpent: spent[category]})
	}
	return totals, nil
}

func (a *defaultAggregator) ComputeBudgetAnalytics(
	transactions []*domain.Transaction,
	budgets map[string]decimal.Decimal,
	period domain.Period,
) (*BudgetAnalytics, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	spent, err := spendByCategory(transactions, period, a.currency)
	if err != nil {
		return nil, err
	}

	return joinBudgets(spent, budgets, a.currency), nil
}
