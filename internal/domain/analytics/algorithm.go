package analytics

import (
	"sort"

	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/shopspring/decimal"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category   string
	TotalSpent decimal.Decimal
}

// CategorySummary compares spending with the budget of one category.
// Budgeted is zero when no budget is configured.
type CategorySummary struct {
	Category string
	Spent    decimal.Decimal
	Budgeted decimal.Decimal
}

// BudgetAnalytics is the budget-versus-actual result for a period.
// Budgeted and Spent are always the sums of the breakdown; Remaining may be
// negative when spending exceeds the budget.
type BudgetAnalytics struct {
	Budgeted  decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Breakdown []CategorySummary
}

// spendByCategory groups expense transactions inside the period by exact
// category label and sums their magnitudes. Each group is rounded once,
// after summing.
func spendByCategory(
	transactions []*domain.Transaction,
	period domain.Period,
	currency string,
) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx == nil {
			return nil, ErrNilTransaction
		}
		if tx.Type != domain.TransactionTypeExpense || !period.Contains(tx.Date) {
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.SpentAmount())
	}

	for category, sum := range sums {
		sums[category] = domain.RoundToMinorUnit(sum, currency)
	}
	return sums, nil
}

// joinBudgets emits one summary per category present on either side,
// sorted by category, and derives the totals from that list.
func joinBudgets(
	spent map[string]decimal.Decimal,
	budgets map[string]decimal.Decimal,
	currency string,
) *BudgetAnalytics {
	result := &BudgetAnalytics{
		Budgeted:  decimal.Zero,
		Spent:     decimal.Zero,
		Breakdown: make([]CategorySummary, 0, len(spent)+len(budgets)),
	}

	for _, category := range sortedCategories(spent, budgets) {
		summary := CategorySummary{
			Category: category,
			Spent:    decimal.Zero,
			Budgeted: decimal.Zero,
		}
		if s, ok := spent[category]; ok {
			summary.Spent = s
		}
		if b, ok := budgets[category]; ok {
			summary.Budgeted = domain.RoundToMinorUnit(b, currency)
		}

		result.Breakdown = append(result.Breakdown, summary)
		result.Spent = result.Spent.Add(summary.Spent)
		result.Budgeted = result.Budgeted.Add(summary.Budgeted)
	}

	result.Remaining = result.Budgeted.Sub(result.Spent)
	return result
}

// sortedCategories returns the union of the keys of both maps in ascending
// byte order.
func sortedCategories(a, b map[string]decimal.Decimal) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}

	categories := make([]string, 0, len(seen))
	for k := range seen {
		categories = append(categories, k)
	}
	sort.Strings(categories)
	return categories
}
