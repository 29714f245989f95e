package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/domain/analytics"
	"github.com/phrazzld/fintrack-api/internal/service"
	"github.com/shopspring/decimal"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the user login endpoint. The same
// fields are accepted as an OAuth2 password grant form.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	UserID      uuid.UUID `json:"user_id"`
}

// TransactionRequest is the body of POST and PUT /transactions.
// Amount accepts a JSON number or a decimal string.
type TransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount"      validate:"required"`
	Currency    string           `json:"currency"    validate:"required,len=3"`
	Category    string           `json:"category"    validate:"required,max=100"`
	Type        string           `json:"type"        validate:"required,oneof=income expense"`
	Date        *time.Time       `json:"date"        validate:"required"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
}

func (req *TransactionRequest) toInput() service.TransactionInput {
	return service.TransactionInput{
		Amount:      *req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Type:        domain.TransactionType(req.Type),
		Date:        *req.Date,
		Description: req.Description,
	}
}

// TransactionPatchRequest is the body of PATCH /transactions/{id}.
// Absent fields are left unchanged; an empty description clears it.
type TransactionPatchRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency"    validate:"omitempty,len=3"`
	Category    *string          `json:"category"    validate:"omitempty,max=100"`
	Type        *string          `json:"type"        validate:"omitempty,oneof=income expense"`
	Date        *time.Time       `json:"date"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
}

func (req *TransactionPatchRequest) toPatch() domain.TransactionPatch {
	patch := domain.TransactionPatch{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Date:        req.Date,
		Description: req.Description,
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		patch.Type = &t
	}
	return patch
}

// TransactionResponse is the JSON form of a transaction.
type TransactionResponse struct {
	ID          uuid.UUID   `json:"id"`
	Amount      json.Number `json:"amount"`
	Currency    string      `json:"currency"`
	Category    string      `json:"category"`
	Type        string      `json:"type"`
	Date        time.Time   `json:"date"`
	Description *string     `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TransactionListResponse is one page of GET /transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// RecentTransactionsResponse is the body of GET /dashboard/recent.
type RecentTransactionsResponse struct {
	Recent []TransactionResponse `json:"recent"`
}

// BudgetRequest is the body of PUT /budgets/{category}.
type BudgetRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

// BudgetResponse is one category budget.
type BudgetResponse struct {
	Month    string      `json:"month"`
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
}

// BudgetItem is a category budget inside a month listing.
type BudgetItem struct {
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
}

// BudgetListResponse is the body of GET /budgets.
type BudgetListResponse struct {
	Month   string       `json:"month"`
	Budgets []BudgetItem `json:"budgets"`
}

// CategoryTotalResponse is one row of the category summary.
type CategoryTotalResponse struct {
	Category   string      `json:"category"`
	TotalSpent json.Number `json:"total_spent"`
}

// CategorySummaryResponse is the body of GET /categories/summary.
type CategorySummaryResponse struct {
	Categories []CategoryTotalResponse `json:"categories"`
}

// CategoryBreakdownResponse is one category of the budget analytics.
type CategoryBreakdownResponse struct {
	Category string      `json:"category"`
	Spent    json.Number `json:"spent"`
	Budgeted json.Number `json:"budgeted"`
}

// BudgetAnalyticsResponse is the body of GET /analytics/budget.
type BudgetAnalyticsResponse struct {
	Budgeted          json.Number                 `json:"budgeted"`
	Spent             json.Number                 `json:"spent"`
	Remaining         json.Number                 `json:"remaining"`
	CategoryBreakdown []CategoryBreakdownResponse `json:"category_breakdown"`
}

// amount renders a decimal as an exact JSON number.
func amount(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func newTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Amount:      amount(tx.Amount),
		Currency:    tx.Currency,
		Category:    tx.Category,
		Type:        string(tx.Type),
		Date:        tx.Date,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func newTransactionResponses(txs []*domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, newTransactionResponse(tx))
	}
	return out
}

func newBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		Month:    domain.FormatMonth(b.Month),
		Category: b.Category,
		Amount:   amount(b.Amount),
	}
}

func newBudgetListResponse(month time.Time, budgets []*domain.Budget) BudgetListResponse {
	items := make([]BudgetItem, 0, len(budgets))
	for _, b := range budgets {
		items = append(items, BudgetItem{Category: b.Category, Amount: amount(b.Amount)})
	}
	return BudgetListResponse{
		Month:   domain.FormatMonth(domain.MonthLabel(month)),
		Budgets: items,
	}
}

func newCategorySummaryResponse(totals []analytics.CategoryTotal) CategorySummaryResponse {
	out := make([]CategoryTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, CategoryTotalResponse{Category: t.Category, TotalSpent: amount(t.TotalSpent)})
	}
	return CategorySummaryResponse{Categories: out}
}

func newBudgetAnalyticsResponse(a *analytics.BudgetAnalytics) BudgetAnalyticsResponse {
	breakdown := make([]CategoryBreakdownResponse, 0, len(a.Breakdown))
	for _, c := range a.Breakdown {
		breakdown = append(breakdown, CategoryBreakdownResponse{
			Category: c.Category,
			Spent:    amount(c.Spent),
			Budgeted: amount(c.Budgeted),
		})
	}
	return BudgetAnalyticsResponse{
		Budgeted:          amount(a.Budgeted),
		Spent:             amount(a.Spent),
		Remaining:         amount(a.Remaining),
		CategoryBreakdown: breakdown,
	}
}
