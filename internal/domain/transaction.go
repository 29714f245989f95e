package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction validation errors
var (
	ErrEmptyTransactionID   = errors.New("transaction ID cannot be empty")
	ErrEmptyCategory        = errors.New("category cannot be empty")
	ErrCategoryTooLong      = errors.New("category must be at most 100 characters")
	ErrInvalidTransactionTy = errors.New("type must be either income or expense")
	ErrEmptyDate            = errors.New("date cannot be empty")
	ErrDescriptionTooLong   = errors.New("description must be at most 500 characters")
)

const (
	maxCategoryLength    = 100
	maxDescriptionLength = 500
)

// TransactionType classifies a transaction as money in or money out.
type TransactionType string

// Supported transaction types.
const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the supported values.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single dated movement of money owned by a user.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Date        time.Time       `json:"date"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewTransaction creates a validated Transaction with a fresh ID.
func NewTransaction(
	userID uuid.UUID,
	amount decimal.Decimal,
	currency string,
	category string,
	txType TransactionType,
	date time.Time,
	description *string,
) (*Transaction, error) {
	now := time.Now().UTC()
	tx := &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Currency:    currency,
		Category:    category,
		Type:        txType,
		Date:        date,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.normalize(); err != nil {
		return nil, err
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

func (t *Transaction) normalize() error {
	t.Category = strings.TrimSpace(t.Category)
	t.Type = TransactionType(strings.ToLower(strings.TrimSpace(string(t.Type))))
	if !t.Date.IsZero() {
		t.Date = t.Date.UTC()
	}
	if t.Description != nil {
		d := strings.TrimSpace(*t.Description)
		if d == "" {
			t.Description = nil
		} else {
			t.Description = &d
		}
	}
	currency, err := NormalizeCurrency(t.Currency)
	if err != nil {
		return NewValidationError("currency", "must be a 3-letter ISO 4217 code", ErrInvalidCurrency)
	}
	t.Currency = currency
	return nil
}

// Validate checks that the transaction is well formed.
func (t *Transaction) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTransactionID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if _, err := NormalizeCurrency(t.Currency); err != nil {
		return NewValidationError("currency", "must be a 3-letter ISO 4217 code", ErrInvalidCurrency)
	}
	if t.Category == "" {
		return NewValidationError("category", "cannot be empty", ErrEmptyCategory)
	}
	if len(t.Category) > maxCategoryLength {
		return NewValidationError("category", "must be at most 100 characters", ErrCategoryTooLong)
	}
	if !t.Type.Valid() {
		return NewValidationError("type", "must be either income or expense", ErrInvalidTransactionTy)
	}
	if t.Date.IsZero() {
		return NewValidationError("date", "cannot be empty", ErrEmptyDate)
	}
	if t.Description != nil && len(*t.Description) > maxDescriptionLength {
		return NewValidationError("description", "must be at most 500 characters", ErrDescriptionTooLong)
	}
	return nil
}

// SpentAmount returns how much this transaction contributes to spending.
// Expenses count by magnitude regardless of the sign they were recorded
// with; income never counts.
func (t *Transaction) SpentAmount() decimal.Decimal {
	if t.Type != TransactionTypeExpense {
		return decimal.Zero
	}
	return t.Amount.Abs()
}

// TransactionPatch holds optional field updates for a partial update.
// Nil fields are left unchanged.
type TransactionPatch struct {
	Amount      *decimal.Decimal
	Currency    *string
	Category    *string
	Type        *TransactionType
	Date        *time.Time
	Description *string
}

// Apply merges the patch into the transaction and revalidates it.
// On error the transaction is left untouched.
func (t *Transaction) Apply(p TransactionPatch) error {
	updated := *t
	if p.Amount != nil {
		updated.Amount = *p.Amount
	}
	if p.Currency != nil {
		updated.Currency = *p.Currency
	}
	if p.Category != nil {
		updated.Category = *p.Category
	}
	if p.Type != nil {
		updated.Type = *p.Type
	}
	if p.Date != nil {
		updated.Date = *p.Date
	}
	if p.Description != nil {
		d := *p.Description
		updated.Description = &d
	}
	if err := updated.normalize(); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = time.Now().UTC()
	*t = updated
	return nil
}
