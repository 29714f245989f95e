package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
)

// TransactionStore persists financial transactions. Every method is scoped
// to a user: a transaction owned by someone else behaves as if it did not exist.
type TransactionStore interface {
	// Create saves a new transaction.
	Create(ctx context.Context, tx *domain.Transaction) error

	// GetByID retrieves one of the user's transactions.
	// Returns ErrTransactionNotFound if it does not exist or is not owned by userID.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)

	// GetForUpdate is GetByID that also locks the row until the surrounding
	// database transaction ends. Use it on a store obtained from WithTx.
	GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)

	// List returns a page of the user's transactions, newest first, together
	// with the total number of transactions the user owns.
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, int, error)

	// ListBetween returns every transaction of the user dated in [start, end).
	// Order is unspecified.
	ListBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error)

	// Update replaces the mutable fields of an existing transaction.
	// Returns ErrTransactionNotFound if it does not exist or is not owned by the user.
	Update(ctx context.Context, tx *domain.Transaction) error

	// Delete removes one of the user's transactions.
	// Returns ErrTransactionNotFound if it does not exist or is not owned by userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a new TransactionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TransactionStore
}
