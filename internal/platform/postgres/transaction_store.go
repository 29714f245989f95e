package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"
	"github.com/phrazzld/fintrack-api/internal/store"
)

const transactionColumns = `id, user_id, amount, currency, category, type, date, description, created_at, updated_at`

// PostgresTransactionStore implements the store.TransactionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTransactionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTransactionStore creates a new PostgreSQL implementation of the
// TransactionStore interface. If logger is nil, a default logger will be used.
func NewPostgresTransactionStore(db store.DBTX, logger *slog.Logger) *PostgresTransactionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTransactionStore{
		db:     db,
		logger: logger.With(slog.String("component", "transaction_store")),
	}
}

// Ensure PostgresTransactionStore implements store.TransactionStore interface
var _ store.TransactionStore = (*PostgresTransactionStore)(nil)

// Create implements store.TransactionStore.Create.
func (s *PostgresTransactionStore) Create(ctx context.Context, tx *domain.Transaction) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tx.Validate(); err != nil {
		log.Warn("transaction validation failed during create",
			slog.String("error", err.Error()),
			slog.String("transaction_id", tx.ID.String()))
		return err
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Amount,
		tx.Currency,
		tx.Category,
		tx.Type,
		tx.Date,
		nullString(tx.Description),
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create transaction",
			slog.String("error", err.Error()),
			slog.String("transaction_id", tx.ID.String()),
			slog.String("user_id", tx.UserID.String()))
		return MapError(err)
	}

	log.Debug("transaction created",
		slog.String("transaction_id", tx.ID.String()),
		slog.String("user_id", tx.UserID.String()))
	return nil
}

// GetByID implements store.TransactionStore.GetByID.
func (s *PostgresTransactionStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	return s.getOne(ctx, query, id, userID)
}

// GetForUpdate is GetByID with a row lock held until the surrounding
// database transaction ends. It must be called on a store returned by WithTx.
func (s *PostgresTransactionStore) GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2 FOR UPDATE`
	return s.getOne(ctx, query, id, userID)
}

func (s *PostgresTransactionStore) getOne(ctx context.Context, query string, id, userID uuid.UUID) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("transaction not found", slog.String("transaction_id", id.String()))
			return nil, store.ErrTransactionNotFound
		}
		log.Error("failed to get transaction",
			slog.String("error", err.Error()),
			slog.String("transaction_id", id.String()))
		return nil, MapError(err)
	}
	return tx, nil
}

// List implements store.TransactionStore.List.
func (s *PostgresTransactionStore) List(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Transaction, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		log.Error("failed to count transactions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	txs, err := s.query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	log.Debug("listed transactions",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(txs)),
		slog.Int("total", total))
	return txs, total, nil
}

// ListBetween implements store.TransactionStore.ListBetween.
func (s *PostgresTransactionStore) ListBetween(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`
	return s.query(ctx, query, userID, start, end)
}

func (s *PostgresTransactionStore) query(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query transactions", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	txs := []*domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			log.Error("failed to scan transaction row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return txs, nil
}

// Update implements store.TransactionStore.Update.
func (s *PostgresTransactionStore) Update(ctx context.Context, tx *domain.Transaction) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tx.Validate(); err != nil {
		log.Warn("transaction validation failed during update",
			slog.String("error", err.Error()),
			slog.String("transaction_id", tx.ID.String()))
		return err
	}

	query := `
		UPDATE transactions
		SET amount = $1, currency = $2, category = $3, type = $4, date = $5,
		    description = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
	`
	result, err := s.db.ExecContext(ctx, query,
		tx.Amount,
		tx.Currency,
		tx.Category,
		tx.Type,
		tx.Date,
		nullString(tx.Description),
		tx.UpdatedAt,
		tx.ID,
		tx.UserID,
	)
	if err != nil {
		log.Error("failed to update transaction",
			slog.String("error", err.Error()),
			slog.String("transaction_id", tx.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTransactionNotFound)
}

// Delete implements store.TransactionStore.Delete.
func (s *PostgresTransactionStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		log.Error("failed to delete transaction",
			slog.String("error", err.Error()),
			slog.String("transaction_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTransactionNotFound); err != nil {
		return err
	}

	log.Debug("transaction deleted", slog.String("transaction_id", id.String()))
	return nil
}

// WithTx implements store.TransactionStore.WithTx.
func (s *PostgresTransactionStore) WithTx(tx *sql.Tx) store.TransactionStore {
	return &PostgresTransactionStore{
		db:     tx,
		logger: s.logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		tx          domain.Transaction
		txType      string
		description sql.NullString
	)
	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Amount,
		&tx.Currency,
		&tx.Category,
		&txType,
		&tx.Date,
		&description,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Type = domain.TransactionType(txType)
	tx.Date = tx.Date.UTC()
	if description.Valid {
		d := description.String
		tx.Description = &d
	}
	return &tx, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
