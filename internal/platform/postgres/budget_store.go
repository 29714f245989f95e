package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"
	"github.com/phrazzld/fintrack-api/internal/store"
)

// PostgresBudgetStore implements the store.BudgetStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBudgetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBudgetStore creates a new PostgreSQL implementation of the
// BudgetStore interface. If logger is nil, a default logger will be used.
func NewPostgresBudgetStore(db store.DBTX, logger *slog.Logger) *PostgresBudgetStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBudgetStore{
		db:     db,
		logger: logger.With(slog.String("component", "budget_store")),
	}
}

// Ensure PostgresBudgetStore implements store.BudgetStore interface
var _ store.BudgetStore = (*PostgresBudgetStore)(nil)

// Upsert implements store.BudgetStore.Upsert.
func (s *PostgresBudgetStore) Upsert(ctx context.Context, budget *domain.Budget) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := budget.Validate(); err != nil {
		log.Warn("budget validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("category", budget.Category))
		return err
	}

	query := `
		INSERT INTO budgets (user_id, month, category, amount, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, month, category)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		budget.UserID,
		budget.Month,
		budget.Category,
		budget.Amount,
		budget.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert budget",
			slog.String("error", err.Error()),
			slog.String("user_id", budget.UserID.String()),
			slog.String("category", budget.Category))
		return MapError(err)
	}

	log.Debug("budget saved",
		slog.String("user_id", budget.UserID.String()),
		slog.String("month", domain.FormatMonth(budget.Month)),
		slog.String("category", budget.Category))
	return nil
}

// ListForMonths implements store.BudgetStore.ListForMonths.
func (s *PostgresBudgetStore) ListForMonths(
	ctx context.Context,
	userID uuid.UUID,
	firstMonth, lastMonth time.Time,
) ([]*domain.Budget, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, month, category, amount, updated_at
		FROM budgets
		WHERE user_id = $1 AND month >= $2 AND month <= $3
		ORDER BY month, category
	`
	rows, err := s.db.QueryContext(ctx, query,
		userID,
		domain.MonthLabel(firstMonth),
		domain.MonthLabel(lastMonth),
	)
	if err != nil {
		log.Error("failed to query budgets",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	budgets := []*domain.Budget{}
	for rows.Next() {
		var b domain.Budget
		if err := rows.Scan(&b.UserID, &b.Month, &b.Category, &b.Amount, &b.UpdatedAt); err != nil {
			log.Error("failed to scan budget row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		b.Month = domain.MonthLabel(b.Month)
		budgets = append(budgets, &b)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return budgets, nil
}

// Delete implements store.BudgetStore.Delete.
func (s *PostgresBudgetStore) Delete(ctx context.Context, userID uuid.UUID, month time.Time, category string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE user_id = $1 AND month = $2 AND category = $3`,
		userID, domain.MonthLabel(month), category)
	if err != nil {
		log.Error("failed to delete budget",
			slog.String("error", err.Error()),
			slog.String("category", category))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrBudgetNotFound)
}

// WithTx implements store.BudgetStore.WithTx.
func (s *PostgresBudgetStore) WithTx(tx *sql.Tx) store.BudgetStore {
	return &PostgresBudgetStore{
		db:     tx,
		logger: s.logger,
	}
}
