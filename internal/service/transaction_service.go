package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/events"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"
	"github.com/phrazzld/fintrack-api/internal/store"
	"github.com/shopspring/decimal"
)

// TransactionInput carries every writable field of a transaction.
type TransactionInput struct {
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Type        domain.TransactionType
	Date        time.Time
	Description *string
}

// TransactionService manages a user's transactions. A transaction owned by
// another user is reported as store.ErrTransactionNotFound.
type TransactionService interface {
	Create(ctx context.Context, userID uuid.UUID, input TransactionInput) (*domain.Transaction, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)

	// List returns one page, newest first, and the user's total count.
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, int, error)

	// Recent returns the user's latest count transactions.
	Recent(ctx context.Context, userID uuid.UUID, count int) ([]*domain.Transaction, error)

	// Replace overwrites every writable field. A nil description clears it.
	Replace(ctx context.Context, userID, id uuid.UUID, input TransactionInput) (*domain.Transaction, error)

	// Patch updates only the fields set in patch.
	Patch(ctx context.Context, userID, id uuid.UUID, patch domain.TransactionPatch) (*domain.Transaction, error)

	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type transactionService struct {
	txStore store.TransactionStore
	db      *sql.DB
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewTransactionService creates a TransactionService. Updates run inside a
// database transaction on db with the row locked.
func NewTransactionService(
	txStore store.TransactionStore,
	db *sql.DB,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (TransactionService, error) {
	if txStore == nil {
		return nil, fmt.Errorf("txStore cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &transactionService{
		txStore: txStore,
		db:      db,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "transaction_service")),
	}, nil
}

func (s *transactionService) Create(
	ctx context.Context,
	userID uuid.UUID,
	input TransactionInput,
) (*domain.Transaction, error) {
	tx, err := domain.NewTransaction(
		userID,
		input.Amount,
		input.Currency,
		input.Category,
		input.Type,
		input.Date,
		input.Description,
	)
	if err != nil {
		return nil, invalidInput(err)
	}

	if err := s.txStore.Create(ctx, tx); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create transaction",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("transaction", "create", err)
	}

	emit(ctx, s.emitter, s.logger, events.TransactionCreated, userID, tx)
	return tx, nil
}

func (s *transactionService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	tx, err := s.txStore.GetByID(ctx, userID, id)
	if err != nil {
		return nil, NewServiceError("transaction", "get", err)
	}
	return tx, nil
}

func (s *transactionService) List(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Transaction, int, error) {
	if limit <= 0 || offset < 0 {
		return nil, 0, invalidInput(domain.ErrInvalidFormat)
	}

	txs, total, err := s.txStore.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, NewServiceError("transaction", "list", err)
	}
	return txs, total, nil
}

func (s *transactionService) Recent(ctx context.Context, userID uuid.UUID, count int) ([]*domain.Transaction, error) {
	txs, _, err := s.List(ctx, userID, count, 0)
	return txs, err
}

func (s *transactionService) Replace(
	ctx context.Context,
	userID, id uuid.UUID,
	input TransactionInput,
) (*domain.Transaction, error) {
	description := ""
	if input.Description != nil {
		description = *input.Description
	}
	patch := domain.TransactionPatch{
		Amount:      &input.Amount,
		Currency:    &input.Currency,
		Category:    &input.Category,
		Type:        &input.Type,
		Date:        &input.Date,
		Description: &description,
	}
	return s.update(ctx, userID, id, patch, "replace")
}

func (s *transactionService) Patch(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.TransactionPatch,
) (*domain.Transaction, error) {
	return s.update(ctx, userID, id, patch, "patch")
}

func (s *transactionService) update(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.TransactionPatch,
	op string,
) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Transaction
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, dbTx *sql.Tx) error {
		txStore := s.txStore.WithTx(dbTx)

		current, err := txStore.GetForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}

		if err := current.Apply(patch); err != nil {
			return invalidInput(err)
		}

		if err := txStore.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to update transaction",
				slog.String("error", err.Error()),
				slog.String("transaction_id", id.String()))
		}
		return nil, NewServiceError("transaction", op, err)
	}

	emit(ctx, s.emitter, s.logger, events.TransactionUpdated, userID, updated)
	return updated, nil
}

func (s *transactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.txStore.Delete(ctx, userID, id); err != nil {
		return NewServiceError("transaction", "delete", err)
	}

	emit(ctx, s.emitter, s.logger, events.TransactionDeleted, userID, map[string]string{"id": id.String()})
	return nil
}

// emit publishes a change event. The write it describes has already
// succeeded, so a failure is logged and not returned.
func emit(
	ctx context.Context,
	emitter events.EventEmitter,
	fallback *slog.Logger,
	eventType string,
	userID uuid.UUID,
	payload interface{},
) {
	log := logger.FromContextOrDefault(ctx, fallback)

	event, err := events.NewEvent(eventType, userID, payload)
	if err != nil {
		log.Error("failed to build event",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType))
		return
	}

	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit event",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType),
			slog.String("event_id", event.ID.String()))
	}
}
