package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/mocks"
	"github.com/phrazzld/fintrack-api/internal/service"
	"github.com/phrazzld/fintrack-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budgetRouter(userID uuid.UUID, svc service.BudgetService, now time.Time) http.Handler {
	h := NewBudgetHandler(svc, time.UTC, discardLogger())
	h.now = func() time.Time { return now }
	return authenticatedRouter(userID, func(r chi.Router) {
		r.Get("/budgets", h.List)
		r.Put("/budgets/{category}", h.Put)
		r.Delete("/budgets/{category}", h.Delete)
	})
}

func TestBudgetHandler_List(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     string
		wantMonth time.Time
		wantJSON  string
	}{
		{
			name:      "current month",
			wantMonth: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantJSON:  `{"month":"2024-03","budgets":[{"category":"Food","amount":200}]}`,
		},
		{
			name:      "explicit month",
			query:     "?month=2023-12",
			wantMonth: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			wantJSON:  `{"month":"2023-12","budgets":[{"category":"Food","amount":200}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockBudgetService{
				ListFn: func(_ context.Context, _ uuid.UUID, month time.Time) ([]*domain.Budget, error) {
					assert.True(t, tt.wantMonth.Equal(month), "month %v", month)
					return []*domain.Budget{{Category: "Food", Amount: decimal.NewFromInt(200)}}, nil
				},
			}

			rr := doRequest(t, budgetRouter(userID, svc, now), http.MethodGet, "/budgets"+tt.query, "")

			require.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, tt.wantJSON, rr.Body.String())
		})
	}

	t.Run("empty month lists no budgets", func(t *testing.T) {
		rr := doRequest(t, budgetRouter(userID, &mocks.MockBudgetService{}, now), http.MethodGet, "/budgets", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"month":"2024-03","budgets":[]}`, rr.Body.String())
	})

	t.Run("malformed month", func(t *testing.T) {
		rr := doRequest(t, budgetRouter(userID, &mocks.MockBudgetService{}, now), http.MethodGet, "/budgets?month=March", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestBudgetHandler_Put(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("upserts escaped category", func(t *testing.T) {
		svc := &mocks.MockBudgetService{
			SetFn: func(_ context.Context, gotUser uuid.UUID, month time.Time, category string, amount decimal.Decimal) (*domain.Budget, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, "Eating Out", category)
				return domain.NewBudget(gotUser, month, category, amount)
			},
		}

		rr := doRequest(t, budgetRouter(userID, svc, now), http.MethodPut,
			"/budgets/Eating%20Out?month=2024-04", `{"amount":"150.00"}`)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var resp BudgetResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "2024-04", resp.Month)
		assert.Equal(t, "Eating Out", resp.Category)
		assert.Equal(t, json.Number("150"), resp.Amount)
	})

	t.Run("negative amount", func(t *testing.T) {
		svc := &mocks.MockBudgetService{
			SetFn: func(_ context.Context, gotUser uuid.UUID, month time.Time, category string, amount decimal.Decimal) (*domain.Budget, error) {
				_, err := domain.NewBudget(gotUser, month, category, amount)
				return nil, fmt.Errorf("%w: %w", service.ErrInvalidInput, err)
			},
		}

		rr := doRequest(t, budgetRouter(userID, svc, now), http.MethodPut, "/budgets/Food", `{"amount":-1}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Amount cannot be negative", decodeError(t, rr))
	})

	t.Run("missing amount", func(t *testing.T) {
		rr := doRequest(t, budgetRouter(userID, &mocks.MockBudgetService{}, now), http.MethodPut, "/budgets/Food", `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid amount: required field", decodeError(t, rr))
	})
}

func TestBudgetHandler_Delete(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	svc := &mocks.MockBudgetService{
		DeleteFn: func(_ context.Context, _ uuid.UUID, month time.Time, category string) error {
			if category != "Food" {
				return service.NewServiceError("budget", "delete", store.ErrBudgetNotFound)
			}
			assert.Equal(t, time.March, month.Month())
			return nil
		},
	}
	router := budgetRouter(userID, svc, now)

	rr := doRequest(t, router, http.MethodDelete, "/budgets/Food", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doRequest(t, router, http.MethodDelete, "/budgets/Travel", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Budget not found", decodeError(t, rr))
}
