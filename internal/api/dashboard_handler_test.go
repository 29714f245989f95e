package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler_Recent(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{name: "default count", wantStatus: http.StatusOK, wantCount: 5},
		{name: "max count", query: "?count=20", wantStatus: http.StatusOK, wantCount: 20},
		{name: "count too large", query: "?count=21", wantStatus: http.StatusBadRequest},
		{name: "count zero", query: "?count=0", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockTransactionService{
				RecentFn: func(_ context.Context, _ uuid.UUID, count int) ([]*domain.Transaction, error) {
					assert.Equal(t, tt.wantCount, count)
					return []*domain.Transaction{sampleTransaction(userID)}, nil
				},
			}
			h := NewDashboardHandler(svc, discardLogger())
			router := authenticatedRouter(userID, func(r chi.Router) {
				r.Get("/dashboard/recent", h.Recent)
			})

			rr := doRequest(t, router, http.MethodGet, "/dashboard/recent"+tt.query, "")

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var resp RecentTransactionsResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Len(t, resp.Recent, 1)
			}
		})
	}
}
