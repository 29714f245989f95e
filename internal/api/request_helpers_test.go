package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/api/shared"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserIDFromContext(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		ctx        context.Context
		expectedID uuid.UUID
		expectedOK bool
	}{
		{"valid user ID", shared.WithUserID(context.Background(), userID), userID, true},
		{"missing user ID", context.Background(), uuid.Nil, false},
		{"nil user ID", shared.WithUserID(context.Background(), uuid.Nil), uuid.Nil, false},
		{"wrong type", context.WithValue(context.Background(), shared.UserIDContextKey, "not-a-uuid"), uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)
			got, ok := getUserIDFromContext(req)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedID, got)
		})
	}
}

func TestGetPathUUID(t *testing.T) {
	validID := uuid.New()

	tests := []struct {
		name      string
		param     string
		expectErr error
	}{
		{"valid", validID.String(), nil},
		{"missing", "", domain.ErrValidation},
		{"malformed", "not-a-uuid", domain.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.param)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := getPathUUID(req, "id")
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, validID, got)
		})
	}
}

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		hi      int
		want    int
		wantErr bool
	}{
		{name: "absent uses default", query: "", hi: 100, want: 20},
		{name: "in range", query: "limit=50", hi: 100, want: 50},
		{name: "lower bound", query: "limit=1", hi: 100, want: 1},
		{name: "upper bound", query: "limit=100", hi: 100, want: 100},
		{name: "too small", query: "limit=0", hi: 100, wantErr: true},
		{name: "too large", query: "limit=101", hi: 100, wantErr: true},
		{name: "not a number", query: "limit=ten", hi: 100, wantErr: true},
		{name: "unbounded", query: "limit=100000", hi: noUpperBound, want: 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/transactions?"+tt.query, nil)
			got, err := parseIntQuery(req, "limit", 20, 1, tt.hi)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePeriod(t *testing.T) {
	now := time.Date(2024, 3, 31, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name      string
		query     string
		loc       *time.Location
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "default is current month",
			loc:       time.UTC,
			wantStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "default follows configured timezone",
			loc:       tokyo,
			wantStart: time.Date(2024, 4, 1, 0, 0, 0, 0, tokyo),
			wantEnd:   time.Date(2024, 5, 1, 0, 0, 0, 0, tokyo),
		},
		{
			name:      "month",
			query:     "month=2024-02",
			loc:       time.UTC,
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "date range",
			query:     "start=2024-01-15&end=2024-02-15",
			loc:       time.UTC,
			wantStart: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{name: "malformed month", query: "month=2024-13", loc: time.UTC, wantErr: true},
		{name: "inverted range", query: "start=2024-02-01&end=2024-01-01", loc: time.UTC, wantErr: true},
		{name: "empty range", query: "start=2024-02-01&end=2024-02-01", loc: time.UTC, wantErr: true},
		{name: "start only", query: "start=2024-02-01", loc: time.UTC, wantErr: true},
		{name: "month and range", query: "month=2024-02&start=2024-02-01&end=2024-03-01", loc: time.UTC, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/analytics/budget?"+tt.query, nil)
			period, err := parsePeriod(req, now, tt.loc)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(period.Start), "start %v", period.Start)
			assert.True(t, tt.wantEnd.Equal(period.End), "end %v", period.End)
		})
	}
}
