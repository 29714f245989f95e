package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/fintrack-api/internal/api/shared"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"
	"github.com/phrazzld/fintrack-api/internal/service"
)

// AnalyticsHandler serves the read-only spending analytics.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	loc              *time.Location
	now              func() time.Time
	logger           *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler. loc decides the
// default month when a request names no period.
func NewAnalyticsHandler(
	analyticsService service.AnalyticsService,
	loc *time.Location,
	logger *slog.Logger,
) *AnalyticsHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AnalyticsHandler")
	}
	if loc == nil {
		loc = time.UTC
	}

	return &AnalyticsHandler{
		analyticsService: analyticsService,
		loc:              loc,
		now:              time.Now,
		logger:           logger.With(slog.String("component", "analytics_handler")),
	}
}

// CategorySummary handles GET /categories/summary.
func (h *AnalyticsHandler) CategorySummary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	period, err := parsePeriod(r, h.now(), h.loc)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	totals, err := h.analyticsService.SummarizeCategories(r.Context(), userID, period)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to summarize categories")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newCategorySummaryResponse(totals))
}

// BudgetAnalytics handles GET /analytics/budget. For a start/end range the
// budget of every month the range touches counts in full.
func (h *AnalyticsHandler) BudgetAnalytics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	period, err := parsePeriod(r, h.now(), h.loc)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.analyticsService.ComputeBudgetAnalytics(r.Context(), userID, period)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute budget analytics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newBudgetAnalyticsResponse(result))
}
