package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/fintrack-api/internal/api/shared"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"
	"github.com/phrazzld/fintrack-api/internal/service"
)

// Bounds of the count parameter of GET /dashboard/recent.
const (
	DefaultRecentCount = 5
	MaxRecentCount     = 20
)

// DashboardHandler serves the dashboard widgets.
type DashboardHandler struct {
	txService service.TransactionService
	logger    *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(txService service.TransactionService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DashboardHandler")
	}

	return &DashboardHandler{
		txService: txService,
		logger:    logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Recent handles GET /dashboard/recent.
func (h *DashboardHandler) Recent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	count, err := parseIntQuery(r, "count", DefaultRecentCount, 1, MaxRecentCount)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	txs, err := h.txService.Recent(r.Context(), userID, count)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load recent transactions")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RecentTransactionsResponse{
		Recent: newTransactionResponses(txs),
	})
}
