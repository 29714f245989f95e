package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/fintrack-api/internal/api/shared"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"
	"github.com/phrazzld/fintrack-api/internal/service"
)

// BudgetHandler handles the /budgets endpoints. Months default to the
// current month in the configured timezone.
type BudgetHandler struct {
	budgetService service.BudgetService
	loc           *time.Location
	now           func() time.Time
	logger        *slog.Logger
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService service.BudgetService, loc *time.Location, logger *slog.Logger) *BudgetHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BudgetHandler")
	}
	if loc == nil {
		loc = time.UTC
	}

	return &BudgetHandler{
		budgetService: budgetService,
		loc:           loc,
		now:           time.Now,
		logger:        logger.With(slog.String("component", "budget_handler")),
	}
}

// List handles GET /budgets.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	month, err := parseMonth(r, h.now(), h.loc)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	budgets, err := h.budgetService.List(r.Context(), userID, month)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list budgets")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newBudgetListResponse(month, budgets))
}

// Put handles PUT /budgets/{category}.
func (h *BudgetHandler) Put(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	month, err := parseMonth(r, h.now(), h.loc)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req BudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	budget, err := h.budgetService.Set(r.Context(), userID, month, categoryParam(r), *req.Amount)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save budget")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newBudgetResponse(budget))
}

// Delete handles DELETE /budgets/{category}.
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	month, err := parseMonth(r, h.now(), h.loc)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	category := strings.TrimSpace(categoryParam(r))
	if category == "" {
		HandleAPIError(w, r, domain.NewValidationError("category", "cannot be empty", domain.ErrEmptyCategory), "")
		return
	}

	if err := h.budgetService.Delete(r.Context(), userID, month, category); err != nil {
		HandleAPIError(w, r, err, "Failed to delete budget")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// categoryParam returns the decoded {category} path segment. Category
// labels may contain spaces and other escaped characters.
func categoryParam(r *http.Request) string {
	raw := chi.URLParam(r, "category")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
