package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/fintrack-api/internal/api/shared"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"
	"github.com/phrazzld/fintrack-api/internal/service"
)

// Paging limits for GET /transactions.
const (
	DefaultTransactionLimit = 20
	MaxTransactionLimit     = 100
)

// TransactionHandler handles the /transactions endpoints.
type TransactionHandler struct {
	txService service.TransactionService
	logger    *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txService service.TransactionService, logger *slog.Logger) *TransactionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TransactionHandler")
	}

	return &TransactionHandler{
		txService: txService,
		logger:    logger.With(slog.String("component", "transaction_handler")),
	}
}

// List handles GET /transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	limit, err := parseIntQuery(r, "limit", DefaultTransactionLimit, 1, MaxTransactionLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	offset, err := parseIntQuery(r, "offset", 0, 0, noUpperBound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	txs, total, err := h.txService.List(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list transactions")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TransactionListResponse{
		Transactions: newTransactionResponses(txs),
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	})
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req TransactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tx, err := h.txService.Create(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create transaction")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newTransactionResponse(tx))
}

// Get handles GET /transactions/{id}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	tx, err := h.txService.Get(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get transaction")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTransactionResponse(tx))
}

// Replace handles PUT /transactions/{id}. Every field is required.
func (h *TransactionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req TransactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tx, err := h.txService.Replace(r.Context(), userID, id, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update transaction")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTransactionResponse(tx))
}

// Patch handles PATCH /transactions/{id}.
func (h *TransactionHandler) Patch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req TransactionPatchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tx, err := h.txService.Patch(r.Context(), userID, id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update transaction")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTransactionResponse(tx))
}

// Delete handles DELETE /transactions/{id}.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.txService.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeAndValidate decodes the JSON body into v and validates it, writing
// a 400 and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
