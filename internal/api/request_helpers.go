package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/fintrack-api/internal/api/shared"
	"github.com/phrazzld/fintrack-api/internal/domain"
	"github.com/phrazzld/fintrack-api/internal/platform/logger"
)

// getUserIDFromContext extracts the authenticated user's UUID placed in the
// context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getPathUUID parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireUserID writes a 401 and returns false when the request carries no
// authenticated user.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathUUID extracts both the user ID and a UUID path
// parameter, writing an error response if either is missing or invalid.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Warn("invalid "+paramName, slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}

// noUpperBound disables the upper limit of parseIntQuery.
const noUpperBound = -1

// parseIntQuery reads an integer query parameter bounded to [lo, hi].
// An absent parameter yields def.
func parseIntQuery(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < lo || (hi != noUpperBound && value > hi) {
		msg := fmt.Sprintf("must be an integer between %d and %d", lo, hi)
		if hi == noUpperBound {
			msg = fmt.Sprintf("must be an integer of at least %d", lo)
		}
		return 0, domain.NewValidationError(name, msg, domain.ErrInvalidFormat)
	}
	return value, nil
}

// parsePeriod reads the analytics period from the query: month=YYYY-MM, or
// start and end as YYYY-MM-DD with end exclusive. Without either the
// current month in loc is used.
func parsePeriod(r *http.Request, now time.Time, loc *time.Location) (domain.Period, error) {
	q := r.URL.Query()
	month, start, end := q.Get("month"), q.Get("start"), q.Get("end")

	switch {
	case month != "" && (start != "" || end != ""):
		return domain.Period{}, fmt.Errorf("%w: use either month or start and end", domain.ErrInvalidPeriod)
	case month != "":
		return domain.ParseMonth(month, loc)
	case start != "" || end != "":
		if start == "" || end == "" {
			return domain.Period{}, fmt.Errorf("%w: start and end must be given together", domain.ErrInvalidPeriod)
		}
		return domain.ParseDateRange(start, end, loc)
	default:
		return domain.CurrentMonth(now, loc), nil
	}
}

// parseMonth reads month=YYYY-MM, defaulting to the current month in loc,
// and returns the first instant of that month.
func parseMonth(r *http.Request, now time.Time, loc *time.Location) (time.Time, error) {
	month := r.URL.Query().Get("month")
	if month == "" {
		return domain.CurrentMonth(now, loc).Start, nil
	}
	period, err := domain.ParseMonth(month, loc)
	if err != nil {
		return time.Time{}, err
	}
	return period.Start, nil
}
