package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nba-playoffs-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-playoffs-service/internal/logging"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/bracket"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/roster"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/session"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/simulation"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers"
	"github.com/preston-bernstein/nba-playoffs-service/internal/snapshots"
)

// statusFor maps an error from the playoff core onto an HTTP status.
func statusFor(err error) int {
	if _, ok := roster.AsRejection(err); ok {
		return http.StatusUnprocessableEntity
	}
	if _, ok := simulation.AsEngineError(err); ok {
		return http.StatusBadGateway
	}
	if _, ok := simulation.AsRefreshError(err); ok {
		return http.StatusServiceUnavailable
	}
	switch {
	case errors.Is(err, bracket.ErrSeriesNotFound),
		errors.Is(err, session.ErrGameNotFound),
		errors.Is(err, providers.ErrNotFound),
		errors.Is(err, snapshots.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSeriesPending):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrSimulationInProgress),
		errors.Is(err, simulation.ErrSeriesNotActive),
		errors.Is(err, simulation.ErrNoUserGame):
		return http.StatusConflict
	case errors.Is(err, simulation.ErrSeriesRequired),
		errors.Is(err, simulation.ErrUnknownScope),
		errors.Is(err, session.ErrUnknownReason),
		errors.Is(err, requestutil.ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, simulation.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError renders err with its mapped status. Roster rejections carry
// their kind and remediation hint as details.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Warn(loggerFromContext(r, logger), "request failed", "error", err, logging.FieldStatusCode, status)
	}
	if rej, ok := roster.AsRejection(err); ok {
		writeErrorDetails(w, r, status, rej.Message, rej, logger)
		return
	}
	if status == http.StatusInternalServerError {
		writeError(w, r, status, "internal error", logger)
		return
	}
	writeError(w, r, status, err.Error(), logger)
}
