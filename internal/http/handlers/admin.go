package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-playoffs-service/internal/logging"
	"github.com/preston-bernstein/nba-playoffs-service/internal/store"
	"github.com/preston-bernstein/nba-playoffs-service/internal/timeutil"
)

// Archiver writes a dated bracket snapshot.
type Archiver interface {
	Archive(ctx context.Context, b *playoffs.Bracket, date string) error
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	store    *store.MemoryStore
	archiver Archiver
	token    string
	logger   *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(st *store.MemoryStore, archiver Archiver, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		store:    st,
		archiver: archiver,
		token:    token,
		logger:   logger,
	}
}

// ArchiveBracket archives the current bracket under the requested date, defaulting
// to the campaign's current date. Guarded by ADMIN_TOKEN; returns 401 if missing or invalid.
func (h *AdminHandler) ArchiveBracket(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.store == nil || h.archiver == nil {
		writeError(w, r, http.StatusServiceUnavailable, "snapshot writer not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = h.store.Campaign().CurrentDate
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		logging.Warn(logger, "admin snapshot invalid date", slog.String(logging.FieldDate, date))
		writeError(w, r, http.StatusBadRequest, "invalid date format", logger)
		return
	}
	b := h.store.Bracket()
	if b == nil {
		writeError(w, r, http.StatusNotFound, "bracket not generated", logger)
		return
	}

	if err := h.archiver.Archive(r.Context(), b, date); err != nil {
		logging.Warn(logger, "admin snapshot write failed",
			slog.String(logging.FieldDate, date),
			slog.Any("err", err),
		)
		writeError(w, r, http.StatusInternalServerError, "failed to write snapshot", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"campaignId": b.CampaignID,
		"date":       date,
		"status":     "ok",
	}, logger)
	logging.Info(logger, "admin snapshot written", slog.String(logging.FieldDate, date))
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}
