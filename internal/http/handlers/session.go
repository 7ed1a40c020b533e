package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/nba-playoffs-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/session"
)

// SessionHandler exposes the detail-view session.
type SessionHandler struct {
	session *session.Session
	logger  *slog.Logger
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(s *session.Session, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{session: s, logger: logger}
}

func (h *SessionHandler) View(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.View(), h.logger)
}

func (h *SessionHandler) OpenSeries(w http.ResponseWriter, r *http.Request) {
	view, err := h.session.OpenSeries(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view, h.logger)
}

func (h *SessionHandler) CloseSeries(w http.ResponseWriter, r *http.Request) {
	if err := h.session.CloseSeries(); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) OpenGame(w http.ResponseWriter, r *http.Request) {
	detail, err := h.session.OpenGame(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, detail, h.logger)
}

// CloseGame closes the game view and returns the session with the open series
// re-resolved.
func (h *SessionHandler) CloseGame(w http.ResponseWriter, r *http.Request) {
	if err := h.session.CloseGame(r.Context()); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.session.View(), h.logger)
}

type dismissRequest struct {
	Reason session.DismissReason `json:"reason"`
}

type dismissResponse struct {
	Closed  session.Closed `json:"closed"`
	Session session.View   `json:"session"`
}

func (h *SessionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	var body dismissRequest
	if err := requestutil.DecodeBody(r, &body); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	closed, err := h.session.Dismiss(r.Context(), body.Reason)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dismissResponse{Closed: closed, Session: h.session.View()}, h.logger)
}
