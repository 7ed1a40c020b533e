package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
	"github.com/preston-bernstein/nba-playoffs-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-playoffs-service/internal/logging"
	"github.com/preston-bernstein/nba-playoffs-service/internal/notify"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/bracket"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/roster"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/simulation"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/status"
	"github.com/preston-bernstein/nba-playoffs-service/internal/snapshots"
	"github.com/preston-bernstein/nba-playoffs-service/internal/store"
	"github.com/preston-bernstein/nba-playoffs-service/internal/timeutil"
)

// Simulator runs simulate and play requests.
type Simulator interface {
	Simulate(ctx context.Context, req simulation.Request) (simulation.Outcome, error)
	Play(ctx context.Context, continueInProgress bool) (simulation.Outcome, error)
	Simulating() bool
}

// Feed lists delivered notifications.
type Feed interface {
	List() []notify.Notification
}

// Config wires a Handler. Feed and Snapshots are optional.
type Config struct {
	CampaignID string
	Store      *store.MemoryStore
	Simulator  Simulator
	Feed       Feed
	Snapshots  snapshots.Store
	Logger     *slog.Logger
}

// Handler serves the playoff read model and simulate actions.
type Handler struct {
	campaignID string
	store      *store.MemoryStore
	sim        Simulator
	feed       Feed
	snaps      snapshots.Store
	logger     *slog.Logger
	now        func() time.Time
}

// NewHandler constructs a Handler with defaults.
func NewHandler(cfg Config) *Handler {
	st := cfg.Store
	if st == nil {
		st = store.NewMemoryStore()
	}
	return &Handler{
		campaignID: cfg.CampaignID,
		store:      st,
		sim:        cfg.Simulator,
		feed:       cfg.Feed,
		snaps:      cfg.Snapshots,
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

type readyResponse struct {
	Status     string `json:"status"`
	CampaignID string `json:"campaignId"`
	Version    uint64 `json:"version"`
	Simulating bool   `json:"simulating"`
}

// Ready reports readiness once the campaign state has been loaded.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.store.Loaded() {
		writeError(w, r, http.StatusServiceUnavailable, "campaign state not loaded", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, readyResponse{
		Status:     "ready",
		CampaignID: h.campaignID,
		Version:    h.store.Version(),
		Simulating: h.simulating(),
	}, h.logger)
}

type bracketResponse struct {
	bracket.View
	CurrentDate string         `json:"currentDate"`
	Context     status.Context `json:"context"`
	Simulating  bool           `json:"simulating"`
}

// Bracket returns every series resolved against the current games.
func (h *Handler) Bracket(w http.ResponseWriter, r *http.Request) {
	b := h.store.Bracket()
	if b == nil {
		writeError(w, r, http.StatusNotFound, "bracket not generated", h.logger)
		return
	}
	view := bracket.Resolve(b, h.store.GameIndex())
	writeJSON(w, http.StatusOK, bracketResponse{
		View:        view,
		CurrentDate: h.store.Campaign().CurrentDate,
		Context:     h.viewerContext(),
		Simulating:  h.simulating(),
	}, h.logger)
}

type seriesResponse struct {
	Series  status.SeriesView `json:"series"`
	Summary string            `json:"summary"`
	Slots   []status.Slot     `json:"slots"`
}

// Series returns one series with its seven display slots.
func (h *Handler) Series(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	found, err := bracket.Find(h.store.Bracket(), id)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	view := status.ResolveSeries(found, h.store.GameIndex())
	writeJSON(w, http.StatusOK, seriesResponse{
		Series:  view,
		Summary: view.Summary(),
		Slots:   status.Slots(view, h.viewerContext()),
	}, h.logger)
}

type gameResponse struct {
	Game games.Game      `json:"game"`
	View status.GameView `json:"view"`
}

// GameByID returns a specific game if present.
func (h *Handler) GameByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || strings.ContainsAny(id, " \t") {
		writeError(w, r, http.StatusBadRequest, "invalid game id", h.logger)
		return
	}
	g, ok := h.store.Game(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "game not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{Game: g, View: status.ResolveGame(&g, h.viewerContext())}, h.logger)
}

type simulateRequest struct {
	Scope              string `json:"scope"`
	SeriesID           string `json:"seriesId"`
	ContinueInProgress bool   `json:"continueInProgress"`
}

type skippedResponse struct {
	Error   string           `json:"error"`
	Scope   simulation.Scope `json:"scope"`
	Skipped bool             `json:"skipped"`
}

// Simulate runs one simulate request. A request made while another simulation is
// outstanding is dropped with 409.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var body simulateRequest
	if err := requestutil.DecodeBody(r, &body); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	scope, err := simulation.ParseScope(body.Scope)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if h.sim == nil {
		writeError(w, r, http.StatusServiceUnavailable, "simulation not configured", h.logger)
		return
	}
	out, err := h.sim.Simulate(r.Context(), simulation.Request{
		Scope:              scope,
		SeriesID:           body.SeriesID,
		ContinueInProgress: body.ContinueInProgress,
	})
	h.writeOutcome(w, r, out, err)
}

type playRequest struct {
	ContinueInProgress bool `json:"continueInProgress"`
}

// Play plays the user's next game.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	var body playRequest
	if err := requestutil.DecodeBody(r, &body); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if h.sim == nil {
		writeError(w, r, http.StatusServiceUnavailable, "simulation not configured", h.logger)
		return
	}
	out, err := h.sim.Play(r.Context(), body.ContinueInProgress)
	h.writeOutcome(w, r, out, err)
}

func (h *Handler) writeOutcome(w http.ResponseWriter, r *http.Request, out simulation.Outcome, err error) {
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if out.Skipped {
		writeJSON(w, http.StatusConflict, skippedResponse{
			Error:   "simulation already running",
			Scope:   out.Scope,
			Skipped: true,
		}, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, out, h.logger)
}

type validateResponse struct {
	Legal     bool              `json:"legal"`
	Rejection *roster.Rejection `json:"rejection,omitempty"`
}

// ValidateRoster checks the posted roster, or the stored one when the body is empty.
func (h *Handler) ValidateRoster(w http.ResponseWriter, r *http.Request) {
	var posted players.Roster
	if err := requestutil.DecodeBody(r, &posted); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	target := posted
	if posted.TeamID == "" && len(posted.Players) == 0 {
		target = h.store.Roster()
	}
	rej := roster.Validate(target)
	writeJSON(w, http.StatusOK, validateResponse{Legal: rej == nil, Rejection: rej}, h.logger)
}

// Notifications lists delivered notifications, newest last.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	items := []notify.Notification{}
	if h.feed != nil {
		items = h.feed.List()
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": items}, h.logger)
}

// HistoryDates lists the dates with an archived bracket.
func (h *Handler) HistoryDates(w http.ResponseWriter, r *http.Request) {
	if h.snaps == nil {
		writeError(w, r, http.StatusServiceUnavailable, "snapshots not configured", h.logger)
		return
	}
	dates, err := h.snaps.Dates(h.campaignID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaignId": h.campaignID, "dates": dates}, h.logger)
}

// History returns the bracket archived for a date.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := timeutil.ParseDate(date); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)", h.logger)
		return
	}
	if h.snaps == nil {
		writeError(w, r, http.StatusServiceUnavailable, "snapshots not configured", h.logger)
		return
	}
	entry, err := h.snaps.LoadBracket(h.campaignID, date)
	if err != nil {
		if !errors.Is(err, snapshots.ErrSnapshotNotFound) {
			logging.Warn(loggerFromContext(r, h.logger), "snapshot load failed", logging.FieldDate, date, "error", err)
			writeError(w, r, http.StatusBadGateway, "snapshot unavailable", h.logger)
			return
		}
		writeDomainError(w, r, err, h.logger)
		return
	}
	logging.Info(loggerFromContext(r, h.logger), "served archived bracket", logging.FieldDate, date)
	writeJSON(w, http.StatusOK, entry, h.logger)
}

func (h *Handler) viewerContext() status.Context {
	return status.ContextFor(h.store.Games(), h.store.Campaign().UserTeamID)
}

func (h *Handler) simulating() bool {
	return h.sim != nil && h.sim.Simulating()
}
