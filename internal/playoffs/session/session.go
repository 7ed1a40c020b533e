// Package session tracks the series and game detail views a user has open.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/logging"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/bracket"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/status"
	"github.com/preston-bernstein/nba-playoffs-service/internal/store"
)

var (
	// ErrSeriesPending reports an attempt to open a series with no entrants yet.
	ErrSeriesPending = errors.New("series has no entrants yet")
	// ErrGameNotFound reports a game id missing from the game collection.
	ErrGameNotFound = errors.New("game not found")
	// ErrSimulationInProgress reports a close attempted while a simulation is outstanding.
	ErrSimulationInProgress = errors.New("simulation in progress")
	// ErrUnknownReason reports an unsupported dismissal reason.
	ErrUnknownReason = errors.New("unknown dismiss reason")
)

// DismissReason is how the user asked to close the topmost view.
type DismissReason string

const (
	ReasonEscape      DismissReason = "escape"
	ReasonOverlay     DismissReason = "overlay"
	ReasonCloseButton DismissReason = "close_button"
)

// Closed names the view a Dismiss call closed.
type Closed string

const (
	ClosedNone   Closed = ""
	ClosedGame   Closed = "game"
	ClosedSeries Closed = "series"
)

// Simulator is the part of the simulation orchestrator a session depends on.
type Simulator interface {
	Simulating() bool
	RefreshBoard(ctx context.Context) error
}

// GameDetail is an open game view.
type GameDetail struct {
	Game games.Game      `json:"game"`
	View status.GameView `json:"view"`
}

// View is the current state of a session.
type View struct {
	ID     string             `json:"id"`
	Series *status.SeriesView `json:"series,omitempty"`
	Game   *GameDetail        `json:"game,omitempty"`
}

// Session holds at most one open series view and one open game view. The two are
// independent: closing one leaves the other alone.
type Session struct {
	id     string
	store  *store.MemoryStore
	sim    Simulator
	logger *slog.Logger

	mu     sync.Mutex
	series *status.SeriesView
	game   *GameDetail
}

// New builds a session reading from st. sim may be nil when nothing simulates.
func New(st *store.MemoryStore, sim Simulator, logger *slog.Logger) *Session {
	id := uuid.NewString()
	if logger != nil {
		logger = logger.With(logging.FieldSessionID, id)
	}
	return &Session{id: id, store: st, sim: sim, logger: logger}
}

func (s *Session) ID() string {
	return s.id
}

// OpenSeries resolves the series and opens it. Pending series have nothing to show
// and are rejected.
func (s *Session) OpenSeries(id string) (status.SeriesView, error) {
	view, err := s.resolveSeries(id)
	if err != nil {
		return status.SeriesView{}, err
	}
	if view.State == status.SeriesPending {
		return status.SeriesView{}, fmt.Errorf("series %q: %w", id, ErrSeriesPending)
	}

	s.mu.Lock()
	s.series = &view
	s.mu.Unlock()
	logging.Debug(s.logger, "series opened", logging.FieldSeriesID, id)
	return view, nil
}

// CloseSeries closes the series view. It is refused while a simulation is outstanding.
func (s *Session) CloseSeries() error {
	if s.simulating() {
		return ErrSimulationInProgress
	}
	s.mu.Lock()
	s.series = nil
	s.mu.Unlock()
	return nil
}

// OpenGame opens the detail view of a single game.
func (s *Session) OpenGame(id string) (GameDetail, error) {
	g, ok := s.store.Game(id)
	if !ok {
		return GameDetail{}, fmt.Errorf("game %q: %w", id, ErrGameNotFound)
	}
	ctx := status.ContextFor(s.store.Games(), s.store.Campaign().UserTeamID)
	detail := GameDetail{Game: g, View: status.ResolveGame(&g, ctx)}

	s.mu.Lock()
	s.game = &detail
	s.mu.Unlock()
	logging.Debug(s.logger, "game opened", logging.FieldGameID, id)
	return detail, nil
}

// CloseGame closes the game view, re-reads the bracket and games, and re-resolves
// the open series so its win counts reflect the refreshed games.
func (s *Session) CloseGame(ctx context.Context) error {
	if s.simulating() {
		return ErrSimulationInProgress
	}
	s.mu.Lock()
	wasOpen := s.game != nil
	s.game = nil
	s.mu.Unlock()
	if !wasOpen {
		return nil
	}

	if s.sim != nil {
		if err := s.sim.RefreshBoard(ctx); err != nil {
			logging.Warn(s.logger, "board refresh after game close failed", "error", err)
			return err
		}
	}
	s.reresolveSeries()
	return nil
}

// Dismiss closes the topmost open view: the game view first, then the series view.
func (s *Session) Dismiss(ctx context.Context, reason DismissReason) (Closed, error) {
	switch reason {
	case ReasonEscape, ReasonOverlay, ReasonCloseButton:
	default:
		return ClosedNone, fmt.Errorf("%w: %q", ErrUnknownReason, reason)
	}
	if s.simulating() {
		return ClosedNone, ErrSimulationInProgress
	}

	s.mu.Lock()
	gameOpen, seriesOpen := s.game != nil, s.series != nil
	s.mu.Unlock()

	switch {
	case gameOpen:
		return ClosedGame, s.CloseGame(ctx)
	case seriesOpen:
		return ClosedSeries, s.CloseSeries()
	default:
		return ClosedNone, nil
	}
}

// SimulationStarted closes both views so nothing shows state the simulation is
// about to replace.
func (s *Session) SimulationStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.series != nil || s.game != nil {
		logging.Debug(s.logger, "detail views closed for simulation")
	}
	s.series = nil
	s.game = nil
}

// View returns copies of the open views.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{ID: s.id}
	if s.series != nil {
		series := *s.series
		v.Series = &series
	}
	if s.game != nil {
		game := *s.game
		v.Game = &game
	}
	return v
}

func (s *Session) resolveSeries(id string) (status.SeriesView, error) {
	found, err := bracket.Find(s.store.Bracket(), id)
	if err != nil {
		return status.SeriesView{}, fmt.Errorf("series %q: %w", id, err)
	}
	return status.ResolveSeries(found, s.store.GameIndex()), nil
}

func (s *Session) reresolveSeries() {
	s.mu.Lock()
	open := s.series
	s.mu.Unlock()
	if open == nil {
		return
	}

	view, err := s.resolveSeries(open.SeriesID)
	if err != nil {
		logging.Warn(s.logger, "open series vanished from bracket", logging.FieldSeriesID, open.SeriesID)
		return
	}

	s.mu.Lock()
	if s.series != nil && s.series.SeriesID == view.SeriesID {
		s.series = &view
	}
	s.mu.Unlock()
}

func (s *Session) simulating() bool {
	return s.sim != nil && s.sim.Simulating()
}
