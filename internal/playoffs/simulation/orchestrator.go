// Package simulation sequences simulate requests against the external engine: it
// gates them on roster legality, lets only one run at a time, refreshes the shared
// state once the engine returns and announces the champion when the finals end.
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/logging"
	"github.com/preston-bernstein/nba-playoffs-service/internal/metrics"
	"github.com/preston-bernstein/nba-playoffs-service/internal/notify"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/bracket"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/roster"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/status"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers"
	"github.com/preston-bernstein/nba-playoffs-service/internal/store"
	"github.com/preston-bernstein/nba-playoffs-service/internal/timeutil"
)

// Listener is told when a simulation starts, before the engine is called.
type Listener interface {
	SimulationStarted()
}

// Archiver keeps a dated copy of the bracket after each successful simulation.
type Archiver interface {
	Archive(ctx context.Context, b *playoffs.Bracket, date string) error
}

// Request is one simulate call.
type Request struct {
	Scope Scope `json:"scope"`
	// SeriesID names the series a ScopeNextGame request is meant for. It is checked
	// before the engine runs (present in the bracket and in progress) but never sent
	// to the engine, which plays the campaign's whole next game day.
	SeriesID string `json:"seriesId,omitempty"`
	// ContinueInProgress skips the roster gate when the user's game is already live.
	ContinueInProgress bool `json:"continueInProgress,omitempty"`
}

// Outcome reports what a simulate call did. Skipped is set when another simulation
// was already running and nothing happened.
type Outcome struct {
	Scope      Scope                    `json:"scope"`
	Skipped    bool                     `json:"skipped"`
	Result     *playoffs.NextGameResult `json:"result,omitempty"`
	Champion   *playoffs.ChampionEvent  `json:"champion,omitempty"`
	Violations []status.Violation       `json:"violations,omitempty"`
}

// Config wires the orchestrator's collaborators. Champions, Notifier, Archiver,
// Logger and Metrics are optional.
type Config struct {
	CampaignID string
	Source     providers.DataSource
	Engine     providers.Engine
	Champions  providers.ChampionSink
	Store      *store.MemoryStore
	Notifier   notify.Notifier
	Archiver   Archiver
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
	Now        func() time.Time
}

// Orchestrator is safe for concurrent use; concurrent Simulate calls collapse to one.
type Orchestrator struct {
	campaignID string
	source     providers.DataSource
	engine     providers.Engine
	champions  providers.ChampionSink
	store      *store.MemoryStore
	notifier   notify.Notifier
	archiver   Archiver
	logger     *slog.Logger
	metrics    *metrics.Recorder
	now        func() time.Time

	running atomic.Bool
	writeMu sync.Mutex

	mu        sync.Mutex
	listeners []Listener
	announced map[string]struct{}
}

// New builds an orchestrator. A nil Store gets a fresh one.
func New(cfg Config) *Orchestrator {
	st := cfg.Store
	if st == nil {
		st = store.NewMemoryStore()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		campaignID: cfg.CampaignID,
		source:     cfg.Source,
		engine:     cfg.Engine,
		champions:  cfg.Champions,
		store:      st,
		notifier:   cfg.Notifier,
		archiver:   cfg.Archiver,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		now:        now,
		announced:  make(map[string]struct{}),
	}
}

// AddListener registers l for SimulationStarted callbacks.
func (o *Orchestrator) AddListener(l Listener) {
	if l == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, l)
}

// Simulating reports whether a simulation is outstanding.
func (o *Orchestrator) Simulating() bool {
	return o.running.Load()
}

func (o *Orchestrator) CampaignID() string {
	return o.campaignID
}

func (o *Orchestrator) Store() *store.MemoryStore {
	return o.store
}

// Play runs the user's own next game through the same gate and flag as Simulate.
func (o *Orchestrator) Play(ctx context.Context, continueInProgress bool) (Outcome, error) {
	return o.Simulate(ctx, Request{Scope: ScopePlay, ContinueInProgress: continueInProgress})
}

// Simulate runs one simulate request. A call made while another is outstanding
// returns a skipped Outcome without touching the engine. Once the engine has been
// called the request runs to completion even if ctx is cancelled.
func (o *Orchestrator) Simulate(ctx context.Context, req Request) (Outcome, error) {
	if !req.Scope.valid() {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownScope, req.Scope)
	}
	if !o.running.CompareAndSwap(false, true) {
		o.metrics.RecordSimulation(string(req.Scope), metrics.OutcomeSkipped, 0)
		logging.Info(logging.FromContext(ctx, o.logger), "simulation already running, request dropped",
			logging.FieldScope, string(req.Scope))
		return Outcome{Scope: req.Scope, Skipped: true}, nil
	}
	defer o.running.Store(false)

	start := o.now()
	out, err := o.run(context.WithoutCancel(ctx), req)
	o.metrics.RecordSimulation(string(req.Scope), outcomeLabel(err), o.now().Sub(start))
	return out, err
}

func (o *Orchestrator) run(ctx context.Context, req Request) (Outcome, error) {
	out := Outcome{Scope: req.Scope}
	logger := logging.FromContext(ctx, o.logger)
	if logger != nil {
		logger = logger.With(logging.FieldCampaignID, o.campaignID, logging.FieldScope, string(req.Scope))
	}
	if !o.store.Loaded() {
		return out, ErrNotReady
	}
	before := o.store.Snapshot()

	if err := o.precheck(before, req); err != nil {
		logging.Info(logger, "simulation rejected", "error", err)
		return out, err
	}
	o.notifyStarted()

	result, err := o.callEngine(ctx, req.Scope)
	if err != nil {
		logging.Error(logger, "simulation engine failed", err)
		o.push(notify.Notification{Kind: notify.KindError, Title: "Simulation failed", Message: err.Error()})
		return out, &EngineError{Scope: req.Scope, Err: err}
	}
	out.Result = result

	next, err := o.reload(ctx)
	if err != nil {
		logging.Error(logger, "refresh after simulation failed", err)
		o.push(notify.Notification{Kind: notify.KindError, Title: "Refresh failed", Message: err.Error()})
		return out, err
	}

	idx := status.IndexGames(next.Games)
	out.Violations = o.logViolations(logger, next.Bracket, idx)
	o.pushResult(result)
	if req.Scope == ScopeAll {
		out.Champion = o.announceChampion(ctx, logger, before, next, idx)
	}
	o.archive(ctx, logger, next)

	logging.Info(logger, "simulation complete",
		logging.FieldDate, next.Campaign.CurrentDate,
		"champion", out.Champion != nil)
	return out, nil
}

// precheck validates the request against the state as it was before the call.
func (o *Orchestrator) precheck(before store.State, req Request) error {
	switch req.Scope {
	case ScopeNextGame:
		if req.SeriesID == "" {
			return ErrSeriesRequired
		}
		s, err := bracket.Find(before.Bracket, req.SeriesID)
		if err != nil {
			return fmt.Errorf("series %q: %w", req.SeriesID, err)
		}
		idx := status.IndexGames(before.Games)
		if status.ResolveSeries(s, idx).State != status.SeriesInProgress {
			return fmt.Errorf("series %q: %w", req.SeriesID, ErrSeriesNotActive)
		}
	case ScopePlay:
		if _, ok := userGame(before); !ok {
			return ErrNoUserGame
		}
	}

	if req.ContinueInProgress {
		if g, ok := liveUserGame(before); ok {
			logging.Debug(o.logger, "roster gate skipped for live game", logging.FieldGameID, g.ID)
			return nil
		}
	}
	return roster.Check(before.Roster)
}

func (o *Orchestrator) notifyStarted() {
	o.mu.Lock()
	listeners := append([]Listener(nil), o.listeners...)
	o.mu.Unlock()
	for _, l := range listeners {
		l.SimulationStarted()
	}
}

// callEngine is the single engine call of a request. It is never retried.
func (o *Orchestrator) callEngine(ctx context.Context, scope Scope) (*playoffs.NextGameResult, error) {
	if o.engine == nil {
		return nil, providers.ErrProviderUnavailable
	}
	switch {
	case scope.usesNextGame():
		res, err := o.engine.SimulateNextGame(ctx, o.campaignID)
		if err != nil {
			return nil, err
		}
		return &res, nil
	case scope == ScopeRound:
		return nil, o.engine.SimulateToNextRound(ctx, o.campaignID, providers.RoundOptions{})
	default:
		return nil, o.engine.SimulateToNextRound(ctx, o.campaignID, providers.RoundOptions{SimAll: true})
	}
}

func (o *Orchestrator) logViolations(logger *slog.Logger, b *playoffs.Bracket, idx status.GameIndex) []status.Violation {
	view := bracket.Resolve(b, idx)
	for _, v := range view.Violations {
		logging.Warn(logger, "bracket invariant violation",
			logging.FieldSeriesID, v.SeriesID,
			logging.FieldViolation, string(v.Kind),
			"detail", v.Detail)
	}
	return view.Violations
}

func (o *Orchestrator) archive(ctx context.Context, logger *slog.Logger, next store.State) {
	if o.archiver == nil || next.Bracket == nil {
		return
	}
	date := next.Campaign.CurrentDate
	if date == "" {
		date = timeutil.FormatDate(o.now().UTC())
	}
	if err := o.archiver.Archive(ctx, next.Bracket, date); err != nil {
		logging.Warn(logger, "bracket archive failed", logging.FieldDate, date, "error", err)
	}
}

func userTeamID(st store.State) string {
	if st.Campaign.UserTeamID != "" {
		return st.Campaign.UserTeamID
	}
	return st.Roster.TeamID
}

func isUserGame(g games.Game, teamID string) bool {
	return g.IsUserGame || g.Involves(teamID)
}

func liveUserGame(st store.State) (games.Game, bool) {
	team := userTeamID(st)
	for _, g := range st.Games {
		if g.InProgress && !g.Cancelled && !g.Completed && isUserGame(g, team) {
			return g, true
		}
	}
	return games.Game{}, false
}

func userGame(st store.State) (games.Game, bool) {
	if g, ok := liveUserGame(st); ok {
		return g, true
	}
	return status.NextUserGame(st.Games, userTeamID(st))
}

func outcomeLabel(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	if _, ok := AsEngineError(err); ok {
		return metrics.OutcomeEngineFailure
	}
	if _, ok := AsRefreshError(err); ok {
		return metrics.OutcomeRefreshFailure
	}
	return metrics.OutcomeRejected
}
