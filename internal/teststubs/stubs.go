package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/notify"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers"
)

// Resource names used to key StubSource errors and call counts.
const (
	ResourceBracket   = "bracket"
	ResourceGames     = "games"
	ResourceRoster    = "roster"
	ResourceStandings = "standings"
	ResourceCampaign  = "campaign"
)

// StubSource is a test double for providers.DataSource.
type StubSource struct {
	mu        sync.Mutex
	Bracket   *playoffs.Bracket
	Games     []games.Game
	Roster    players.Roster
	Standings playoffs.Standings
	Campaign  playoffs.Campaign
	Errs      map[string]error
	calls     map[string]int
	forced    map[string]bool
}

func (s *StubSource) record(resource string, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
		s.forced = make(map[string]bool)
	}
	s.calls[resource]++
	s.forced[resource] = force
	return s.Errs[resource]
}

// Calls returns how many times the resource was fetched.
func (s *StubSource) Calls(resource string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[resource]
}

// Forced reports whether the last fetch of the resource asked to bypass caches.
func (s *StubSource) Forced(resource string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forced[resource]
}

// SetErr sets or clears the error returned for a resource.
func (s *StubSource) SetErr(resource string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Errs == nil {
		s.Errs = make(map[string]error)
	}
	s.Errs[resource] = err
}

// SetBoard replaces the upstream bracket and games, e.g. from an engine stub.
func (s *StubSource) SetBoard(b *playoffs.Bracket, all []games.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Bracket = b
	s.Games = all
}

func (s *StubSource) FetchBracket(ctx context.Context, campaignID string) (*playoffs.Bracket, error) {
	if err := s.record(ResourceBracket, false); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Bracket.Clone(), nil
}

func (s *StubSource) FetchGames(ctx context.Context, campaignID string, opts providers.FetchOptions) ([]games.Game, error) {
	if err := s.record(ResourceGames, opts.Force); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]games.Game(nil), s.Games...), nil
}

func (s *StubSource) FetchRoster(ctx context.Context, campaignID string, opts providers.FetchOptions) (players.Roster, error) {
	if err := s.record(ResourceRoster, opts.Force); err != nil {
		return players.Roster{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Roster, nil
}

func (s *StubSource) FetchStandings(ctx context.Context, campaignID string, opts providers.FetchOptions) (playoffs.Standings, error) {
	if err := s.record(ResourceStandings, opts.Force); err != nil {
		return playoffs.Standings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Standings, nil
}

func (s *StubSource) FetchCampaign(ctx context.Context, campaignID string) (playoffs.Campaign, error) {
	if err := s.record(ResourceCampaign, false); err != nil {
		return playoffs.Campaign{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Campaign, nil
}

// StubEngine is a test double for providers.Engine. OnCall runs inside every call,
// before the configured result is returned.
type StubEngine struct {
	Result        playoffs.NextGameResult
	Err           error
	OnCall        func()
	Block         chan struct{}
	Entered       chan struct{}
	NextGameCalls atomic.Int32
	RoundCalls    atomic.Int32

	mu        sync.Mutex
	lastRound providers.RoundOptions
}

func (e *StubEngine) enter() {
	if e.Entered != nil {
		select {
		case e.Entered <- struct{}{}:
		default:
		}
	}
	if e.Block != nil {
		<-e.Block
	}
	if e.OnCall != nil {
		e.OnCall()
	}
}

func (e *StubEngine) SimulateNextGame(ctx context.Context, campaignID string) (playoffs.NextGameResult, error) {
	e.NextGameCalls.Add(1)
	e.enter()
	if e.Err != nil {
		return playoffs.NextGameResult{}, e.Err
	}
	return e.Result, nil
}

func (e *StubEngine) SimulateToNextRound(ctx context.Context, campaignID string, opts providers.RoundOptions) error {
	e.RoundCalls.Add(1)
	e.mu.Lock()
	e.lastRound = opts
	e.mu.Unlock()
	e.enter()
	return e.Err
}

// LastRound returns the options of the latest SimulateToNextRound call.
func (e *StubEngine) LastRound() providers.RoundOptions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRound
}

// StubChampionSink records champion announcements.
type StubChampionSink struct {
	mu     sync.Mutex
	events []playoffs.ChampionEvent
	Err    error
}

func (s *StubChampionSink) AnnounceChampion(ctx context.Context, event playoffs.ChampionEvent, campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.Err
}

func (s *StubChampionSink) Events() []playoffs.ChampionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]playoffs.ChampionEvent(nil), s.events...)
}

// StubArchiver records archived brackets keyed by date.
type StubArchiver struct {
	mu       sync.Mutex
	Archived map[string]*playoffs.Bracket
	Err      error
}

func (a *StubArchiver) Archive(ctx context.Context, b *playoffs.Bracket, date string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	if a.Archived == nil {
		a.Archived = make(map[string]*playoffs.Bracket)
	}
	a.Archived[date] = b
	return nil
}

// StubNotifier records pushed notifications.
type StubNotifier struct {
	mu    sync.Mutex
	items []notify.Notification
}

func (n *StubNotifier) Push(items ...notify.Notification) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]string, 0, len(items))
	for _, it := range items {
		n.items = append(n.items, it)
		ids = append(ids, it.ID)
	}
	return ids
}

func (n *StubNotifier) Items() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notification(nil), n.items...)
}
