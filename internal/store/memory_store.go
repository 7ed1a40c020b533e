package store

import (
	"sync"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/status"
)

// State is everything the service reads from the franchise data layer.
type State struct {
	Bracket   *playoffs.Bracket
	Games     []games.Game
	Roster    players.Roster
	Campaign  playoffs.Campaign
	Standings playoffs.Standings
}

// MemoryStore holds the shared campaign state. Writers replace whole snapshots so
// readers never observe a partial refresh.
type MemoryStore struct {
	mu      sync.RWMutex
	state   State
	index   status.GameIndex
	loaded  bool
	version uint64
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: status.GameIndex{}}
}

// ReplaceAll swaps in a complete snapshot.
func (s *MemoryStore) ReplaceAll(next State) {
	next = copyState(next)
	idx := status.IndexGames(next.Games)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
	s.index = idx
	s.loaded = true
	s.version++
}

// ReplaceBoard swaps the bracket and games only, leaving roster, campaign and standings as they are.
func (s *MemoryStore) ReplaceBoard(b *playoffs.Bracket, all []games.Game) {
	b = b.Clone()
	all = copyGames(all)
	idx := status.IndexGames(all)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Bracket = b
	s.state.Games = all
	s.index = idx
	s.version++
}

// Snapshot returns a deep copy of the current state.
func (s *MemoryStore) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// Bracket returns a copy of the bracket, nil before the first load.
func (s *MemoryStore) Bracket() *playoffs.Bracket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Bracket.Clone()
}

// Games returns a copy of the game collection in upstream order.
func (s *MemoryStore) Games() []games.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyGames(s.state.Games)
}

// Game retrieves a game by ID.
func (s *MemoryStore) Game(id string) (games.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.index[id]
	return g, ok
}

// GameIndex returns a lookup over the current games.
func (s *MemoryStore) GameIndex() status.GameIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(status.GameIndex, len(s.index))
	for id, g := range s.index {
		out[id] = g
	}
	return out
}

func (s *MemoryStore) Roster() players.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRoster(s.state.Roster)
}

func (s *MemoryStore) Campaign() playoffs.Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Campaign
}

func (s *MemoryStore) Standings() playoffs.Standings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return playoffs.Standings{Entries: append([]playoffs.StandingsEntry(nil), s.state.Standings.Entries...)}
}

// Loaded reports whether a full snapshot has been written.
func (s *MemoryStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Version increments on every write.
func (s *MemoryStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func copyState(in State) State {
	return State{
		Bracket:   in.Bracket.Clone(),
		Games:     copyGames(in.Games),
		Roster:    copyRoster(in.Roster),
		Campaign:  in.Campaign,
		Standings: playoffs.Standings{Entries: append([]playoffs.StandingsEntry(nil), in.Standings.Entries...)},
	}
}

func copyGames(in []games.Game) []games.Game {
	out := make([]games.Game, len(in))
	for i, g := range in {
		if g.Score != nil {
			score := *g.Score
			g.Score = &score
		}
		out[i] = g
	}
	return out
}

func copyRoster(r players.Roster) players.Roster {
	return players.Roster{TeamID: r.TeamID, Players: append([]players.Player(nil), r.Players...)}
}
