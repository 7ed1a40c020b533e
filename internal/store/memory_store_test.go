package store

import (
	"sync"
	"testing"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/testutil"
)

func sampleState() State {
	return State{
		Bracket: testutil.FinalsBracket("c1", 3, 3),
		Games: []games.Game{
			testutil.FinalGame("g1", "2025-06-01", "bos", "okc", 101, 99),
			testutil.ScheduledGame("g2", "2025-06-03", "okc", "bos"),
		},
		Roster:    testutil.LegalRoster("bos"),
		Campaign:  playoffs.Campaign{ID: "c1", CurrentDate: "2025-06-02", UserTeamID: "bos"},
		Standings: playoffs.Standings{Entries: []playoffs.StandingsEntry{{TeamID: "bos", Wins: 60}}},
	}
}

func TestMemoryStoreReplaceAllAndRead(t *testing.T) {
	s := NewMemoryStore()
	if s.Loaded() || s.Bracket() != nil {
		t.Fatalf("expected empty store before load")
	}

	s.ReplaceAll(sampleState())

	if !s.Loaded() || s.Version() != 1 {
		t.Fatalf("expected loaded store at version 1, got loaded=%v version=%d", s.Loaded(), s.Version())
	}
	if got := len(s.Games()); got != 2 {
		t.Fatalf("expected 2 games, got %d", got)
	}
	if g, ok := s.Game("g1"); !ok || g.Score.Home != 101 {
		t.Fatalf("expected g1 with score, got %+v ok=%v", g, ok)
	}
	if _, ok := s.Game("missing"); ok {
		t.Fatalf("expected missing id to return false")
	}
	if s.Campaign().CurrentDate != "2025-06-02" || s.Roster().TeamID != "bos" {
		t.Fatalf("unexpected campaign or roster")
	}
	if len(s.Standings().Entries) != 1 || len(s.GameIndex()) != 2 {
		t.Fatalf("unexpected standings or index")
	}
	if s.Bracket().Finals.Team1Wins != 3 {
		t.Fatalf("unexpected finals record")
	}
}

func TestMemoryStoreReadsAreCopies(t *testing.T) {
	s := NewMemoryStore()
	s.ReplaceAll(sampleState())

	b := s.Bracket()
	b.Finals.Team1Wins = 4
	list := s.Games()
	list[0].Score.Home = 0
	r := s.Roster()
	r.Players[0].Injured = true
	idx := s.GameIndex()
	delete(idx, "g1")

	if s.Bracket().Finals.Team1Wins != 3 {
		t.Fatalf("bracket mutation leaked into the store")
	}
	if g, _ := s.Game("g1"); g.Score.Home != 101 {
		t.Fatalf("game mutation leaked into the store")
	}
	if s.Roster().Players[0].Injured {
		t.Fatalf("roster mutation leaked into the store")
	}
	if len(s.GameIndex()) != 2 {
		t.Fatalf("index mutation leaked into the store")
	}
}

func TestMemoryStoreReplaceAllCopiesInput(t *testing.T) {
	in := sampleState()
	s := NewMemoryStore()
	s.ReplaceAll(in)

	in.Bracket.Finals.Team2Wins = 4
	in.Games[0].Score.Away = 0

	if s.Bracket().Finals.Team2Wins != 3 {
		t.Fatalf("caller mutation leaked into the stored bracket")
	}
	if g, _ := s.Game("g1"); g.Score.Away != 99 {
		t.Fatalf("caller mutation leaked into the stored games")
	}
}

func TestMemoryStoreReplaceBoardKeepsRest(t *testing.T) {
	s := NewMemoryStore()
	s.ReplaceAll(sampleState())

	s.ReplaceBoard(testutil.FinalsBracket("c1", 4, 3), []games.Game{testutil.FinalGame("g9", "2025-06-10", "bos", "okc", 110, 100)})

	if s.Version() != 2 {
		t.Fatalf("expected version bump, got %d", s.Version())
	}
	if s.Bracket().Finals.Team1Wins != 4 {
		t.Fatalf("expected bracket replaced")
	}
	if _, ok := s.Game("g1"); ok {
		t.Fatalf("expected old games replaced")
	}
	if _, ok := s.Game("g9"); !ok {
		t.Fatalf("expected new game present")
	}
	if s.Campaign().ID != "c1" || len(s.Roster().Players) == 0 {
		t.Fatalf("expected campaign and roster untouched")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.ReplaceAll(sampleState())
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
			_ = s.Bracket()
			_, _ = s.Game("g1")
		}()
	}
	wg.Wait()
	if s.Version() != 8 {
		t.Fatalf("expected 8 writes, got %d", s.Version())
	}
}
