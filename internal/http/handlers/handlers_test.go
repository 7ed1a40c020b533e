package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/notify"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/roster"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/simulation"
	"github.com/preston-bernstein/nba-playoffs-service/internal/snapshots"
	"github.com/preston-bernstein/nba-playoffs-service/internal/store"
	"github.com/preston-bernstein/nba-playoffs-service/internal/testutil"
)

type stubSimulator struct {
	mu         sync.Mutex
	out        simulation.Outcome
	err        error
	last       simulation.Request
	played     bool
	simulating bool
}

func (s *stubSimulator) Simulate(ctx context.Context, req simulation.Request) (simulation.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = req
	out := s.out
	out.Scope = req.Scope
	return out, s.err
}

func (s *stubSimulator) Play(ctx context.Context, continueInProgress bool) (simulation.Outcome, error) {
	s.mu.Lock()
	s.played = true
	s.mu.Unlock()
	return s.Simulate(ctx, simulation.Request{Scope: simulation.ScopePlay, ContinueInProgress: continueInProgress})
}

func (s *stubSimulator) Simulating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simulating
}

func seededStore() *store.MemoryStore {
	b := testutil.FirstRoundBracket("c1", 2, 1)
	b.East.Round1[0].GameIDs = []string{"g1", "g2", "g3", "g4"}
	st := store.NewMemoryStore()
	st.ReplaceAll(store.State{
		Bracket: b,
		Games: []games.Game{
			testutil.FinalGame("g1", "2025-04-19", "bos", "mia", 110, 100),
			testutil.FinalGame("g2", "2025-04-21", "bos", "mia", 99, 104),
			testutil.FinalGame("g3", "2025-04-24", "mia", "bos", 90, 101),
			testutil.ScheduledGame("g4", "2025-04-26", "mia", "bos"),
		},
		Roster:   testutil.LegalRoster("bos"),
		Campaign: playoffs.Campaign{ID: "c1", UserTeamID: "bos", CurrentDate: "2025-04-25"},
	})
	return st
}

type fixture struct {
	handler *Handler
	router  http.Handler
	sim     *stubSimulator
	store   *store.MemoryStore
	feed    *notify.Feed
	dir     string
}

func newFixture(t *testing.T, st *store.MemoryStore) *fixture {
	t.Helper()
	f := &fixture{
		sim:   &stubSimulator{},
		store: st,
		feed:  notify.NewFeed(10),
		dir:   t.TempDir(),
	}
	logger, _ := testutil.NewBufferLogger()
	f.handler = NewHandler(Config{
		CampaignID: "c1",
		Store:      st,
		Simulator:  f.sim,
		Feed:       f.feed,
		Snapshots:  snapshots.NewFSStore(f.dir),
		Logger:     logger,
	})

	r := chi.NewRouter()
	r.Get("/health", f.handler.Health)
	r.Get("/ready", f.handler.Ready)
	r.Get("/games/{id}", f.handler.GameByID)
	r.Get("/notifications", f.handler.Notifications)
	r.Post("/roster/validate", f.handler.ValidateRoster)
	r.Get("/playoffs/bracket", f.handler.Bracket)
	r.Get("/playoffs/series/{id}", f.handler.Series)
	r.Post("/playoffs/simulate", f.handler.Simulate)
	r.Post("/playoffs/play", f.handler.Play)
	r.Get("/playoffs/history", f.handler.HistoryDates)
	r.Get("/playoffs/history/{date}", f.handler.History)
	f.router = r
	return f
}

func (f *fixture) post(path, body string) *httptest.ResponseRecorder {
	if body == "" {
		return testutil.Serve(f.router, http.MethodPost, path, nil)
	}
	return testutil.Serve(f.router, http.MethodPost, path, strings.NewReader(body))
}

func TestHealth(t *testing.T) {
	f := newFixture(t, seededStore())
	rr := testutil.Serve(f.router, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	f := newFixture(t, seededStore())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(f.handler.Health), req.WithContext(ctx))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestReady(t *testing.T) {
	f := newFixture(t, store.NewMemoryStore())
	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/ready", nil), http.StatusServiceUnavailable)

	f = newFixture(t, seededStore())
	f.sim.simulating = true
	rr := testutil.Serve(f.router, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp readyResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Status != "ready" || resp.CampaignID != "c1" || !resp.Simulating || resp.Version == 0 {
		t.Fatalf("unexpected ready response %+v", resp)
	}
}

func TestBracket(t *testing.T) {
	f := newFixture(t, seededStore())
	rr := testutil.Serve(f.router, http.MethodGet, "/playoffs/bracket", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp bracketResponse
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Series) != 15 {
		t.Fatalf("expected 15 series, got %d", len(resp.Series))
	}
	if resp.Series[0].SeriesID != "east-r1-1" || resp.CurrentDate != "2025-04-25" {
		t.Fatalf("unexpected bracket response %+v", resp)
	}
	if resp.Context.NextUserGameID != "g4" {
		t.Fatalf("expected next user game g4, got %q", resp.Context.NextUserGameID)
	}

	empty := newFixture(t, store.NewMemoryStore())
	testutil.AssertStatus(t, testutil.Serve(empty.router, http.MethodGet, "/playoffs/bracket", nil), http.StatusNotFound)
}

func TestSeries(t *testing.T) {
	f := newFixture(t, seededStore())
	rr := testutil.Serve(f.router, http.MethodGet, "/playoffs/series/east-r1-1", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp seriesResponse
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Slots) != playoffs.MaxGames {
		t.Fatalf("expected %d slots, got %d", playoffs.MaxGames, len(resp.Slots))
	}
	if resp.Slots[3].Game == nil || resp.Slots[3].View.Status != "next" {
		t.Fatalf("expected game 4 to be next, got %+v", resp.Slots[3])
	}
	if resp.Slots[4].Game != nil || resp.Slots[4].View.Status != "tbd" {
		t.Fatalf("expected placeholder slot, got %+v", resp.Slots[4])
	}
	if resp.Summary == "" {
		t.Fatalf("expected summary")
	}

	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/playoffs/series/nope", nil), http.StatusNotFound)
}

func TestGameByID(t *testing.T) {
	f := newFixture(t, seededStore())
	rr := testutil.Serve(f.router, http.MethodGet, "/games/g2", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp gameResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Game.ID != "g2" || resp.View.Status != "complete" || resp.View.Result != "loss" {
		t.Fatalf("unexpected game response %+v", resp)
	}

	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/games/missing", nil), http.StatusNotFound)
	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/games/bad%20id", nil), http.StatusBadRequest)
}

func TestSimulatePassesRequest(t *testing.T) {
	f := newFixture(t, seededStore())
	rr := f.post("/playoffs/simulate", `{"scope":"next_game","seriesId":"east-r1-1","continueInProgress":true}`)
	testutil.AssertStatus(t, rr, http.StatusOK)

	if f.sim.last.Scope != simulation.ScopeNextGame || f.sim.last.SeriesID != "east-r1-1" || !f.sim.last.ContinueInProgress {
		t.Fatalf("unexpected request %+v", f.sim.last)
	}
	var out simulation.Outcome
	testutil.DecodeJSON(t, rr, &out)
	if out.Scope != simulation.ScopeNextGame || out.Skipped {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestSimulateErrorMapping(t *testing.T) {
	injured := testutil.LegalRoster("bos")
	injured.Players[0].Injured = true
	rejection := roster.Check(injured)

	cases := []struct {
		name string
		body string
		err  error
		out  simulation.Outcome
		want int
	}{
		{name: "malformed body", body: `{"scope":`, want: http.StatusBadRequest},
		{name: "unknown scope", body: `{"scope":"season"}`, want: http.StatusBadRequest},
		{name: "skipped", body: `{"scope":"all"}`, out: simulation.Outcome{Skipped: true}, want: http.StatusConflict},
		{name: "rejected", body: `{"scope":"all"}`, err: rejection, want: http.StatusUnprocessableEntity},
		{name: "engine", body: `{"scope":"all"}`, err: &simulation.EngineError{Scope: simulation.ScopeAll, Err: errors.New("down")}, want: http.StatusBadGateway},
		{name: "refresh", body: `{"scope":"all"}`, err: &simulation.RefreshError{Failed: []string{"games"}, Err: errors.New("down")}, want: http.StatusServiceUnavailable},
		{name: "not ready", body: `{"scope":"all"}`, err: simulation.ErrNotReady, want: http.StatusServiceUnavailable},
		{name: "not active", body: `{"scope":"next_game","seriesId":"east-r2-1"}`, err: simulation.ErrSeriesNotActive, want: http.StatusConflict},
		{name: "series required", body: `{"scope":"next_game"}`, err: simulation.ErrSeriesRequired, want: http.StatusBadRequest},
		{name: "unexpected", body: `{"scope":"all"}`, err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		f := newFixture(t, seededStore())
		f.sim.err = tc.err
		f.sim.out = tc.out
		rr := f.post("/playoffs/simulate", tc.body)
		if rr.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d (%s)", tc.name, tc.want, rr.Code, rr.Body.String())
		}
	}
}

func TestSimulateRejectionCarriesHint(t *testing.T) {
	r := testutil.LegalRoster("bos")
	r.Players[6].TargetMinutes = 5
	f := newFixture(t, seededStore())
	f.sim.err = roster.Check(r)

	rr := f.post("/playoffs/simulate", `{"scope":"round"}`)
	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)

	var body struct {
		Error   string           `json:"error"`
		Details roster.Rejection `json:"details"`
	}
	testutil.DecodeJSON(t, rr, &body)
	if body.Details.Kind != roster.KindInvalidMinutes || body.Details.TotalMinutes != 195 || body.Details.Hint == "" {
		t.Fatalf("unexpected rejection body %+v", body)
	}
}

func TestPlay(t *testing.T) {
	f := newFixture(t, seededStore())
	rr := f.post("/playoffs/play", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !f.sim.played || f.sim.last.Scope != simulation.ScopePlay || f.sim.last.ContinueInProgress {
		t.Fatalf("unexpected play call %+v", f.sim.last)
	}

	f.sim.err = simulation.ErrNoUserGame
	testutil.AssertStatus(t, f.post("/playoffs/play", `{"continueInProgress":true}`), http.StatusConflict)
	if !f.sim.last.ContinueInProgress {
		t.Fatalf("expected continueInProgress forwarded")
	}
}

func TestValidateRoster(t *testing.T) {
	f := newFixture(t, seededStore())
	rr := f.post("/roster/validate", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp validateResponse
	testutil.DecodeJSON(t, rr, &resp)
	if !resp.Legal || resp.Rejection != nil {
		t.Fatalf("expected stored roster to be legal, got %+v", resp)
	}

	body := `{"teamId":"bos","players":[{"id":"p1","firstName":"Jo","lastName":"Smith","starter":true,"injured":true,"targetMinutes":200}]}`
	rr = f.post("/roster/validate", body)
	testutil.AssertStatus(t, rr, http.StatusOK)
	resp = validateResponse{}
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Legal || resp.Rejection == nil || resp.Rejection.Kind != roster.KindInjuredStarters {
		t.Fatalf("expected injured starter rejection, got %+v", resp)
	}
}

func TestNotifications(t *testing.T) {
	f := newFixture(t, seededStore())
	f.feed.Deliver(notify.Notification{ID: "n1", Kind: notify.KindAward, Title: "+2 upgrade points"})

	rr := testutil.Serve(f.router, http.MethodGet, "/notifications", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp struct {
		Notifications []notify.Notification `json:"notifications"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Notifications) != 1 || resp.Notifications[0].ID != "n1" {
		t.Fatalf("unexpected notifications %+v", resp)
	}
}

func TestHistory(t *testing.T) {
	f := newFixture(t, seededStore())
	w := snapshots.NewWriter(f.dir, 5)
	if err := w.Archive(context.Background(), f.store.Bracket(), "2025-04-25"); err != nil {
		t.Fatalf("archive: %v", err)
	}

	rr := testutil.Serve(f.router, http.MethodGet, "/playoffs/history/2025-04-25", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var entry snapshots.Entry
	testutil.DecodeJSON(t, rr, &entry)
	if entry.Date != "2025-04-25" || entry.Bracket == nil {
		t.Fatalf("unexpected entry %+v", entry)
	}

	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/playoffs/history/2025-04-26", nil), http.StatusNotFound)
	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/playoffs/history/yesterday", nil), http.StatusBadRequest)

	rr = testutil.Serve(f.router, http.MethodGet, "/playoffs/history", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var dates struct {
		Dates []string `json:"dates"`
	}
	testutil.DecodeJSON(t, rr, &dates)
	if len(dates.Dates) != 1 || dates.Dates[0] != "2025-04-25" {
		t.Fatalf("unexpected dates %+v", dates)
	}
}

func TestHistoryWithoutSnapshots(t *testing.T) {
	h := NewHandler(Config{CampaignID: "c1", Store: seededStore()})
	r := chi.NewRouter()
	r.Get("/playoffs/history/{date}", h.History)
	r.Get("/playoffs/history", h.HistoryDates)
	testutil.AssertStatus(t, testutil.Serve(r, http.MethodGet, "/playoffs/history/2025-04-25", nil), http.StatusServiceUnavailable)
	testutil.AssertStatus(t, testutil.Serve(r, http.MethodGet, "/playoffs/history", nil), http.StatusServiceUnavailable)
}
