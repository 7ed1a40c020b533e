package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-playoffs-service/internal/metrics"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/session"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/simulation"
	"github.com/preston-bernstein/nba-playoffs-service/internal/snapshots"
	"github.com/preston-bernstein/nba-playoffs-service/internal/store"
	"github.com/preston-bernstein/nba-playoffs-service/internal/teststubs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/testutil"
)

type harness struct {
	router http.Handler
	orch   *simulation.Orchestrator
	source *teststubs.StubSource
	engine *teststubs.StubEngine
	rec    *metrics.Recorder
	dir    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := testutil.FirstRoundBracket("c1", 1, 0)
	b.East.Round1[0].GameIDs = []string{"g1", "g2"}
	h := &harness{
		source: &teststubs.StubSource{
			Bracket: b,
			Games: []games.Game{
				testutil.FinalGame("g1", "2025-04-19", "bos", "mia", 110, 100),
				testutil.ScheduledGame("g2", "2025-04-21", "bos", "mia"),
			},
			Roster:   testutil.LegalRoster("bos"),
			Campaign: playoffs.Campaign{ID: "c1", UserTeamID: "bos", CurrentDate: "2025-04-20"},
		},
		engine: &teststubs.StubEngine{},
		rec:    metrics.NewRecorder(),
		dir:    t.TempDir(),
	}
	logger, _ := testutil.NewBufferLogger()
	st := store.NewMemoryStore()
	writer := snapshots.NewWriter(h.dir, 10)
	h.orch = simulation.New(simulation.Config{
		CampaignID: "c1",
		Source:     h.source,
		Engine:     h.engine,
		Store:      st,
		Archiver:   writer,
		Logger:     logger,
		Metrics:    h.rec,
	})
	if err := h.orch.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	sess := session.New(st, h.orch, logger)
	h.orch.AddListener(sess)

	h.router = NewRouter(Routes{
		API: handlers.NewHandler(handlers.Config{
			CampaignID: "c1",
			Store:      st,
			Simulator:  h.orch,
			Snapshots:  snapshots.NewFSStore(h.dir),
			Logger:     logger,
		}),
		Session: handlers.NewSessionHandler(sess, logger),
		Admin:   handlers.NewAdminHandler(st, writer, "secret", logger),
		Logger:  logger,
		Metrics: h.rec,
	})
	return h
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/playoffs/bracket", http.StatusOK},
		{http.MethodGet, "/playoffs/series/east-r1-1", http.StatusOK},
		{http.MethodGet, "/playoffs/series/foo", http.StatusNotFound},
		{http.MethodGet, "/games/g1", http.StatusOK},
		{http.MethodGet, "/games/foo", http.StatusNotFound},
		{http.MethodGet, "/notifications", http.StatusOK},
		{http.MethodPost, "/roster/validate", http.StatusOK},
		{http.MethodGet, "/playoffs/history", http.StatusOK},
		{http.MethodGet, "/session", http.StatusOK},
		{http.MethodPost, "/admin/snapshots", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		rr := testutil.Serve(h.router, tc.method, tc.path, nil)
		if rr.Code != tc.want {
			t.Fatalf("%s %s expected status %d, got %d", tc.method, tc.path, tc.want, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	h := newHarness(t)
	testutil.AssertStatus(t, testutil.Serve(h.router, http.MethodGet, "/does-not-exist", nil), http.StatusNotFound)
	testutil.AssertStatus(t, testutil.Serve(h.router, http.MethodGet, "/playoffs/simulate", nil), http.StatusMethodNotAllowed)
}

func TestRouterSimulateArchivesAndClosesSession(t *testing.T) {
	h := newHarness(t)

	testutil.AssertStatus(t, testutil.Serve(h.router, http.MethodPost, "/session/series/east-r1-1", nil), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(h.router, http.MethodPost, "/session/series/east-r2-1", nil), http.StatusUnprocessableEntity)

	rr := testutil.Serve(h.router, http.MethodPost, "/playoffs/simulate", strings.NewReader(`{"scope":"next_game","seriesId":"east-r1-1"}`))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if h.engine.NextGameCalls.Load() != 1 {
		t.Fatalf("expected one engine call, got %d", h.engine.NextGameCalls.Load())
	}

	var view session.View
	rr = testutil.Serve(h.router, http.MethodGet, "/session", nil)
	testutil.DecodeJSON(t, rr, &view)
	if view.Series != nil {
		t.Fatalf("expected simulation to close the series view")
	}

	rr = testutil.Serve(h.router, http.MethodGet, "/playoffs/history/2025-04-20", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	if h.rec.Simulations(string(simulation.ScopeNextGame), metrics.OutcomeSuccess) != 1 {
		t.Fatalf("expected simulation recorded")
	}
}

func TestRouterSessionGameLifecycle(t *testing.T) {
	h := newHarness(t)

	testutil.AssertStatus(t, testutil.Serve(h.router, http.MethodPost, "/session/series/east-r1-1", nil), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(h.router, http.MethodPost, "/session/games/g2", nil), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(h.router, http.MethodPost, "/session/games/nope", nil), http.StatusNotFound)

	h.source.SetBoard(h.source.Bracket, []games.Game{
		testutil.FinalGame("g1", "2025-04-19", "bos", "mia", 110, 100),
		testutil.FinalGame("g2", "2025-04-21", "bos", "mia", 120, 90),
	})
	rr := testutil.Serve(h.router, http.MethodDelete, "/session/games", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var view session.View
	testutil.DecodeJSON(t, rr, &view)
	if view.Game != nil || view.Series == nil {
		t.Fatalf("unexpected session after game close %+v", view)
	}
	if len(view.Series.Games) != 2 || !view.Series.Games[1].Completed {
		t.Fatalf("expected open series re-resolved with refreshed games, got %+v", view.Series.Games)
	}

	rr = testutil.Serve(h.router, http.MethodPost, "/session/dismiss", strings.NewReader(`{"reason":"escape"}`))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(h.router, http.MethodPost, "/session/dismiss", strings.NewReader(`{"reason":"swipe"}`)), http.StatusBadRequest)
	testutil.AssertStatus(t, testutil.Serve(h.router, http.MethodDelete, "/session/series", nil), http.StatusNoContent)
}

func TestRouterAdminArchive(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodPost, "/admin/snapshots?date=2025-04-18", nil)
	req.Header.Set("Authorization", "Bearer secret")
	testutil.AssertStatus(t, testutil.ServeRequest(h.router, req), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(h.router, http.MethodGet, "/playoffs/history/2025-04-18", nil), http.StatusOK)

	req = httptest.NewRequest(http.MethodPost, "/admin/snapshots?date=bad", nil)
	req.Header.Set("Authorization", "Bearer secret")
	testutil.AssertStatus(t, testutil.ServeRequest(h.router, req), http.StatusBadRequest)
}
