package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/testutil"
)

func TestRoundLabel(t *testing.T) {
	cases := map[int]string{
		1: "First Round",
		2: "Semifinals",
		3: "Conference Finals",
		4: "NBA Finals",
		5: "Round 5",
		0: "Round 0",
	}
	for round, want := range cases {
		assert.Equal(t, want, RoundLabel(round))
	}
}

func TestPlaceholderCount(t *testing.T) {
	assert.Equal(t, 7, PlaceholderCount(0))
	assert.Equal(t, 3, PlaceholderCount(4))
	assert.Equal(t, 0, PlaceholderCount(7))
	assert.Equal(t, 0, PlaceholderCount(9))
}

func TestResolveSeriesStates(t *testing.T) {
	bos := testutil.Entrant("bos", 1)
	mia := testutil.Entrant("mia", 8)

	cases := []struct {
		name   string
		series playoffs.Series
		want   SeriesState
		winner string
	}{
		{"no entrants", playoffs.Series{ID: "s", Round: 2}, SeriesPending, ""},
		{"one entrant", playoffs.Series{ID: "s", Round: 2, Team1: bos}, SeriesPending, ""},
		{"fresh", testutil.Series("s", 1, bos, mia, 0, 0), SeriesInProgress, ""},
		{"tied three all", testutil.Series("s", 1, bos, mia, 3, 3), SeriesInProgress, ""},
		{"team1 clinched", testutil.Series("s", 1, bos, mia, 4, 2), SeriesCompleted, "bos"},
		{"team2 clinched", testutil.Series("s", 1, bos, mia, 3, 4), SeriesCompleted, "mia"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := ResolveSeries(&tc.series, GameIndex{})
			assert.Equal(t, tc.want, view.State)
			if tc.winner == "" {
				assert.Nil(t, view.Winner)
				return
			}
			require.NotNil(t, view.Winner)
			assert.Equal(t, tc.winner, view.Winner.Team.ID)
			assert.Equal(t, playoffs.ClinchWins, maxInt(view.Team1Wins, view.Team2Wins))
			assert.Less(t, minInt(view.Team1Wins, view.Team2Wins), playoffs.ClinchWins)
		})
	}
}

func TestResolveSeriesDegradesImpossibleRecords(t *testing.T) {
	bos := testutil.Entrant("bos", 1)
	mia := testutil.Entrant("mia", 8)

	recordedComplete := testutil.Series("s1", 1, bos, mia, 3, 2)
	recordedComplete.Status = playoffs.RecordedCompleted

	cases := []struct {
		name   string
		series playoffs.Series
		kind   ViolationKind
	}{
		{"completed below threshold", recordedComplete, ViolationCompletedBelowThreshold},
		{"both clinched", testutil.Series("s2", 1, bos, mia, 4, 4), ViolationBothClinched},
		{"too many wins", testutil.Series("s3", 1, bos, mia, 5, 1), ViolationWinsAboveThreshold},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := ResolveSeries(&tc.series, GameIndex{})
			assert.Equal(t, SeriesInProgress, view.State)
			assert.Nil(t, view.Winner)
			require.Len(t, view.Violations, 1)
			assert.Equal(t, tc.kind, view.Violations[0].Kind)
			assert.Equal(t, tc.series.ID, view.Violations[0].SeriesID)
		})
	}
}

func TestResolveSeriesCrossChecksGames(t *testing.T) {
	bos := testutil.Entrant("bos", 1)
	mia := testutil.Entrant("mia", 8)
	idx := IndexGames([]games.Game{
		testutil.FinalGame("g1", "2025-04-19", "bos", "mia", 90, 100),
		testutil.FinalGame("g2", "2025-04-21", "bos", "mia", 90, 100),
	})

	s := testutil.Series("s", 1, bos, mia, 4, 0, "g1", "g2")
	view := ResolveSeries(&s, idx)

	assert.Equal(t, SeriesCompleted, view.State)
	kinds := []ViolationKind{}
	for _, v := range view.Violations {
		kinds = append(kinds, v.Kind)
	}
	assert.ElementsMatch(t, []ViolationKind{ViolationWinsExceedPlayed, ViolationClincherWithoutWins}, kinds)
}

func TestEffectiveGamesDropsCancelledAndUnknownKeepingOrder(t *testing.T) {
	cancelled := testutil.ScheduledGame("g3", "2025-04-24", "bos", "mia")
	cancelled.Cancelled = true
	idx := IndexGames([]games.Game{
		testutil.FinalGame("g1", "2025-04-19", "bos", "mia", 100, 90),
		testutil.FinalGame("g2", "2025-04-21", "mia", "bos", 100, 90),
		cancelled,
		testutil.ScheduledGame("g5", "2025-04-26", "bos", "mia"),
	})
	s := testutil.Series("s", 1, testutil.Entrant("bos", 1), testutil.Entrant("mia", 8), 1, 1, "g5", "g1", "g3", "missing", "g2")

	view := ResolveSeries(&s, idx)

	ids := []string{}
	for _, g := range view.Games {
		assert.False(t, g.Cancelled)
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"g5", "g1", "g2"}, ids)
	assert.Equal(t, 4, view.Placeholders)
}

func TestResolveSeriesIsIdempotent(t *testing.T) {
	idx := IndexGames([]games.Game{testutil.FinalGame("g1", "2025-04-19", "bos", "mia", 100, 90)})
	s := testutil.Series("s", 1, testutil.Entrant("bos", 1), testutil.Entrant("mia", 8), 1, 0, "g1")
	s.Status = playoffs.RecordedCompleted

	first := ResolveSeries(&s, idx)
	second := ResolveSeries(&s, idx)
	assert.Equal(t, first, second)
}

func TestResolveSeriesNil(t *testing.T) {
	view := ResolveSeries(nil, nil)
	assert.Equal(t, SeriesPending, view.State)
	assert.Equal(t, playoffs.MaxGames, view.Placeholders)
	assert.Empty(t, view.Games)
}

func TestSummary(t *testing.T) {
	bos := testutil.Entrant("bos", 1)
	mia := testutil.Entrant("mia", 8)
	cases := []struct {
		series playoffs.Series
		want   string
	}{
		{playoffs.Series{ID: "s"}, "TBD"},
		{testutil.Series("s", 1, bos, mia, 2, 2), "Tied 2-2"},
		{testutil.Series("s", 1, bos, mia, 3, 1), "BOS leads 3-1"},
		{testutil.Series("s", 1, bos, mia, 1, 3), "MIA leads 3-1"},
		{testutil.Series("s", 1, bos, mia, 2, 4), "MIA wins 4-2"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveSeries(&tc.series, nil).Summary())
	}
}

func TestSlotsPadsToSeven(t *testing.T) {
	idx := IndexGames([]games.Game{
		testutil.FinalGame("g1", "2025-04-19", "bos", "mia", 100, 90),
		testutil.ScheduledGame("g2", "2025-04-21", "mia", "bos"),
	})
	s := testutil.Series("s", 1, testutil.Entrant("bos", 1), testutil.Entrant("mia", 8), 1, 0, "g1", "g2")
	slots := Slots(ResolveSeries(&s, idx), Context{UserTeamID: "bos", NextUserGameID: "g2"})

	require.Len(t, slots, playoffs.MaxGames)
	assert.Equal(t, GameView{Status: GameComplete, Result: ResultWin}, slots[0].View)
	assert.Equal(t, GameView{Status: GameNext}, slots[1].View)
	for i, slot := range slots[2:] {
		assert.Nil(t, slot.Game)
		assert.Equal(t, GameTBD, slot.View.Status)
		assert.Equal(t, i+3, slot.Number)
	}
}
