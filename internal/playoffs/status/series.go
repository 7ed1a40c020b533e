package status

import (
	"fmt"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
)

// SeriesState is the derived state of a series.
type SeriesState string

const (
	SeriesPending    SeriesState = "pending"
	SeriesInProgress SeriesState = "in_progress"
	SeriesCompleted  SeriesState = "completed"
)

// GameIndex looks games up by id.
type GameIndex map[string]games.Game

// IndexGames builds a lookup over the game collection. Later duplicates win.
func IndexGames(all []games.Game) GameIndex {
	idx := make(GameIndex, len(all))
	for _, g := range all {
		idx[g.ID] = g
	}
	return idx
}

// SeriesView is the resolved read model of a series.
type SeriesView struct {
	SeriesID     string            `json:"seriesId"`
	Round        int               `json:"round"`
	RoundLabel   string            `json:"roundLabel"`
	Conference   string            `json:"conference,omitempty"`
	State        SeriesState       `json:"state"`
	Team1        *playoffs.Entrant `json:"team1,omitempty"`
	Team2        *playoffs.Entrant `json:"team2,omitempty"`
	Team1Wins    int               `json:"team1Wins"`
	Team2Wins    int               `json:"team2Wins"`
	Winner       *playoffs.Entrant `json:"winner,omitempty"`
	Games        []games.Game      `json:"games"`
	Placeholders int               `json:"placeholders"`
	Violations   []Violation       `json:"violations,omitempty"`
}

// RoundLabel names a playoff round.
func RoundLabel(round int) string {
	switch round {
	case playoffs.RoundFirst:
		return "First Round"
	case playoffs.RoundSemifinals:
		return "Semifinals"
	case playoffs.RoundConferenceFinals:
		return "Conference Finals"
	case playoffs.RoundFinals:
		return "NBA Finals"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}

// PlaceholderCount is the number of empty display rows needed to show a full series.
func PlaceholderCount(effectiveGames int) int {
	if n := playoffs.MaxGames - effectiveGames; n > 0 {
		return n
	}
	return 0
}

// EffectiveGames filters the series' scheduled ids down to known, non-cancelled games in schedule order.
func EffectiveGames(s *playoffs.Series, idx GameIndex) []games.Game {
	if s == nil {
		return []games.Game{}
	}
	out := make([]games.Game, 0, len(s.GameIDs))
	for _, id := range s.GameIDs {
		g, ok := idx[id]
		if !ok || g.Cancelled {
			continue
		}
		out = append(out, g)
	}
	return out
}

// ResolveSeries derives the state of a series from its win counts and games.
// It never fails: impossible inputs are reported as violations and degrade to in-progress.
func ResolveSeries(s *playoffs.Series, idx GameIndex) SeriesView {
	if s == nil {
		return SeriesView{
			RoundLabel:   RoundLabel(0),
			State:        SeriesPending,
			Games:        []games.Game{},
			Placeholders: playoffs.MaxGames,
		}
	}

	effective := EffectiveGames(s, idx)
	view := SeriesView{
		SeriesID:     s.ID,
		Round:        s.Round,
		RoundLabel:   RoundLabel(s.Round),
		Conference:   s.Conference,
		Team1:        s.Team1,
		Team2:        s.Team2,
		Team1Wins:    s.Team1Wins,
		Team2Wins:    s.Team2Wins,
		Games:        effective,
		Placeholders: PlaceholderCount(len(effective)),
	}

	if !s.HasEntrants() {
		view.State = SeriesPending
		return view
	}

	view.State, view.Winner, view.Violations = deriveState(s, effective)
	return view
}

func deriveState(s *playoffs.Series, effective []games.Game) (SeriesState, *playoffs.Entrant, []Violation) {
	var violations []Violation
	t1, t2 := s.Team1Wins, s.Team2Wins

	if t1 > playoffs.ClinchWins || t2 > playoffs.ClinchWins {
		violations = append(violations, newViolation(s.ID, ViolationWinsAboveThreshold,
			fmt.Sprintf("recorded wins %d-%d exceed %d", t1, t2, playoffs.ClinchWins)))
		return SeriesInProgress, nil, violations
	}
	if t1 == playoffs.ClinchWins && t2 == playoffs.ClinchWins {
		violations = append(violations, newViolation(s.ID, ViolationBothClinched,
			fmt.Sprintf("both sides recorded %d wins", playoffs.ClinchWins)))
		return SeriesInProgress, nil, violations
	}

	violations = append(violations, gameEvidence(s, effective)...)

	switch {
	case t1 == playoffs.ClinchWins:
		return SeriesCompleted, s.Team1, violations
	case t2 == playoffs.ClinchWins:
		return SeriesCompleted, s.Team2, violations
	}

	if s.Status == playoffs.RecordedCompleted {
		violations = append(violations, newViolation(s.ID, ViolationCompletedBelowThreshold,
			fmt.Sprintf("recorded as completed at %d-%d", t1, t2)))
	}
	return SeriesInProgress, nil, violations
}

// gameEvidence cross-checks recorded wins against played games when the games are known.
func gameEvidence(s *playoffs.Series, effective []games.Game) []Violation {
	if len(effective) == 0 {
		return nil
	}
	played := 0
	won := map[string]int{}
	for _, g := range effective {
		if !g.Played() {
			continue
		}
		played++
		if id, ok := g.WinnerID(); ok {
			won[id]++
		}
	}

	var violations []Violation
	if s.Team1Wins+s.Team2Wins > played {
		violations = append(violations, newViolation(s.ID, ViolationWinsExceedPlayed,
			fmt.Sprintf("%d wins recorded across %d played games", s.Team1Wins+s.Team2Wins, played)))
	}
	if s.Team1Wins == playoffs.ClinchWins && played > 0 && won[s.Team1.Team.ID] == 0 {
		violations = append(violations, newViolation(s.ID, ViolationClincherWithoutWins,
			s.Team1.Team.ID+" clinched without a recorded game win"))
	}
	if s.Team2Wins == playoffs.ClinchWins && played > 0 && won[s.Team2.Team.ID] == 0 {
		violations = append(violations, newViolation(s.ID, ViolationClincherWithoutWins,
			s.Team2.Team.ID+" clinched without a recorded game win"))
	}
	return violations
}

// Summary renders the series score line, e.g. "BOS leads 3-2".
func (v SeriesView) Summary() string {
	switch v.State {
	case SeriesPending:
		return "TBD"
	case SeriesCompleted:
		if v.Winner != nil {
			return fmt.Sprintf("%s wins %d-%d", label(v.Winner), maxInt(v.Team1Wins, v.Team2Wins), minInt(v.Team1Wins, v.Team2Wins))
		}
	}
	switch {
	case v.Team1Wins == v.Team2Wins:
		return fmt.Sprintf("Tied %d-%d", v.Team1Wins, v.Team2Wins)
	case v.Team1Wins > v.Team2Wins:
		return fmt.Sprintf("%s leads %d-%d", label(v.Team1), v.Team1Wins, v.Team2Wins)
	default:
		return fmt.Sprintf("%s leads %d-%d", label(v.Team2), v.Team2Wins, v.Team1Wins)
	}
}

func label(e *playoffs.Entrant) string {
	if e == nil {
		return "TBD"
	}
	if e.Team.Abbreviation != "" {
		return e.Team.Abbreviation
	}
	return e.DisplayName()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
