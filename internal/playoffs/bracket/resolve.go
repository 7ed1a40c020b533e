package bracket

import (
	"fmt"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/status"
)

// View is the resolved bracket: every series in search order plus the champion, if any.
type View struct {
	CampaignID string              `json:"campaignId"`
	Series     []status.SeriesView `json:"series"`
	Champion   *playoffs.Entrant   `json:"champion,omitempty"`
	Violations []status.Violation  `json:"violations,omitempty"`
}

// Resolve derives every series of the bracket and the entrant consistency between rounds.
func Resolve(b *playoffs.Bracket, idx status.GameIndex) View {
	view := View{Series: []status.SeriesView{}}
	if b == nil {
		return view
	}
	view.CampaignID = b.CampaignID
	Walk(b, func(s *playoffs.Series) bool {
		sv := status.ResolveSeries(s, idx)
		view.Series = append(view.Series, sv)
		view.Violations = append(view.Violations, sv.Violations...)
		return true
	})
	view.Violations = append(view.Violations, CheckEntrants(b, idx)...)
	view.Champion, _ = Champion(b, idx)
	return view
}

// Champion returns the finals winner once the finals are completed.
func Champion(b *playoffs.Bracket, idx status.GameIndex) (*playoffs.Entrant, bool) {
	if b == nil || b.Finals == nil {
		return nil, false
	}
	sv := status.ResolveSeries(b.Finals, idx)
	if sv.State != status.SeriesCompleted || sv.Winner == nil {
		return nil, false
	}
	return sv.Winner, true
}

// FinalsCompleted reports whether the finals series has resolved.
func FinalsCompleted(b *playoffs.Bracket, idx status.GameIndex) bool {
	_, ok := Champion(b, idx)
	return ok
}

// CheckEntrants verifies that every filled later-round slot holds the winners of its
// feeder series. Slots whose feeders have not finished are not checked.
func CheckEntrants(b *playoffs.Bracket, idx status.GameIndex) []status.Violation {
	if b == nil {
		return nil
	}
	var out []status.Violation
	for _, conf := range b.Conferences() {
		for i := range conf.Round2 {
			feeders := pick(conf.Round1, 2*i, 2*i+1)
			out = append(out, checkSlot(&conf.Round2[i], feeders, idx)...)
		}
		if conf.ConferenceFinal != nil {
			out = append(out, checkSlot(conf.ConferenceFinal, pick(conf.Round2, 0, 1), idx)...)
		}
	}
	if b.Finals != nil && b.East != nil && b.West != nil {
		feeders := []*playoffs.Series{b.East.ConferenceFinal, b.West.ConferenceFinal}
		out = append(out, checkSlot(b.Finals, feeders, idx)...)
	}
	return out
}

func pick(list []playoffs.Series, i, j int) []*playoffs.Series {
	out := []*playoffs.Series{nil, nil}
	if i < len(list) {
		out[0] = &list[i]
	}
	if j < len(list) {
		out[1] = &list[j]
	}
	return out
}

func checkSlot(slot *playoffs.Series, feeders []*playoffs.Series, idx status.GameIndex) []status.Violation {
	var out []status.Violation
	for n, feeder := range feeders {
		entrant := slot.Team1
		if n == 1 {
			entrant = slot.Team2
		}
		if feeder == nil || entrant == nil {
			continue
		}
		fv := status.ResolveSeries(feeder, idx)
		if fv.State != status.SeriesCompleted || fv.Winner == nil {
			continue
		}
		if fv.Winner.Team.ID != entrant.Team.ID {
			out = append(out, status.NewViolation(slot.ID, status.ViolationEntrantMismatch,
				fmt.Sprintf("slot %d holds %s but %s won %s", n+1, entrant.Team.ID, fv.Winner.Team.ID, feeder.ID)))
		}
	}
	return out
}
