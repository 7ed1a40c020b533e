package status

import "github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"

// Slot is one of the seven display rows of a series. Placeholder rows have no game.
type Slot struct {
	Number int         `json:"number"`
	Game   *games.Game `json:"game,omitempty"`
	View   GameView    `json:"view"`
}

// Slots lays out the effective games followed by tbd placeholders.
func Slots(view SeriesView, ctx Context) []Slot {
	out := make([]Slot, 0, len(view.Games)+view.Placeholders)
	for i := range view.Games {
		g := view.Games[i]
		out = append(out, Slot{Number: i + 1, Game: &g, View: ResolveGame(&g, ctx)})
	}
	for i := 0; i < view.Placeholders; i++ {
		out = append(out, Slot{Number: len(view.Games) + i + 1, View: GameView{Status: GameTBD}})
	}
	return out
}
