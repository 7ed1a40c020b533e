package players

import (
	"unicode/utf8"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/teams"
)

// RegulationMinutes is the exact rotation total a legal roster must target.
const RegulationMinutes = 200

// Player is a rostered player as seen by the lineup screen.
type Player struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Position      string     `json:"position"`
	JerseyNumber  string     `json:"jerseyNumber,omitempty"`
	Team          teams.Team `json:"team"`
	Starter       bool       `json:"starter"`
	Injured       bool       `json:"injured"`
	TargetMinutes int        `json:"targetMinutes"`
}

// DisplayName renders the player as "J. Smith".
func (p Player) DisplayName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	r, _ := utf8.DecodeRuneInString(p.FirstName)
	if p.LastName == "" {
		return p.FirstName
	}
	return string(r) + ". " + p.LastName
}

// Roster is the user's team roster with the rotation's target minutes.
type Roster struct {
	TeamID  string   `json:"teamId"`
	Players []Player `json:"players"`
}

// Starters returns the starting players in roster order.
func (r Roster) Starters() []Player {
	out := make([]Player, 0, 5)
	for _, p := range r.Players {
		if p.Starter {
			out = append(out, p)
		}
	}
	return out
}

// TotalMinutes sums target minutes across the whole rotation.
func (r Roster) TotalMinutes() int {
	total := 0
	for _, p := range r.Players {
		total += p.TargetMinutes
	}
	return total
}
