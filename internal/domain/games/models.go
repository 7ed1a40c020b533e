package games

import "github.com/preston-bernstein/nba-playoffs-service/internal/domain/teams"

// Score captures home and away points. It is only present on completed games.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Game is a single scheduled playoff contest.
type Game struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"`
	HomeTeam   teams.Team `json:"homeTeam"`
	AwayTeam   teams.Team `json:"awayTeam"`
	Completed  bool       `json:"completed"`
	Cancelled  bool       `json:"cancelled"`
	InProgress bool       `json:"inProgress"`
	Score      *Score     `json:"score,omitempty"`
	IsUserGame bool       `json:"isUserGame"`
}

// Involves reports whether the team plays in this game.
func (g Game) Involves(teamID string) bool {
	return teamID != "" && (g.HomeTeam.ID == teamID || g.AwayTeam.ID == teamID)
}

// WinnerID returns the winning team id for a completed game with a decisive score.
func (g Game) WinnerID() (string, bool) {
	if !g.Completed || g.Score == nil || g.Score.Home == g.Score.Away {
		return "", false
	}
	if g.Score.Home > g.Score.Away {
		return g.HomeTeam.ID, true
	}
	return g.AwayTeam.ID, true
}

// Played reports whether the game has finished and was not cancelled.
func (g Game) Played() bool {
	return g.Completed && !g.Cancelled
}
