package status

import (
	"sort"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
)

// GameStatus is the display classification of a single game.
type GameStatus string

const (
	GameTBD      GameStatus = "tbd"
	GameComplete GameStatus = "complete"
	GameLive     GameStatus = "live"
	GameNext     GameStatus = "next"
	GameUpcoming GameStatus = "upcoming"
)

// GameResult tags a completed game from the user's point of view.
type GameResult string

const (
	ResultNone GameResult = ""
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
)

// Context is what the resolvers need to know about the viewer.
type Context struct {
	UserTeamID     string `json:"userTeamId"`
	NextUserGameID string `json:"nextUserGameId,omitempty"`
}

// GameView is the resolved status of a game.
type GameView struct {
	Status GameStatus `json:"status"`
	Result GameResult `json:"result,omitempty"`
}

// ResolveGame classifies a game. Completion wins over live, live wins over next.
// Missing or malformed records resolve to tbd.
func ResolveGame(g *games.Game, ctx Context) GameView {
	if g == nil || g.ID == "" || g.Cancelled {
		return GameView{Status: GameTBD}
	}
	if g.Completed {
		if g.Score == nil {
			return GameView{Status: GameTBD}
		}
		return GameView{Status: GameComplete, Result: userResult(g, ctx.UserTeamID)}
	}
	if g.InProgress {
		return GameView{Status: GameLive}
	}
	if ctx.NextUserGameID != "" && g.ID == ctx.NextUserGameID {
		return GameView{Status: GameNext}
	}
	return GameView{Status: GameUpcoming}
}

func userResult(g *games.Game, userTeamID string) GameResult {
	if userTeamID == "" {
		return ResultNone
	}
	var mine, theirs int
	switch userTeamID {
	case g.HomeTeam.ID:
		mine, theirs = g.Score.Home, g.Score.Away
	case g.AwayTeam.ID:
		mine, theirs = g.Score.Away, g.Score.Home
	default:
		return ResultNone
	}
	switch {
	case mine > theirs:
		return ResultWin
	case mine < theirs:
		return ResultLoss
	default:
		return ResultNone
	}
}

// NextUserGame picks the earliest unplayed user game, ordered by date then id.
func NextUserGame(all []games.Game, userTeamID string) (games.Game, bool) {
	candidates := make([]games.Game, 0, 4)
	for _, g := range all {
		if g.Completed || g.Cancelled || g.InProgress {
			continue
		}
		if !g.IsUserGame && !g.Involves(userTeamID) {
			continue
		}
		candidates = append(candidates, g)
	}
	if len(candidates) == 0 {
		return games.Game{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Date != candidates[j].Date {
			return candidates[i].Date < candidates[j].Date
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0], true
}

// ContextFor builds a resolver context from the game collection.
func ContextFor(all []games.Game, userTeamID string) Context {
	ctx := Context{UserTeamID: userTeamID}
	if next, ok := NextUserGame(all, userTeamID); ok {
		ctx.NextUserGameID = next.ID
	}
	return ctx
}
