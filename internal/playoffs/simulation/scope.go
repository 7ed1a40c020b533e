package simulation

import (
	"fmt"
	"strings"
)

// Scope is the breadth of one simulate request.
type Scope string

const (
	// ScopeNextGame simulates the next unplayed game of one series.
	ScopeNextGame Scope = "next_game"
	// ScopeRound simulates AI games until the round ends or the user's game is due.
	ScopeRound Scope = "round"
	// ScopeAll simulates every remaining AI game, finals included, in one engine call.
	ScopeAll Scope = "all"
	// ScopePlay plays the user's own next game.
	ScopePlay Scope = "play"
)

// ParseScope accepts the wire names plus a few aliases ("game", "series", "playoffs").
func ParseScope(raw string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ScopeNextGame), "game", "next-game":
		return ScopeNextGame, nil
	case string(ScopeRound), "series", "rest_of_round":
		return ScopeRound, nil
	case string(ScopeAll), "playoffs", "sim_all":
		return ScopeAll, nil
	case string(ScopePlay):
		return ScopePlay, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, raw)
	}
}

func (s Scope) valid() bool {
	switch s {
	case ScopeNextGame, ScopeRound, ScopeAll, ScopePlay:
		return true
	}
	return false
}

// usesNextGame reports whether the scope runs through the single-game engine call.
func (s Scope) usesNextGame() bool {
	return s == ScopeNextGame || s == ScopePlay
}
