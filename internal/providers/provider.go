package providers

import (
	"context"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
)

// FetchOptions tunes a read. Force bypasses any cache in front of the data layer.
type FetchOptions struct {
	Force bool
}

// RoundOptions tunes simulate-to-next-round. SimAll keeps going through every remaining round.
type RoundOptions struct {
	SimAll bool
}

// DataSource is the read side of the franchise data layer.
type DataSource interface {
	// FetchBracket returns ErrNotFound when the campaign has no playoff bracket yet.
	FetchBracket(ctx context.Context, campaignID string) (*playoffs.Bracket, error)
	FetchGames(ctx context.Context, campaignID string, opts FetchOptions) ([]games.Game, error)
	FetchRoster(ctx context.Context, campaignID string, opts FetchOptions) (players.Roster, error)
	FetchStandings(ctx context.Context, campaignID string, opts FetchOptions) (playoffs.Standings, error)
	FetchCampaign(ctx context.Context, campaignID string) (playoffs.Campaign, error)
}

// Engine runs games. Calls are not idempotent and must never be retried automatically.
type Engine interface {
	SimulateNextGame(ctx context.Context, campaignID string) (playoffs.NextGameResult, error)
	SimulateToNextRound(ctx context.Context, campaignID string, opts RoundOptions) error
}

// ChampionSink receives champion announcements, e.g. the league news feed.
type ChampionSink interface {
	AnnounceChampion(ctx context.Context, event playoffs.ChampionEvent, campaignID string) error
}

// Client bundles everything one upstream offers.
type Client interface {
	DataSource
	Engine
	ChampionSink
}
