package server

import (
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/nba-playoffs-service/internal/config"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers/fixture"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers/franchise"
)

func selectProvider(cfg config.Config, logger *slog.Logger) (providers.Client, error) {
	switch cfg.Provider {
	case config.ProviderFixture, "":
		opts := fixture.Options{
			CampaignID: cfg.CampaignID,
			UserTeamID: cfg.Fixture.UserTeam,
			Seed:       cfg.Fixture.Seed,
			Logger:     logger,
		}
		if cfg.Fixture.LeagueFile != "" {
			league, err := fixture.LoadLeagueFile(cfg.Fixture.LeagueFile)
			if err != nil {
				return nil, err
			}
			opts.League = &league
		}
		p, err := fixture.New(opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderFranchise:
		return franchise.NewClient(franchise.Config{
			BaseURL: cfg.Franchise.BaseURL,
			APIKey:  cfg.Franchise.APIKey,
			Timeout: cfg.Franchise.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
