package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-playoffs-service/internal/config"
	"github.com/preston-bernstein/nba-playoffs-service/internal/logging"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/simulation"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers/fixture"
	"github.com/preston-bernstein/nba-playoffs-service/internal/store"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	campaignID string
	seed       int64
	userTeam   string
	leagueFile string
	output     string
	logLevel   string
}

// league is the loaded fixture plus the orchestrator driving it.
type league struct {
	provider *fixture.Provider
	orch     *simulation.Orchestrator
	store    *store.MemoryStore
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var lg *league

	rootCmd := &cobra.Command{
		Use:           "playoffsctl",
		Short:         "Inspect and simulate a fixture playoff league",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != outputText && opts.output != outputJSON {
				return fmt.Errorf("unknown output %q (want text or json)", opts.output)
			}
			loaded, err := loadLeague(cmd, opts)
			if err != nil {
				return err
			}
			lg = loaded
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.campaignID, "campaign", "", "Campaign id (defaults to CAMPAIGN_ID)")
	flags.Int64Var(&opts.seed, "seed", 0, "Fixture seed (defaults to FIXTURE_SEED)")
	flags.StringVar(&opts.userTeam, "user-team", "", "Team controlled by the user (defaults to FIXTURE_USER_TEAM)")
	flags.StringVar(&opts.leagueFile, "league-file", "", "YAML league description (defaults to FIXTURE_LEAGUE_FILE)")
	flags.StringVarP(&opts.output, "output", "o", outputText, "Output format (text, json)")
	flags.StringVar(&opts.logLevel, "log", "error", "Log level (debug, info, warn, error)")

	get := func() *league { return lg }
	rootCmd.AddCommand(
		newBracketCmd(opts, get),
		newSeriesCmd(opts, get),
		newValidateCmd(opts, get),
		newSimulateCmd(opts, get),
	)
	return rootCmd
}

// loadLeague merges flags over the environment config, seeds the fixture and loads it.
func loadLeague(cmd *cobra.Command, opts *options) (*league, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("campaign") {
		cfg.CampaignID = opts.campaignID
	}
	if flags.Changed("seed") {
		cfg.Fixture.Seed = opts.seed
	}
	if flags.Changed("user-team") {
		cfg.Fixture.UserTeam = opts.userTeam
	}
	if flags.Changed("league-file") {
		cfg.Fixture.LeagueFile = opts.leagueFile
	}

	logger := logging.NewLogger(logging.Config{
		Level:  opts.logLevel,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})

	fixtureOpts := fixture.Options{
		CampaignID: cfg.CampaignID,
		UserTeamID: cfg.Fixture.UserTeam,
		Seed:       cfg.Fixture.Seed,
		Logger:     logger,
	}
	if cfg.Fixture.LeagueFile != "" {
		l, err := fixture.LoadLeagueFile(cfg.Fixture.LeagueFile)
		if err != nil {
			return nil, err
		}
		fixtureOpts.League = &l
	}
	provider, err := fixture.New(fixtureOpts)
	if err != nil {
		return nil, err
	}

	st := store.NewMemoryStore()
	orch := simulation.New(simulation.Config{
		CampaignID: cfg.CampaignID,
		Source:     provider,
		Engine:     provider,
		Champions:  provider,
		Store:      st,
		Logger:     logger,
	})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := orch.Load(ctx); err != nil {
		return nil, fmt.Errorf("load league: %w", err)
	}
	return &league{provider: provider, orch: orch, store: st, logger: logger}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
