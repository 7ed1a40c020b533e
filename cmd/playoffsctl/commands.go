package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/bracket"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/roster"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/simulation"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/status"
)

// maxFinishSteps bounds --finish; a full postseason needs far fewer engine calls.
const maxFinishSteps = 500

func newBracketCmd(opts *options, get func() *league) *cobra.Command {
	return &cobra.Command{
		Use:   "bracket",
		Short: "Print every series of the bracket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lg := get()
			view := bracket.Resolve(lg.store.Bracket(), lg.store.GameIndex())
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			printBracket(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func newSeriesCmd(opts *options, get func() *league) *cobra.Command {
	return &cobra.Command{
		Use:   "series <id>",
		Short: "Print one series with its games and remaining slots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lg := get()
			s, err := bracket.Find(lg.store.Bracket(), args[0])
			if err != nil {
				return err
			}
			view := status.ResolveSeries(s, lg.store.GameIndex())
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			out := cmd.OutOrStdout()
			printSeries(out, view)
			ctx := status.ContextFor(lg.store.Games(), lg.store.Campaign().UserTeamID)
			for _, slot := range status.Slots(view, ctx) {
				if slot.Game == nil {
					fmt.Fprintf(out, "  game %d  %s\n", slot.Number, slot.View.Status)
					continue
				}
				fmt.Fprintf(out, "  game %d  %-10s %s %s\n", slot.Number, slot.View.Status, slot.Game.Date, slot.Game.ID)
			}
			return nil
		},
	}
}

func newValidateCmd(opts *options, get func() *league) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check whether a roster may take the floor",
		Long:  "Validates the roster in --file (JSON), or the user team's current roster when no file is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lg := get()
			r := lg.store.Roster()
			if file != "" {
				loaded, err := readRoster(file)
				if err != nil {
					return err
				}
				r = loaded
			}
			rejection := roster.Validate(r)
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"legal": rejection == nil, "rejection": rejection})
			}
			if rejection == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "roster is legal")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rejected: %s\nhint: %s\n", rejection.Message, rejection.Hint)
			return rejection
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Roster JSON file")
	return cmd
}

func newSimulateCmd(opts *options, get func() *league) *cobra.Command {
	var (
		scope    string
		seriesID string
		finish   bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one simulation, or play out the whole postseason with --finish",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lg := get()
			parsed, err := simulation.ParseScope(scope)
			if err != nil {
				return err
			}
			if finish {
				return finishPlayoffs(cmd, opts, lg)
			}
			out, err := lg.orch.Simulate(cmd.Context(), simulation.Request{Scope: parsed, SeriesID: seriesID})
			if err != nil {
				return err
			}
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "simulated %s through %s\n", out.Scope, lg.store.Campaign().CurrentDate)
			if out.Result != nil && out.Result.UserGameResult != nil {
				g := out.Result.UserGameResult
				fmt.Fprintf(cmd.OutOrStdout(), "user game %s: %s\n", g.ID, status.ResolveGame(g, status.Context{UserTeamID: lg.store.Campaign().UserTeamID}).Result)
			}
			if out.Champion != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "champion: %s\n", out.Champion.TeamName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", string(simulation.ScopeRound), "Scope: next_game, round, all or play")
	cmd.Flags().StringVar(&seriesID, "series", "", "Series id for --scope next_game")
	cmd.Flags().BoolVar(&finish, "finish", false, "Alternate simulate-all and the user's games until a champion is crowned")
	return cmd
}

// finishPlayoffs simulates everything it can, plays the user's game when one blocks
// progress and stops once the finals have a winner.
func finishPlayoffs(cmd *cobra.Command, opts *options, lg *league) error {
	ctx := cmd.Context()
	steps := 0
	for ; steps < maxFinishSteps; steps++ {
		if champ, ok := bracket.Champion(lg.store.Bracket(), lg.store.GameIndex()); ok {
			return reportChampion(cmd.OutOrStdout(), opts, champ, lg.store.Campaign().CurrentDate, steps)
		}
		if _, err := lg.orch.Simulate(ctx, simulation.Request{Scope: simulation.ScopeAll}); err != nil {
			return err
		}
		if _, ok := bracket.Champion(lg.store.Bracket(), lg.store.GameIndex()); ok {
			continue
		}
		if _, err := lg.orch.Play(ctx, false); err != nil && !errors.Is(err, simulation.ErrNoUserGame) {
			return err
		}
	}
	return fmt.Errorf("no champion after %d steps", steps)
}

func reportChampion(w io.Writer, opts *options, champ *playoffs.Entrant, date string, steps int) error {
	if opts.output == outputJSON {
		return writeJSON(w, map[string]any{"champion": champ, "date": date, "steps": steps})
	}
	fmt.Fprintf(w, "champion: %s (%s, %d steps)\n", champ.DisplayName(), date, steps)
	return nil
}

func readRoster(path string) (players.Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return players.Roster{}, fmt.Errorf("read roster: %w", err)
	}
	var r players.Roster
	if err := json.Unmarshal(raw, &r); err != nil {
		return players.Roster{}, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return r, nil
}

func printBracket(w io.Writer, view bracket.View) {
	for _, sv := range view.Series {
		printSeries(w, sv)
	}
	if view.Champion != nil {
		fmt.Fprintf(w, "champion: %s\n", view.Champion.DisplayName())
	}
	for _, v := range view.Violations {
		fmt.Fprintf(w, "warning: %s %s\n", v.SeriesID, v.Kind)
	}
}

func printSeries(w io.Writer, sv status.SeriesView) {
	fmt.Fprintf(w, "%-10s %-22s %4s %d-%d %-4s %s\n",
		sv.SeriesID, sv.RoundLabel, abbreviation(sv.Team1), sv.Team1Wins, sv.Team2Wins, abbreviation(sv.Team2), sv.State)
}

func abbreviation(e *playoffs.Entrant) string {
	if e == nil {
		return "TBD"
	}
	return e.Team.Abbreviation
}
