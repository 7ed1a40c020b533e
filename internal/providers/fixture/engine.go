package fixture

import (
	"context"
	"errors"
	"fmt"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/logging"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/bracket"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers"
	"github.com/preston-bernstein/nba-playoffs-service/internal/timeutil"
)

// ErrNothingToSimulate is returned once no playable game remains.
var ErrNothingToSimulate = errors.New("fixture: no games left to simulate")

type dayOutcome struct {
	userGame *games.Game
	clinched []*playoffs.Series
}

// SimulateNextGame plays every game on the next game day, the user's included.
func (p *Provider) SimulateNextGame(ctx context.Context, campaignID string) (playoffs.NextGameResult, error) {
	if err := ctx.Err(); err != nil {
		return playoffs.NextGameResult{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkCampaign(campaignID); err != nil {
		return playoffs.NextGameResult{}, err
	}

	day, ok := p.nextDay()
	if !ok {
		return playoffs.NextGameResult{}, ErrNothingToSimulate
	}
	return p.resultFor(p.playDay(day)), nil
}

// SimulateToNextRound plays game days until the current round is over or the user's
// next game is due. SimAll carries on through later rounds with the same stop rule.
func (p *Provider) SimulateToNextRound(ctx context.Context, campaignID string, opts providers.RoundOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkCampaign(campaignID); err != nil {
		return err
	}

	round := p.currentRound()
	if round == 0 {
		return ErrNothingToSimulate
	}
	days := 0
	for {
		day, ok := p.nextDay()
		if !ok || p.userPlaysOn(day) {
			break
		}
		p.playDay(day)
		days++
		if !opts.SimAll && p.roundComplete(round) {
			break
		}
	}
	logging.Debug(p.logger, "fixture simulated to next round",
		"round", round, "sim_all", opts.SimAll, "days", days, "date", p.campaign.CurrentDate)
	return nil
}

func unplayed(g *games.Game) bool {
	return !g.Completed && !g.Cancelled
}

func (p *Provider) nextDay() (string, bool) {
	day := ""
	for _, id := range p.order {
		g := p.games[id]
		if unplayed(g) && (day == "" || g.Date < day) {
			day = g.Date
		}
	}
	return day, day != ""
}

func (p *Provider) userPlaysOn(day string) bool {
	for _, id := range p.order {
		g := p.games[id]
		if g.Date == day && g.IsUserGame && unplayed(g) {
			return true
		}
	}
	return false
}

func (p *Provider) playDay(day string) dayOutcome {
	var out dayOutcome
	ids := append([]string(nil), p.order...)
	for _, id := range ids {
		g := p.games[id]
		if g.Date != day || !unplayed(g) {
			continue
		}
		p.playGame(g)
		if g.IsUserGame {
			played := *g
			out.userGame = &played
		}

		s, err := bracket.SeriesForGame(p.bracket, g.ID)
		if err != nil {
			continue
		}
		winner, _ := g.WinnerID()
		if s.Team1 != nil && winner == s.Team1.Team.ID {
			s.Team1Wins++
		} else {
			s.Team2Wins++
		}
		if s.Team1Wins == playoffs.ClinchWins || s.Team2Wins == playoffs.ClinchWins {
			p.clinch(s, day)
			out.clinched = append(out.clinched, s)
		}
	}
	p.campaign.CurrentDate = day
	return out
}

func (p *Provider) playGame(g *games.Game) {
	home := 98 + p.rng.Intn(31)
	away := 95 + p.rng.Intn(31)
	if home == away {
		if p.rng.Intn(2) == 0 {
			home += 1 + p.rng.Intn(8)
		} else {
			away += 1 + p.rng.Intn(8)
		}
	}
	g.Completed = true
	g.InProgress = false
	g.Score = &games.Score{Home: home, Away: away}
}

func (p *Provider) clinch(s *playoffs.Series, day string) {
	s.Status = playoffs.RecordedCompleted
	for _, id := range s.GameIDs {
		if g := p.games[id]; g != nil && unplayed(g) {
			g.Cancelled = true
		}
	}

	target, side := p.nextSlot(s)
	if target == nil {
		p.campaign.Phase = phaseComplete
		return
	}
	winner := *s.Team1
	if s.Team2Wins > s.Team1Wins {
		winner = *s.Team2
	}
	if side == 0 {
		target.Team1 = &winner
	} else {
		target.Team2 = &winner
	}
	if target.HasEntrants() {
		start, _ := timeutil.ParseDate(day)
		p.schedule(target, start.AddDate(0, 0, 1))
	}
}

// nextSlot returns the series the winner of s advances to and which side it takes.
func (p *Provider) nextSlot(s *playoffs.Series) (*playoffs.Series, int) {
	conf := p.bracket.East
	if s.Conference == playoffs.ConferenceWest {
		conf = p.bracket.West
	}
	switch s.Round {
	case playoffs.RoundFirst:
		for i := range conf.Round1 {
			if conf.Round1[i].ID == s.ID {
				return &conf.Round2[i/2], i % 2
			}
		}
	case playoffs.RoundSemifinals:
		for i := range conf.Round2 {
			if conf.Round2[i].ID == s.ID {
				return conf.ConferenceFinal, i
			}
		}
	case playoffs.RoundConferenceFinals:
		if s.Conference == playoffs.ConferenceWest {
			return p.bracket.Finals, 1
		}
		return p.bracket.Finals, 0
	}
	return nil, 0
}

// currentRound is the earliest round with a live series, or 0 once the finals are over.
func (p *Provider) currentRound() int {
	round := 0
	bracket.Walk(p.bracket, func(s *playoffs.Series) bool {
		if s.HasEntrants() && s.Status != playoffs.RecordedCompleted && (round == 0 || s.Round < round) {
			round = s.Round
		}
		return true
	})
	return round
}

func (p *Provider) roundComplete(round int) bool {
	done := true
	bracket.Walk(p.bracket, func(s *playoffs.Series) bool {
		if s.Round == round && s.Status != playoffs.RecordedCompleted {
			done = false
			return false
		}
		return true
	})
	return done
}

func (p *Provider) resultFor(out dayOutcome) playoffs.NextGameResult {
	var res playoffs.NextGameResult
	user := p.campaign.UserTeamID
	if out.userGame == nil || user == "" {
		return res
	}
	res.UserGameResult = out.userGame

	if winner, ok := out.userGame.WinnerID(); ok && winner == user {
		if award, ok := p.award(user); ok {
			res.UpgradePointsAwarded = append(res.UpgradePointsAwarded, award)
		}
	}
	for _, s := range out.clinched {
		if !s.Involves(user) {
			continue
		}
		res.PlayoffUpdate = seriesUpdate(s, user)
	}
	return res
}

func (p *Provider) award(teamID string) (playoffs.UpgradeAward, bool) {
	starters := p.rosters[teamID].Starters()
	if len(starters) == 0 {
		return playoffs.UpgradeAward{}, false
	}
	pl := starters[p.rng.Intn(len(starters))]
	return playoffs.UpgradeAward{
		PlayerID:   pl.ID,
		PlayerName: pl.DisplayName(),
		Points:     1 + p.rng.Intn(3),
		Reason:     "playoff win",
	}, true
}

func seriesUpdate(s *playoffs.Series, userTeamID string) *playoffs.PlayoffUpdate {
	winner, loser := s.Team1, s.Team2
	if s.Team2Wins > s.Team1Wins {
		winner, loser = loser, winner
	}
	update := &playoffs.PlayoffUpdate{
		SeriesID:     s.ID,
		WinnerTeamID: winner.Team.ID,
		LoserTeamID:  loser.Team.ID,
	}
	wins, losses := s.Team1Wins, s.Team2Wins
	if wins < losses {
		wins, losses = losses, wins
	}
	switch {
	case winner.Team.ID == userTeamID && s.Round == playoffs.RoundFinals:
		update.Event = playoffs.UpdateChampion
		update.Message = fmt.Sprintf("%s are champions after winning the finals %d-%d", winner.DisplayName(), wins, losses)
	case winner.Team.ID == userTeamID:
		update.Event = playoffs.UpdateClinched
		update.Message = fmt.Sprintf("%s advance, beating %s %d-%d", winner.DisplayName(), loser.DisplayName(), wins, losses)
	default:
		update.Event = playoffs.UpdateEliminated
		update.Message = fmt.Sprintf("%s were eliminated by %s %d-%d", loser.DisplayName(), winner.DisplayName(), wins, losses)
	}
	return update
}
