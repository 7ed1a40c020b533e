// Package fixture runs a self-contained playoff league in process. It serves the same
// reads and engine calls as the franchise API so the service can run without it.
package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers"
	"github.com/preston-bernstein/nba-playoffs-service/internal/timeutil"
)

const (
	DefaultCampaignID = "fixture-campaign"

	phasePlayoffs = "playoffs"
	phaseComplete = "complete"
)

// Options configures a fixture league.
type Options struct {
	CampaignID string
	UserTeamID string
	Seed       int64
	League     *League
	Logger     *slog.Logger
}

// Provider owns the league state. All methods are safe for concurrent use.
type Provider struct {
	mu        sync.Mutex
	rng       *rand.Rand
	logger    *slog.Logger
	campaign  playoffs.Campaign
	bracket   *playoffs.Bracket
	games     map[string]*games.Game
	order     []string
	rosters   map[string]players.Roster
	standings playoffs.Standings
	announced []playoffs.ChampionEvent
}

var _ providers.Client = (*Provider)(nil)

// New seeds a league: first-round series are paired 1v8, 4v5, 3v6, 2v7 and scheduled;
// later rounds fill in as series are clinched.
func New(opts Options) (*Provider, error) {
	league := DefaultLeague()
	if opts.League != nil {
		league = *opts.League
	}
	if err := league.Validate(); err != nil {
		return nil, err
	}
	if opts.CampaignID == "" {
		opts.CampaignID = DefaultCampaignID
	}
	start, _ := timeutil.ParseDate(league.StartDate)
	eve, _ := timeutil.ShiftDate(league.StartDate, -1)

	p := &Provider{
		rng:     rand.New(rand.NewSource(opts.Seed)),
		logger:  opts.Logger,
		games:   make(map[string]*games.Game),
		rosters: make(map[string]players.Roster),
		campaign: playoffs.Campaign{
			ID:          opts.CampaignID,
			Season:      league.Season,
			CurrentDate: eve,
			UserTeamID:  opts.UserTeamID,
			Phase:       phasePlayoffs,
		},
		bracket: &playoffs.Bracket{
			CampaignID: opts.CampaignID,
			Season:     league.Season,
			Finals:     &playoffs.Series{ID: playoffs.FinalsID, Round: playoffs.RoundFinals, Status: playoffs.RecordedPending},
		},
	}

	p.bracket.East = p.seedConference(playoffs.ConferenceEast, league.East, start)
	p.bracket.West = p.seedConference(playoffs.ConferenceWest, league.West, start)
	return p, nil
}

var firstRoundPairs = [][2]int{{1, 8}, {4, 5}, {3, 6}, {2, 7}}

func (p *Provider) seedConference(name string, specs []TeamSpec, start time.Time) *playoffs.ConferenceBracket {
	entrants := make([]*playoffs.Entrant, len(specs))
	for i, spec := range specs {
		team := spec.team(name)
		entrants[i] = &playoffs.Entrant{Team: team, Seed: i + 1, Color: team.Color}
		p.rosters[team.ID] = buildRoster(team)
		wins := 64 - 3*i
		p.standings.Entries = append(p.standings.Entries, playoffs.StandingsEntry{
			TeamID:     team.ID,
			Conference: name,
			Wins:       wins,
			Losses:     82 - wins,
			Seed:       i + 1,
		})
	}

	conf := &playoffs.ConferenceBracket{Name: name}
	for i, pair := range firstRoundPairs {
		conf.Round1 = append(conf.Round1, playoffs.Series{
			ID:         playoffs.SeriesID(name, playoffs.RoundFirst, i+1),
			Round:      playoffs.RoundFirst,
			Conference: name,
			Team1:      entrants[pair[0]-1],
			Team2:      entrants[pair[1]-1],
		})
	}
	for i := range conf.Round1 {
		p.schedule(&conf.Round1[i], start)
	}
	for i := 0; i < 2; i++ {
		conf.Round2 = append(conf.Round2, playoffs.Series{
			ID:         playoffs.SeriesID(name, playoffs.RoundSemifinals, i+1),
			Round:      playoffs.RoundSemifinals,
			Conference: name,
			Status:     playoffs.RecordedPending,
		})
	}
	conf.ConferenceFinal = &playoffs.Series{
		ID:         playoffs.SeriesID(name, playoffs.RoundConferenceFinals, 1),
		Round:      playoffs.RoundConferenceFinals,
		Conference: name,
		Status:     playoffs.RecordedPending,
	}
	return conf
}

// team1Hosts follows the 2-2-1-1-1 format: the higher seed hosts games 1, 2, 5 and 7.
var team1Hosts = [playoffs.MaxGames]bool{true, true, false, false, true, false, true}

func (p *Provider) schedule(s *playoffs.Series, start time.Time) {
	s.Status = playoffs.RecordedInProgress
	s.GameIDs = make([]string, 0, playoffs.MaxGames)
	for n := 0; n < playoffs.MaxGames; n++ {
		home, away := s.Team1.Team, s.Team2.Team
		if !team1Hosts[n] {
			home, away = away, home
		}
		g := &games.Game{
			ID:       fmt.Sprintf("%s-g%d", s.ID, n+1),
			Date:     timeutil.FormatDate(start.AddDate(0, 0, n)),
			HomeTeam: home,
			AwayTeam: away,
		}
		g.IsUserGame = p.campaign.UserTeamID != "" && g.Involves(p.campaign.UserTeamID)
		p.games[g.ID] = g
		p.order = append(p.order, g.ID)
		s.GameIDs = append(s.GameIDs, g.ID)
	}
}

func (p *Provider) checkCampaign(campaignID string) error {
	if campaignID != p.campaign.ID {
		return fmt.Errorf("campaign %q: %w", campaignID, providers.ErrNotFound)
	}
	return nil
}

func (p *Provider) FetchBracket(ctx context.Context, campaignID string) (*playoffs.Bracket, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkCampaign(campaignID); err != nil {
		return nil, err
	}
	return p.bracket.Clone(), nil
}

func (p *Provider) FetchGames(ctx context.Context, campaignID string, opts providers.FetchOptions) ([]games.Game, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkCampaign(campaignID); err != nil {
		return nil, err
	}
	out := make([]games.Game, 0, len(p.order))
	for _, id := range p.order {
		g := *p.games[id]
		if g.Score != nil {
			score := *g.Score
			g.Score = &score
		}
		out = append(out, g)
	}
	return out, nil
}

// FetchRoster returns the user team's roster.
func (p *Provider) FetchRoster(ctx context.Context, campaignID string, opts providers.FetchOptions) (players.Roster, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkCampaign(campaignID); err != nil {
		return players.Roster{}, err
	}
	r, ok := p.rosters[p.campaign.UserTeamID]
	if !ok {
		return players.Roster{TeamID: p.campaign.UserTeamID}, nil
	}
	return copyRoster(r), nil
}

func (p *Provider) FetchStandings(ctx context.Context, campaignID string, opts providers.FetchOptions) (playoffs.Standings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkCampaign(campaignID); err != nil {
		return playoffs.Standings{}, err
	}
	entries := append([]playoffs.StandingsEntry(nil), p.standings.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Conference != entries[j].Conference {
			return entries[i].Conference < entries[j].Conference
		}
		return entries[i].Seed < entries[j].Seed
	})
	return playoffs.Standings{Entries: entries}, nil
}

func (p *Provider) FetchCampaign(ctx context.Context, campaignID string) (playoffs.Campaign, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkCampaign(campaignID); err != nil {
		return playoffs.Campaign{}, err
	}
	return p.campaign, nil
}

// AnnounceChampion records the event; Announcements exposes what was received.
func (p *Provider) AnnounceChampion(ctx context.Context, event playoffs.ChampionEvent, campaignID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkCampaign(campaignID); err != nil {
		return err
	}
	p.announced = append(p.announced, event)
	return nil
}

func (p *Provider) Announcements() []playoffs.ChampionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]playoffs.ChampionEvent(nil), p.announced...)
}

// SetRoster replaces a team's roster, e.g. to put an injured starter in the lineup.
func (p *Provider) SetRoster(r players.Roster) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rosters[r.TeamID] = copyRoster(r)
}

func copyRoster(r players.Roster) players.Roster {
	return players.Roster{TeamID: r.TeamID, Players: append([]players.Player(nil), r.Players...)}
}

var (
	firstNames = []string{"Jordan", "Alex", "Casey", "Drew", "Evan", "Frank", "Gary", "Henry"}
	lastNames  = []string{"Smith", "Reed", "Lane", "Park", "Cole", "Hill", "Moss", "Ward"}
	positions  = []string{"PG", "SG", "SF", "PF", "C", "G", "F", "C"}
	// rotation sums to regulation minutes.
	rotation = []int{36, 34, 32, 30, 28, 20, 12, 8}
)

func buildRoster(team teams.Team) players.Roster {
	r := players.Roster{TeamID: team.ID}
	for i, minutes := range rotation {
		r.Players = append(r.Players, players.Player{
			ID:            fmt.Sprintf("%s-p%d", team.ID, i+1),
			FirstName:     firstNames[i],
			LastName:      lastNames[i],
			Position:      positions[i],
			JerseyNumber:  fmt.Sprintf("%d", i*3+1),
			Team:          team,
			Starter:       i < 5,
			TargetMinutes: minutes,
		})
	}
	return r
}
