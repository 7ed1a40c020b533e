package testutil

import (
	"strings"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/teams"
)

// EastSeeds and WestSeeds list team ids by seed (index 0 is the 1 seed).
var (
	EastSeeds = []string{"bos", "nyk", "mil", "cle", "orl", "ind", "phi", "mia"}
	WestSeeds = []string{"okc", "den", "min", "lac", "dal", "phx", "nop", "lal"}
)

// Team builds a team whose name fields derive from the id.
func Team(id string) teams.Team {
	upper := strings.ToUpper(id)
	return teams.Team{
		ID:           id,
		Name:         upper,
		FullName:     upper + " Team",
		Abbreviation: upper,
	}
}

// Entrant builds a bracket entrant.
func Entrant(id string, seed int) *playoffs.Entrant {
	return &playoffs.Entrant{Team: Team(id), Seed: seed, Color: "#" + strings.Repeat("0", 6)}
}

// Series builds a series between two entrants with the given record.
func Series(id string, round int, t1, t2 *playoffs.Entrant, w1, w2 int, gameIDs ...string) playoffs.Series {
	return playoffs.Series{
		ID:        id,
		Round:     round,
		Team1:     t1,
		Team2:     t2,
		Team1Wins: w1,
		Team2Wins: w2,
		GameIDs:   gameIDs,
	}
}

// ScheduledGame builds a not-started game.
func ScheduledGame(id, date, home, away string) games.Game {
	return games.Game{ID: id, Date: date, HomeTeam: Team(home), AwayTeam: Team(away)}
}

// FinalGame builds a completed game with a score.
func FinalGame(id, date, home, away string, homeScore, awayScore int) games.Game {
	g := ScheduledGame(id, date, home, away)
	g.Completed = true
	g.Score = &games.Score{Home: homeScore, Away: awayScore}
	return g
}

// CompletedConference builds a conference tree where the higher seed won every series 4-1.
func CompletedConference(name string, seeds []string) *playoffs.ConferenceBracket {
	seed := func(n int) *playoffs.Entrant { return Entrant(seeds[n-1], n) }
	pairs := [][2]int{{1, 8}, {4, 5}, {3, 6}, {2, 7}}

	conf := &playoffs.ConferenceBracket{Name: name}
	for i, p := range pairs {
		s := Series(playoffs.SeriesID(name, playoffs.RoundFirst, i+1), playoffs.RoundFirst, seed(p[0]), seed(p[1]), 4, 1)
		s.Conference = name
		s.Status = playoffs.RecordedCompleted
		conf.Round1 = append(conf.Round1, s)
	}
	r2 := [][2]int{{1, 4}, {3, 2}}
	for i, p := range r2 {
		s := Series(playoffs.SeriesID(name, playoffs.RoundSemifinals, i+1), playoffs.RoundSemifinals, seed(p[0]), seed(p[1]), 4, 1)
		if p[0] == 3 {
			s.Team1Wins, s.Team2Wins = 1, 4
		}
		s.Conference = name
		s.Status = playoffs.RecordedCompleted
		conf.Round2 = append(conf.Round2, s)
	}
	cf := Series(playoffs.SeriesID(name, playoffs.RoundConferenceFinals, 1), playoffs.RoundConferenceFinals, seed(1), seed(2), 4, 1)
	cf.Conference = name
	cf.Status = playoffs.RecordedCompleted
	conf.ConferenceFinal = &cf
	return conf
}

// FinalsBracket builds a bracket whose conference trees are complete and whose finals
// (east 1 seed vs west 1 seed) stand at the given record.
func FinalsBracket(campaignID string, w1, w2 int, gameIDs ...string) *playoffs.Bracket {
	finals := Series(playoffs.FinalsID, playoffs.RoundFinals, Entrant(EastSeeds[0], 1), Entrant(WestSeeds[0], 1), w1, w2, gameIDs...)
	finals.Status = playoffs.RecordedInProgress
	return &playoffs.Bracket{
		CampaignID: campaignID,
		Season:     2025,
		East:       CompletedConference(playoffs.ConferenceEast, EastSeeds),
		West:       CompletedConference(playoffs.ConferenceWest, WestSeeds),
		Finals:     &finals,
	}
}

// FirstRoundBracket builds a bracket with every first-round series in progress at the
// given record and later rounds pending.
func FirstRoundBracket(campaignID string, w1, w2 int) *playoffs.Bracket {
	build := func(name string, seeds []string) *playoffs.ConferenceBracket {
		pairs := [][2]int{{1, 8}, {4, 5}, {3, 6}, {2, 7}}
		conf := &playoffs.ConferenceBracket{Name: name}
		for i, p := range pairs {
			s := Series(playoffs.SeriesID(name, playoffs.RoundFirst, i+1), playoffs.RoundFirst,
				Entrant(seeds[p[0]-1], p[0]), Entrant(seeds[p[1]-1], p[1]), w1, w2)
			s.Conference = name
			conf.Round1 = append(conf.Round1, s)
		}
		for i := 0; i < 2; i++ {
			conf.Round2 = append(conf.Round2, playoffs.Series{
				ID:         playoffs.SeriesID(name, playoffs.RoundSemifinals, i+1),
				Round:      playoffs.RoundSemifinals,
				Conference: name,
			})
		}
		conf.ConferenceFinal = &playoffs.Series{
			ID:         playoffs.SeriesID(name, playoffs.RoundConferenceFinals, 1),
			Round:      playoffs.RoundConferenceFinals,
			Conference: name,
		}
		return conf
	}
	return &playoffs.Bracket{
		CampaignID: campaignID,
		Season:     2025,
		East:       build(playoffs.ConferenceEast, EastSeeds),
		West:       build(playoffs.ConferenceWest, WestSeeds),
		Finals:     &playoffs.Series{ID: playoffs.FinalsID, Round: playoffs.RoundFinals},
	}
}

// LegalRoster builds a roster with healthy starters and exactly 200 rotation minutes.
func LegalRoster(teamID string) players.Roster {
	minutes := []int{36, 36, 34, 34, 30, 20, 10}
	names := [][2]string{
		{"Jordan", "Smith"}, {"Alex", "Reed"}, {"Casey", "Lane"}, {"Drew", "Park"},
		{"Evan", "Cole"}, {"Frank", "Hill"}, {"Gary", "Moss"},
	}
	r := players.Roster{TeamID: teamID}
	for i, m := range minutes {
		r.Players = append(r.Players, players.Player{
			ID:            teamID + "-p" + string(rune('1'+i)),
			FirstName:     names[i][0],
			LastName:      names[i][1],
			Team:          Team(teamID),
			Starter:       i < 5,
			TargetMinutes: m,
		})
	}
	return r
}
