package fixture

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-playoffs-service/internal/timeutil"
)

const (
	defaultSeason    = 2025
	defaultStartDate = "2025-04-19"
	teamsPerSide     = 8
)

// TeamSpec is one team entry in a league file, listed by seed.
type TeamSpec struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	City         string `yaml:"city"`
	Abbreviation string `yaml:"abbreviation"`
	Color        string `yaml:"color"`
}

// League describes the playoff field the fixture engine runs.
type League struct {
	Season    int        `yaml:"season"`
	StartDate string     `yaml:"startDate"`
	East      []TeamSpec `yaml:"east"`
	West      []TeamSpec `yaml:"west"`
}

// DefaultLeague is the built-in sixteen-team field.
func DefaultLeague() League {
	return League{
		Season:    defaultSeason,
		StartDate: defaultStartDate,
		East: []TeamSpec{
			{ID: "bos", Name: "Celtics", City: "Boston", Abbreviation: "BOS", Color: "#007A33"},
			{ID: "nyk", Name: "Knicks", City: "New York", Abbreviation: "NYK", Color: "#006BB6"},
			{ID: "mil", Name: "Bucks", City: "Milwaukee", Abbreviation: "MIL", Color: "#00471B"},
			{ID: "cle", Name: "Cavaliers", City: "Cleveland", Abbreviation: "CLE", Color: "#860038"},
			{ID: "orl", Name: "Magic", City: "Orlando", Abbreviation: "ORL", Color: "#0077C0"},
			{ID: "ind", Name: "Pacers", City: "Indiana", Abbreviation: "IND", Color: "#002D62"},
			{ID: "phi", Name: "76ers", City: "Philadelphia", Abbreviation: "PHI", Color: "#006BB6"},
			{ID: "mia", Name: "Heat", City: "Miami", Abbreviation: "MIA", Color: "#98002E"},
		},
		West: []TeamSpec{
			{ID: "okc", Name: "Thunder", City: "Oklahoma City", Abbreviation: "OKC", Color: "#007AC1"},
			{ID: "den", Name: "Nuggets", City: "Denver", Abbreviation: "DEN", Color: "#0E2240"},
			{ID: "min", Name: "Timberwolves", City: "Minnesota", Abbreviation: "MIN", Color: "#0C2340"},
			{ID: "lac", Name: "Clippers", City: "LA", Abbreviation: "LAC", Color: "#C8102E"},
			{ID: "dal", Name: "Mavericks", City: "Dallas", Abbreviation: "DAL", Color: "#00538C"},
			{ID: "phx", Name: "Suns", City: "Phoenix", Abbreviation: "PHX", Color: "#1D1160"},
			{ID: "nop", Name: "Pelicans", City: "New Orleans", Abbreviation: "NOP", Color: "#0C2340"},
			{ID: "lal", Name: "Lakers", City: "Los Angeles", Abbreviation: "LAL", Color: "#552583"},
		},
	}
}

// LoadLeagueFile reads a YAML league description. Missing season or start date fall
// back to the built-in values.
func LoadLeagueFile(path string) (League, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return League{}, fmt.Errorf("read league file: %w", err)
	}
	var l League
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return League{}, fmt.Errorf("parse league file %s: %w", path, err)
	}
	if l.Season == 0 {
		l.Season = defaultSeason
	}
	if l.StartDate == "" {
		l.StartDate = defaultStartDate
	}
	if err := l.Validate(); err != nil {
		return League{}, err
	}
	return l, nil
}

// Validate checks the field has eight uniquely identified teams per conference and a
// usable start date.
func (l League) Validate() error {
	if _, err := timeutil.ParseDate(l.StartDate); err != nil {
		return fmt.Errorf("league start date %q: %w", l.StartDate, err)
	}
	seen := make(map[string]struct{}, 2*teamsPerSide)
	for _, side := range []struct {
		name  string
		teams []TeamSpec
	}{{playoffs.ConferenceEast, l.East}, {playoffs.ConferenceWest, l.West}} {
		if len(side.teams) != teamsPerSide {
			return fmt.Errorf("league %s conference has %d teams, want %d", side.name, len(side.teams), teamsPerSide)
		}
		for _, t := range side.teams {
			id := strings.TrimSpace(t.ID)
			if id == "" {
				return fmt.Errorf("league %s conference has a team without id", side.name)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("league team %q listed twice", id)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

func (t TeamSpec) team(conference string) teams.Team {
	abbr := t.Abbreviation
	if abbr == "" {
		abbr = strings.ToUpper(t.ID)
	}
	full := strings.TrimSpace(t.City + " " + t.Name)
	return teams.Team{
		ID:           t.ID,
		Name:         t.Name,
		FullName:     full,
		Abbreviation: abbr,
		City:         t.City,
		Conference:   conference,
		Color:        t.Color,
	}
}
