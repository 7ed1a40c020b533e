package playoffs

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/teams"
)

const (
	// ClinchWins is the number of wins that takes a best-of-seven series.
	ClinchWins = 4
	// MaxGames is the length of a best-of-seven series.
	MaxGames = 7

	RoundFirst            = 1
	RoundSemifinals       = 2
	RoundConferenceFinals = 3
	RoundFinals           = 4
)

const (
	ConferenceEast = "East"
	ConferenceWest = "West"
)

// RecordedStatus is the status reported by the data layer. It is a hint only;
// the resolved state is always recomputed from win counts.
type RecordedStatus string

const (
	RecordedPending    RecordedStatus = "pending"
	RecordedInProgress RecordedStatus = "in_progress"
	RecordedCompleted  RecordedStatus = "completed"
)

// Entrant is one side of a series.
type Entrant struct {
	Team  teams.Team `json:"team"`
	Seed  int        `json:"seed"`
	Color string     `json:"color,omitempty"`
}

// DisplayName is the entrant's team display name.
func (e Entrant) DisplayName() string {
	return e.Team.DisplayName()
}

// Series is a best-of-seven matchup within a round.
type Series struct {
	ID         string         `json:"id"`
	Round      int            `json:"round"`
	Conference string         `json:"conference,omitempty"`
	Team1      *Entrant       `json:"team1,omitempty"`
	Team2      *Entrant       `json:"team2,omitempty"`
	Team1Wins  int            `json:"team1Wins"`
	Team2Wins  int            `json:"team2Wins"`
	GameIDs    []string       `json:"gameIds"`
	Status     RecordedStatus `json:"status,omitempty"`
}

// HasEntrants reports whether both bracket slots are filled.
func (s Series) HasEntrants() bool {
	return s.Team1 != nil && s.Team2 != nil
}

// Involves reports whether the team occupies either slot.
func (s Series) Involves(teamID string) bool {
	if teamID == "" {
		return false
	}
	return (s.Team1 != nil && s.Team1.Team.ID == teamID) || (s.Team2 != nil && s.Team2.Team.ID == teamID)
}

// ConferenceBracket holds one conference's tree.
type ConferenceBracket struct {
	Name            string   `json:"name"`
	Round1          []Series `json:"round1"`
	Round2          []Series `json:"round2"`
	ConferenceFinal *Series  `json:"conferenceFinal,omitempty"`
}

// Bracket is the whole playoff tree for one campaign season.
type Bracket struct {
	CampaignID string             `json:"campaignId"`
	Season     int                `json:"season,omitempty"`
	East       *ConferenceBracket `json:"east,omitempty"`
	West       *ConferenceBracket `json:"west,omitempty"`
	Finals     *Series            `json:"finals,omitempty"`
}

// Conferences returns the populated conference trees in search order.
func (b *Bracket) Conferences() []*ConferenceBracket {
	if b == nil {
		return nil
	}
	out := make([]*ConferenceBracket, 0, 2)
	if b.East != nil {
		out = append(out, b.East)
	}
	if b.West != nil {
		out = append(out, b.West)
	}
	return out
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (b *Bracket) Clone() *Bracket {
	if b == nil {
		return nil
	}
	out := &Bracket{CampaignID: b.CampaignID, Season: b.Season}
	out.East = b.East.clone()
	out.West = b.West.clone()
	out.Finals = b.Finals.Clone()
	return out
}

func (c *ConferenceBracket) clone() *ConferenceBracket {
	if c == nil {
		return nil
	}
	out := &ConferenceBracket{Name: c.Name}
	out.Round1 = cloneSeriesList(c.Round1)
	out.Round2 = cloneSeriesList(c.Round2)
	out.ConferenceFinal = c.ConferenceFinal.Clone()
	return out
}

func cloneSeriesList(in []Series) []Series {
	if in == nil {
		return nil
	}
	out := make([]Series, len(in))
	for i := range in {
		out[i] = *in[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the series.
func (s *Series) Clone() *Series {
	if s == nil {
		return nil
	}
	out := *s
	if s.Team1 != nil {
		e := *s.Team1
		out.Team1 = &e
	}
	if s.Team2 != nil {
		e := *s.Team2
		out.Team2 = &e
	}
	if s.GameIDs != nil {
		out.GameIDs = append([]string(nil), s.GameIDs...)
	}
	return &out
}

// Campaign is the season record the playoffs belong to.
type Campaign struct {
	ID          string `json:"id"`
	Season      int    `json:"season"`
	CurrentDate string `json:"currentDate"`
	UserTeamID  string `json:"userTeamId"`
	Phase       string `json:"phase,omitempty"`
}

// StandingsEntry is one row of league standings.
type StandingsEntry struct {
	TeamID     string `json:"teamId"`
	Conference string `json:"conference"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Seed       int    `json:"seed,omitempty"`
}

// Standings are refreshed alongside the bracket but never interpreted here.
type Standings struct {
	Entries []StandingsEntry `json:"entries"`
}

// UpgradeAward is an upgrade-points grant handed out after a user game.
type UpgradeAward struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Points     int    `json:"points"`
	Reason     string `json:"reason,omitempty"`
}

// PlayoffUpdate describes a clinch or elimination produced by a simulated game.
type PlayoffUpdate struct {
	SeriesID     string `json:"seriesId"`
	Event        string `json:"event"`
	WinnerTeamID string `json:"winnerTeamId,omitempty"`
	LoserTeamID  string `json:"loserTeamId,omitempty"`
	Message      string `json:"message,omitempty"`
}

const (
	UpdateClinched   = "clinched"
	UpdateEliminated = "eliminated"
	UpdateChampion   = "champion"
)

// NextGameResult is what the engine returns after simulating the next game.
type NextGameResult struct {
	UserGameResult       *games.Game    `json:"userGameResult,omitempty"`
	UpgradePointsAwarded []UpgradeAward `json:"upgradePointsAwarded,omitempty"`
	PlayoffUpdate        *PlayoffUpdate `json:"playoffUpdate,omitempty"`
}

// ChampionEvent announces the finals winner.
type ChampionEvent struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaignId"`
	SeriesID   string `json:"seriesId"`
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	Date       string `json:"date"`
	Season     int    `json:"season,omitempty"`
}

// FinalsID is the identifier of the cross-conference finals series.
const FinalsID = "finals"

// SeriesID builds the canonical identifier for a bracket slot, e.g. "east-r1-2" or "west-cf".
// Slots are 1-based.
func SeriesID(conference string, round, slot int) string {
	conf := strings.ToLower(conference)
	switch round {
	case RoundFinals:
		return FinalsID
	case RoundConferenceFinals:
		return conf + "-cf"
	default:
		return fmt.Sprintf("%s-r%d-%d", conf, round, slot)
	}
}
