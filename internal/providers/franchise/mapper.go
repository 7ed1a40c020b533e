package franchise

import (
	"strings"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/teams"
)

func mapTeam(t teamResponse) teams.Team {
	return teams.Team{
		ID:           t.ID,
		Name:         t.Name,
		FullName:     t.FullName,
		Abbreviation: t.Abbreviation,
		City:         t.City,
		Conference:   t.Conference,
		Color:        t.Color,
	}
}

func mapEntrant(e *entrantResponse) *playoffs.Entrant {
	if e == nil || e.Team.ID == "" {
		return nil
	}
	color := e.Color
	if color == "" {
		color = e.Team.Color
	}
	return &playoffs.Entrant{Team: mapTeam(e.Team), Seed: e.Seed, Color: color}
}

func mapSeries(s *seriesResponse, conference string) *playoffs.Series {
	if s == nil {
		return nil
	}
	return &playoffs.Series{
		ID:         s.ID,
		Round:      s.Round,
		Conference: conference,
		Team1:      mapEntrant(s.Team1),
		Team2:      mapEntrant(s.Team2),
		Team1Wins:  s.Team1Wins,
		Team2Wins:  s.Team2Wins,
		GameIDs:    append([]string(nil), s.GameIDs...),
		Status:     mapSeriesStatus(s.Status),
	}
}

func mapSeriesList(in []seriesResponse, conference string) []playoffs.Series {
	out := make([]playoffs.Series, 0, len(in))
	for i := range in {
		out = append(out, *mapSeries(&in[i], conference))
	}
	return out
}

func mapConference(c *conferenceResponse, name string) *playoffs.ConferenceBracket {
	if c == nil {
		return nil
	}
	return &playoffs.ConferenceBracket{
		Name:            name,
		Round1:          mapSeriesList(c.Round1, name),
		Round2:          mapSeriesList(c.Round2, name),
		ConferenceFinal: mapSeries(c.ConferenceFinal, name),
	}
}

func mapBracket(campaignID string, b bracketResponse) *playoffs.Bracket {
	return &playoffs.Bracket{
		CampaignID: campaignID,
		Season:     b.Season,
		East:       mapConference(b.East, playoffs.ConferenceEast),
		West:       mapConference(b.West, playoffs.ConferenceWest),
		Finals:     mapSeries(b.Finals, ""),
	}
}

func mapSeriesStatus(raw string) playoffs.RecordedStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "complete", "final":
		return playoffs.RecordedCompleted
	case "in_progress", "in progress", "active":
		return playoffs.RecordedInProgress
	case "":
		return ""
	default:
		return playoffs.RecordedPending
	}
}

// mapGame keeps the game invariants: a cancelled game is never completed or live,
// and scores only travel with a completed game.
func mapGame(g gameResponse) games.Game {
	out := games.Game{
		ID:         g.ID,
		Date:       g.Date,
		HomeTeam:   mapTeam(g.HomeTeam),
		AwayTeam:   mapTeam(g.AwayTeam),
		IsUserGame: g.IsUserGame,
	}
	switch strings.ToLower(strings.TrimSpace(g.Status)) {
	case "final", "completed", "complete":
		out.Completed = true
		if g.HomeScore != nil && g.AwayScore != nil {
			out.Score = &games.Score{Home: *g.HomeScore, Away: *g.AwayScore}
		}
	case "in_progress", "in progress", "live":
		out.InProgress = true
	case "cancelled", "canceled":
		out.Cancelled = true
	}
	return out
}

func mapGames(in []gameResponse) []games.Game {
	out := make([]games.Game, 0, len(in))
	for _, g := range in {
		out = append(out, mapGame(g))
	}
	return out
}

func mapRoster(r rosterResponse) players.Roster {
	team := mapTeam(r.Team)
	out := players.Roster{TeamID: team.ID, Players: make([]players.Player, 0, len(r.Players))}
	for _, p := range r.Players {
		out.Players = append(out.Players, players.Player{
			ID:            p.ID,
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			Position:      p.Position,
			JerseyNumber:  p.JerseyNumber,
			Team:          team,
			Starter:       p.Starter,
			Injured:       p.Injured,
			TargetMinutes: p.TargetMinutes,
		})
	}
	return out
}

func mapStandings(rows []standingsRowResponse) playoffs.Standings {
	out := playoffs.Standings{Entries: make([]playoffs.StandingsEntry, 0, len(rows))}
	for _, r := range rows {
		out.Entries = append(out.Entries, playoffs.StandingsEntry{
			TeamID:     r.TeamID,
			Conference: r.Conference,
			Wins:       r.Wins,
			Losses:     r.Losses,
			Seed:       r.Seed,
		})
	}
	return out
}

func mapCampaign(c campaignResponse) playoffs.Campaign {
	return playoffs.Campaign{
		ID:          c.ID,
		Season:      c.Season,
		CurrentDate: c.CurrentDate,
		UserTeamID:  c.UserTeamID,
		Phase:       c.Phase,
	}
}

func mapNextGame(r nextGameResponse) playoffs.NextGameResult {
	var out playoffs.NextGameResult
	if r.UserGameResult != nil {
		g := mapGame(*r.UserGameResult)
		out.UserGameResult = &g
	}
	for _, a := range r.UpgradePointsAwarded {
		out.UpgradePointsAwarded = append(out.UpgradePointsAwarded, playoffs.UpgradeAward{
			PlayerID:   a.PlayerID,
			PlayerName: a.PlayerName,
			Points:     a.Points,
			Reason:     a.Reason,
		})
	}
	if u := r.PlayoffUpdate; u != nil {
		out.PlayoffUpdate = &playoffs.PlayoffUpdate{
			SeriesID:     u.SeriesID,
			Event:        u.Event,
			WinnerTeamID: u.WinnerTeamID,
			LoserTeamID:  u.LoserTeamID,
			Message:      u.Message,
		}
	}
	return out
}
