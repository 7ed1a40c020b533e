package franchise

type envelope[T any] struct {
	Data T `json:"data"`
}

type teamResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Color        string `json:"primary_color"`
}

type entrantResponse struct {
	Team  teamResponse `json:"team"`
	Seed  int          `json:"seed"`
	Color string       `json:"color"`
}

type seriesResponse struct {
	ID        string           `json:"id"`
	Round     int              `json:"round"`
	Team1     *entrantResponse `json:"team1"`
	Team2     *entrantResponse `json:"team2"`
	Team1Wins int              `json:"team1_wins"`
	Team2Wins int              `json:"team2_wins"`
	GameIDs   []string         `json:"game_ids"`
	Status    string           `json:"status"`
}

type conferenceResponse struct {
	Round1          []seriesResponse `json:"round1"`
	Round2          []seriesResponse `json:"round2"`
	ConferenceFinal *seriesResponse  `json:"conference_final"`
}

type bracketResponse struct {
	Season int                 `json:"season"`
	East   *conferenceResponse `json:"east"`
	West   *conferenceResponse `json:"west"`
	Finals *seriesResponse     `json:"finals"`
}

type gameResponse struct {
	ID         string       `json:"id"`
	Date       string       `json:"date"`
	HomeTeam   teamResponse `json:"home_team"`
	AwayTeam   teamResponse `json:"away_team"`
	Status     string       `json:"status"`
	HomeScore  *int         `json:"home_score"`
	AwayScore  *int         `json:"away_score"`
	IsUserGame bool         `json:"is_user_game"`
}

type playerResponse struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Position      string `json:"position"`
	JerseyNumber  string `json:"jersey_number"`
	Starter       bool   `json:"starter"`
	Injured       bool   `json:"injured"`
	TargetMinutes int    `json:"target_minutes"`
}

type rosterResponse struct {
	Team    teamResponse     `json:"team"`
	Players []playerResponse `json:"players"`
}

type standingsRowResponse struct {
	TeamID     string `json:"team_id"`
	Conference string `json:"conference"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Seed       int    `json:"seed"`
}

type campaignResponse struct {
	ID          string `json:"id"`
	Season      int    `json:"season"`
	CurrentDate string `json:"current_date"`
	UserTeamID  string `json:"user_team_id"`
	Phase       string `json:"phase"`
}

type awardResponse struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Points     int    `json:"points"`
	Reason     string `json:"reason"`
}

type playoffUpdateResponse struct {
	SeriesID     string `json:"series_id"`
	Event        string `json:"event"`
	WinnerTeamID string `json:"winner_team_id"`
	LoserTeamID  string `json:"loser_team_id"`
	Message      string `json:"message"`
}

type nextGameResponse struct {
	UserGameResult       *gameResponse          `json:"user_game_result"`
	UpgradePointsAwarded []awardResponse        `json:"upgrade_points_awarded"`
	PlayoffUpdate        *playoffUpdateResponse `json:"playoff_update"`
}

type nextRoundRequest struct {
	SimAll bool `json:"simAll"`
}

type championRequest struct {
	CampaignID string `json:"campaign_id"`
	EventID    string `json:"event_id"`
	SeriesID   string `json:"series_id"`
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name"`
	Date       string `json:"date"`
	Season     int    `json:"season,omitempty"`
}
