package config

import "time"

// FranchiseConfig controls how we talk to the franchise engine API.
type FranchiseConfig struct {
	BaseURL string        `env:"FRANCHISE_BASE_URL" envDefault:"http://localhost:8080/api"`
	APIKey  string        `env:"FRANCHISE_API_KEY"`
	Timeout time.Duration `env:"FRANCHISE_TIMEOUT" envDefault:"30s"`
}

// FixtureConfig seeds the in-process league used for local play.
type FixtureConfig struct {
	Seed       int64  `env:"FIXTURE_SEED" envDefault:"42"`
	UserTeam   string `env:"FIXTURE_USER_TEAM" envDefault:"bos"`
	LeagueFile string `env:"FIXTURE_LEAGUE_FILE"`
}

// RefreshConfig tunes the retrying read wrapper around the provider.
type RefreshConfig struct {
	Attempts int           `env:"REFRESH_RETRY_ATTEMPTS" envDefault:"3"`
	Backoff  time.Duration `env:"REFRESH_RETRY_BACKOFF" envDefault:"200ms"`
}

func (f FranchiseConfig) normalize() FranchiseConfig {
	f.BaseURL = nonEmpty(f.BaseURL, defaultFranchiseBaseURL)
	f.Timeout = positiveDuration(f.Timeout, defaultFranchiseTimeout)
	return f
}

func (f FixtureConfig) normalize() FixtureConfig {
	if f.Seed <= 0 {
		f.Seed = defaultFixtureSeed
	}
	f.UserTeam = nonEmpty(f.UserTeam, defaultFixtureUserTeam)
	return f
}

func (r RefreshConfig) normalize() RefreshConfig {
	r.Attempts = positiveInt(r.Attempts, defaultRefreshAttempts)
	r.Backoff = positiveDuration(r.Backoff, defaultRefreshBackoff)
	return r
}
