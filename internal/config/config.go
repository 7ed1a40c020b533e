// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port       string `env:"PORT" envDefault:"4000"`
	Provider   string `env:"PROVIDER" envDefault:"fixture"`
	CampaignID string `env:"CAMPAIGN_ID" envDefault:"fixture-campaign"`
	AdminToken string `env:"ADMIN_TOKEN"`

	Franchise FranchiseConfig
	Fixture   FixtureConfig
	Refresh   RefreshConfig
	Notify    NotifyConfig
	Snapshots SnapshotsConfig
	Metrics   MetricsConfig
	Log       LogConfig
}

// NotifyConfig tunes the staggered notification queue.
type NotifyConfig struct {
	StaggerDelay time.Duration `env:"NOTIFY_STAGGER_DELAY" envDefault:"1500ms"`
	FeedSize     int           `env:"NOTIFY_FEED_SIZE" envDefault:"50"`
}

// SnapshotsConfig controls the bracket archive.
type SnapshotsConfig struct {
	Enabled bool   `env:"SNAPSHOTS_ENABLED" envDefault:"true"`
	Folder  string `env:"SNAPSHOTS_FOLDER" envDefault:"data/snapshots"`
	Retain  int    `env:"SNAPSHOTS_RETAIN" envDefault:"120"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads configuration from environment variables. Malformed values are
// errors; empty or non-positive values fall back to defaults.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.Port = nonEmpty(cfg.Port, defaultPort)
	cfg.Provider = strings.ToLower(strings.TrimSpace(nonEmpty(cfg.Provider, defaultProvider)))
	cfg.CampaignID = nonEmpty(cfg.CampaignID, defaultCampaignID)
	cfg.Franchise = cfg.Franchise.normalize()
	cfg.Fixture = cfg.Fixture.normalize()
	cfg.Refresh = cfg.Refresh.normalize()
	cfg.Notify.StaggerDelay = positiveDuration(cfg.Notify.StaggerDelay, defaultNotifyStaggerDelay)
	cfg.Notify.FeedSize = positiveInt(cfg.Notify.FeedSize, defaultNotifyFeedSize)
	cfg.Snapshots.Folder = nonEmpty(cfg.Snapshots.Folder, defaultSnapshotsFolder)
	cfg.Snapshots.Retain = positiveInt(cfg.Snapshots.Retain, defaultSnapshotsRetain)
	cfg.Metrics = cfg.Metrics.normalize()
	cfg.Log.Level = nonEmpty(cfg.Log.Level, defaultLogLevel)
	cfg.Log.Format = nonEmpty(cfg.Log.Format, defaultLogFormat)

	switch cfg.Provider {
	case ProviderFixture, ProviderFranchise:
	default:
		return Config{}, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	return cfg, nil
}
