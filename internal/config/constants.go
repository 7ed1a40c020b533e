package config

import "time"

const (
	ProviderFixture   = "fixture"
	ProviderFranchise = "franchise"

	defaultPort               = "4000"
	defaultProvider           = ProviderFixture
	defaultCampaignID         = "fixture-campaign"
	defaultFranchiseBaseURL   = "http://localhost:8080/api"
	defaultFranchiseTimeout   = 30 * time.Second
	defaultFixtureSeed        = 42
	defaultFixtureUserTeam    = "bos"
	defaultRefreshAttempts    = 3
	defaultRefreshBackoff     = 200 * time.Millisecond
	defaultNotifyStaggerDelay = 1500 * time.Millisecond
	defaultNotifyFeedSize     = 50
	defaultSnapshotsFolder    = "data/snapshots"
	defaultSnapshotsRetain    = 120
	defaultMetricsPort        = "9090"
	defaultServiceName        = "nba-playoffs-service"
	defaultLogLevel           = "info"
	defaultLogFormat          = "text"
)
