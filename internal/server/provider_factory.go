package server

import (
	"log/slog"
	"strings"

	"github.com/preston-bernstein/nba-playoffs-service/internal/config"
	"github.com/preston-bernstein/nba-playoffs-service/internal/metrics"
	"github.com/preston-bernstein/nba-playoffs-service/internal/providers"
)

// providerComponents splits one upstream into the roles the orchestrator needs.
// Only reads are retried; engine calls go straight through.
type providerComponents struct {
	name      string
	source    providers.DataSource
	engine    providers.Engine
	champions providers.ChampionSink
}

// providerFactory assembles the provider with shared wrappers.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) (providerComponents, error) {
	client, err := selectProvider(cfg, f.logger)
	if err != nil {
		return providerComponents{}, err
	}
	return f.wrap(cfg, client), nil
}

func (f providerFactory) wrap(cfg config.Config, client providers.Client) providerComponents {
	name := normalizeProviderName(cfg.Provider)
	return providerComponents{
		name:      name,
		source:    providers.NewRetryingSource(client, f.logger, f.metrics, name, cfg.Refresh.Attempts, cfg.Refresh.Backoff),
		engine:    client,
		champions: client,
	}
}

func normalizeProviderName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return config.ProviderFixture
	}
	return name
}
