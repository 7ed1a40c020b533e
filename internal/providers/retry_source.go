package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/games"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

// retryingSource wraps a DataSource with retry/backoff on reads. Engine calls are not wrapped.
type retryingSource struct {
	inner        DataSource
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	newBackOff   func() backoff.BackOff
}

// NewRetryingSource wraps reads with exponential backoff. A rate-limit response's Retry-After
// replaces the next computed delay. Non-positive attempts/backoff select defaults.
func NewRetryingSource(inner DataSource, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, base time.Duration) DataSource {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if base <= 0 {
		base = defaultBackoff
	}
	if providerName == "" {
		providerName = "provider"
	}
	return &retryingSource{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
		maxAttempts:  maxAttempts,
		newBackOff: func() backoff.BackOff {
			eb := backoff.NewExponentialBackOff()
			eb.InitialInterval = base
			eb.MaxInterval = 20 * base
			eb.MaxElapsedTime = 0
			return eb
		},
	}
}

func (r *retryingSource) FetchBracket(ctx context.Context, campaignID string) (*playoffs.Bracket, error) {
	return retryFetch(ctx, r, "bracket", func(ctx context.Context) (*playoffs.Bracket, error) {
		return r.inner.FetchBracket(ctx, campaignID)
	})
}

func (r *retryingSource) FetchGames(ctx context.Context, campaignID string, opts FetchOptions) ([]games.Game, error) {
	return retryFetch(ctx, r, "games", func(ctx context.Context) ([]games.Game, error) {
		return r.inner.FetchGames(ctx, campaignID, opts)
	})
}

func (r *retryingSource) FetchRoster(ctx context.Context, campaignID string, opts FetchOptions) (players.Roster, error) {
	return retryFetch(ctx, r, "roster", func(ctx context.Context) (players.Roster, error) {
		return r.inner.FetchRoster(ctx, campaignID, opts)
	})
}

func (r *retryingSource) FetchStandings(ctx context.Context, campaignID string, opts FetchOptions) (playoffs.Standings, error) {
	return retryFetch(ctx, r, "standings", func(ctx context.Context) (playoffs.Standings, error) {
		return r.inner.FetchStandings(ctx, campaignID, opts)
	})
}

func (r *retryingSource) FetchCampaign(ctx context.Context, campaignID string) (playoffs.Campaign, error) {
	return retryFetch(ctx, r, "campaign", func(ctx context.Context) (playoffs.Campaign, error) {
		return r.inner.FetchCampaign(ctx, campaignID)
	})
}

func retryFetch[T any](ctx context.Context, r *retryingSource, resource string, fetch func(context.Context) (T, error)) (T, error) {
	var (
		result  T
		attempt int
	)
	if r.inner == nil {
		return result, ErrProviderUnavailable
	}

	hinted := &retryAfterBackOff{next: r.newBackOff()}
	policy := backoff.WithContext(backoff.WithMaxRetries(hinted, uint64(r.maxAttempts-1)), ctx)

	op := func() error {
		attempt++
		start := time.Now()
		v, err := fetch(ctx)
		r.metrics.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			result = v
			return nil
		}
		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rl.RetryAfter)
			hinted.retryAfter = rl.RetryAfter
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch retry",
			"resource", resource, "attempt", attempt, "max_attempts", r.maxAttempts,
			"delay_ms", delay.Milliseconds(), "error", err)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch failed",
			"resource", resource, "attempts", attempt, "error", err)
		var zero T
		return zero, err
	}
	return result, nil
}

// retryAfterBackOff lets an upstream Retry-After override the next computed delay once.
type retryAfterBackOff struct {
	next       backoff.BackOff
	retryAfter time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	if b.retryAfter > 0 {
		d := b.retryAfter
		b.retryAfter = 0
		return d
	}
	return b.next.NextBackOff()
}

func (b *retryAfterBackOff) Reset() {
	b.retryAfter = 0
	b.next.Reset()
}
