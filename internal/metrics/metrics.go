package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type simulationStats struct {
	outcomes     map[string]int
	lastDuration time.Duration
}

// Recorder keeps in-memory counters for providers, simulations and refreshes, and
// forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*providerStats
	simulations map[string]*simulationStats
	refreshes   map[string]int
	refreshErrs map[string]int
	champions   int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:       make(map[string]*providerStats),
		simulations: make(map[string]*simulationStats),
		refreshes:   make(map[string]int),
		refreshErrs: make(map[string]int),
		otel:        otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	r.otel.recordProviderAttempt(provider, duration, err)
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	r.otel.recordRateLimit(provider, retryAfter)
}

// RecordSimulation counts one simulate request by scope and outcome.
func (r *Recorder) RecordSimulation(scope, outcome string, duration time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.simulations[scope]
	if !ok {
		stats = &simulationStats{outcomes: make(map[string]int)}
		r.simulations[scope] = stats
	}
	stats.outcomes[outcome]++
	stats.lastDuration = duration
	r.mu.Unlock()

	r.otel.recordSimulation(scope, outcome, duration)
}

// RecordRefresh tracks one resource read of a state refresh.
func (r *Recorder) RecordRefresh(kind string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.refreshes[kind]++
	if err != nil {
		r.refreshErrs[kind]++
	}
	r.mu.Unlock()

	r.otel.recordRefresh(kind, duration, err)
}

// RecordChampionEvent counts emitted champion announcements.
func (r *Recorder) RecordChampionEvent() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.champions++
	r.mu.Unlock()

	r.otel.recordChampion()
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// Simulations returns how many simulate requests of the scope ended with the outcome.
func (r *Recorder) Simulations(scope, outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.simulations[scope]; ok {
		return stats.outcomes[outcome]
	}
	return 0
}

// Refreshes returns the refresh count and failure count for a kind.
func (r *Recorder) Refreshes(kind string) (total, failed int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshes[kind], r.refreshErrs[kind]
}

// ChampionEvents returns how many champion announcements were emitted.
func (r *Recorder) ChampionEvents() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.champions
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}
