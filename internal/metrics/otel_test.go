package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestSetupDisabledReturnsNoHandler(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{
		Enabled: false,
	})
	if err != nil {
		t.Fatalf("expected no error when disabled, got %v", err)
	}
	if rec == nil {
		t.Fatalf("expected recorder")
	}
	if handler != nil {
		t.Fatalf("expected nil handler when disabled")
	}
	if shutdown == nil {
		t.Fatalf("expected shutdown function")
	}
}

func TestSetupEnabledExportsSimulationMetrics(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{
		Enabled:     true,
		ServiceName: "nba-playoffs-service",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()
	if handler == nil {
		t.Fatalf("expected handler when enabled")
	}

	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	rec.RecordProviderAttempt("franchise", time.Millisecond, nil)
	rec.RecordRateLimit("franchise", time.Second)
	rec.RecordSimulation("all", OutcomeSuccess, 20*time.Millisecond)
	rec.RecordRefresh("full", 5*time.Millisecond, errors.New("boom"))
	rec.RecordChampionEvent()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, name := range []string{"simulations_total", "refresh_failures_total", "champion_events_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in prometheus output", name)
		}
	}
}

func TestSetupPropagatesReaderErrors(t *testing.T) {
	orig := promReaderFactory
	t.Cleanup(func() { promReaderFactory = orig })
	promReaderFactory = func() (sdkmetric.Reader, http.Handler, error) {
		return nil, nil, errors.New("no registry")
	}

	if _, _, _, err := Setup(context.Background(), TelemetryConfig{Enabled: true}); err == nil {
		t.Fatalf("expected error from reader factory")
	}
}

func TestSetupPropagatesOTLPErrors(t *testing.T) {
	orig := otlpReaderFactory
	t.Cleanup(func() { otlpReaderFactory = orig })
	otlpReaderFactory = func(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
		return nil, errors.New("bad endpoint")
	}

	if _, _, _, err := Setup(context.Background(), TelemetryConfig{Enabled: true, OtlpEndpoint: "collector:4318"}); err == nil {
		t.Fatalf("expected error from otlp factory")
	}
}
