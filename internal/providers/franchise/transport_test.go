package franchise

import (
	"net/http"
	"testing"
	"time"
)

func TestNormalizeBaseURLTrimsTrailingSlashAndDefaults(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"", defaultBaseURL},
		{"https://franchise.example.com/api/", "https://franchise.example.com/api"},
		{"https://franchise.example.com/api", "https://franchise.example.com/api"},
	}

	for _, c := range cases {
		if got := normalizeBaseURL(c.input); got != c.expected {
			t.Fatalf("expected %s, got %s", c.expected, got)
		}
	}
}

func TestResolveHTTPClientTimeouts(t *testing.T) {
	client, ok := resolveHTTPClient(nil, 0).(*http.Client)
	if !ok || client.Timeout != defaultHTTPTimeout {
		t.Fatalf("expected default timeout client, got %+v", client)
	}
	client, _ = resolveHTTPClient(nil, 5*time.Second).(*http.Client)
	if client.Timeout != 5*time.Second {
		t.Fatalf("expected configured timeout, got %s", client.Timeout)
	}
	custom := &http.Client{Timeout: time.Second}
	if resolveHTTPClient(custom, time.Minute) != custom {
		t.Fatalf("expected provided client to be used")
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{"-1", 0},
		{now.Add(10 * time.Second).Format(http.TimeFormat), 10 * time.Second},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"soon", 0},
	}
	for _, c := range cases {
		if got := parseRetryAfter(c.raw, now); got != c.want {
			t.Fatalf("parseRetryAfter(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}
