package requestutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSanitizeRequestID(t *testing.T) {
	if got := SanitizeRequestID("valid-123"); got != "valid-123" {
		t.Fatalf("expected pass-through, got %s", got)
	}
	if got := SanitizeRequestID("bad id"); got == "" || got == "bad id" {
		t.Fatalf("expected sanitized id, got %s", got)
	}
	if got := NewRequestID(); got == "" {
		t.Fatalf("expected generated request id")
	}
	useFallback.Store(true)
	defer useFallback.Store(false)
	if got := NewRequestID(); got == "" {
		t.Fatalf("expected fallback request id when RNG fails")
	}
}

func TestClientIP(t *testing.T) {
	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty for nil request, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	if got := ClientIP(req); got != "1.2.3.4" {
		t.Fatalf("expected first forwarded address, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	if got := ClientIP(req); got != "9.9.9.9:1234" {
		t.Fatalf("expected remote addr fallback, got %s", got)
	}
}

type simulateBody struct {
	Scope    string `json:"scope"`
	SeriesID string `json:"seriesId"`
}

func TestDecodeBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"scope":"round","seriesId":"east-r1-1"}`))
	var body simulateBody
	if err := DecodeBody(req, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Scope != "round" || body.SeriesID != "east-r1-1" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeBodyAllowsEmpty(t *testing.T) {
	body := simulateBody{Scope: "all"}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := DecodeBody(req, &body); err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeBody(req, &body); err != nil {
		t.Fatalf("decode blank: %v", err)
	}
	if body.Scope != "all" {
		t.Fatalf("expected body untouched, got %+v", body)
	}
	if err := DecodeBody(nil, &body); err != nil {
		t.Fatalf("decode nil request: %v", err)
	}
}

func TestDecodeBodyRejectsMalformed(t *testing.T) {
	cases := []string{
		`{"scope":`,
		`{"scope":"all","extra":true}`,
		`{"scope":"all"} {"scope":"round"}`,
		`[1,2]`,
	}
	for _, raw := range cases {
		var body simulateBody
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		if err := DecodeBody(req, &body); !errors.Is(err, ErrInvalidBody) {
			t.Fatalf("DecodeBody(%s) = %v, want ErrInvalidBody", raw, err)
		}
	}
}
