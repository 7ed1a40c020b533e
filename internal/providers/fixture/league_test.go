package fixture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLeague(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write league file: %v", err)
	}
	return path
}

func TestDefaultLeagueIsValid(t *testing.T) {
	if err := DefaultLeague().Validate(); err != nil {
		t.Fatalf("default league invalid: %v", err)
	}
}

func TestLoadLeagueFile(t *testing.T) {
	l := DefaultLeague()
	var body strings.Builder
	body.WriteString("startDate: 2026-04-18\neast:\n")
	for _, tm := range l.East {
		body.WriteString("  - {id: " + tm.ID + ", name: " + tm.Name + "}\n")
	}
	body.WriteString("west:\n")
	for _, tm := range l.West {
		body.WriteString("  - {id: " + tm.ID + ", name: " + tm.Name + "}\n")
	}
	path := writeLeague(t, "league.yaml", body.String())

	got, err := LoadLeagueFile(path)
	if err != nil {
		t.Fatalf("load league: %v", err)
	}
	if got.Season != defaultSeason {
		t.Fatalf("expected default season %d, got %d", defaultSeason, got.Season)
	}
	if got.StartDate != "2026-04-18" {
		t.Fatalf("unexpected start date %q", got.StartDate)
	}
	if got.East[0].ID != "bos" {
		t.Fatalf("expected bos as east 1 seed, got %q", got.East[0].ID)
	}
	if abbr := got.East[0].team("East").Abbreviation; abbr != "BOS" {
		t.Fatalf("expected derived abbreviation BOS, got %q", abbr)
	}
}

func TestLoadLeagueFileErrors(t *testing.T) {
	if _, err := LoadLeagueFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "short", body: "east:\n  - {id: bos}\nwest: []\n", want: "East conference has 1 teams"},
		{name: "malformed", body: "east: [\n", want: "parse league file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadLeagueFile(writeLeague(t, tc.name+".yaml", tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateRejectsDuplicatesAndBadDate(t *testing.T) {
	l := DefaultLeague()
	l.West[0].ID = "bos"
	if err := l.Validate(); err == nil || !strings.Contains(err.Error(), "listed twice") {
		t.Fatalf("expected duplicate team error, got %v", err)
	}

	l = DefaultLeague()
	l.StartDate = "April"
	if err := l.Validate(); err == nil || !strings.Contains(err.Error(), "start date") {
		t.Fatalf("expected start date error, got %v", err)
	}
}
