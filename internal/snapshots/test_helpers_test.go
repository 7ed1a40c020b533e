package snapshots

import (
	"context"
	"os"
	"testing"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/testutil"
)

const testCampaign = "c1"

func simpleBracket(w1, w2 int) *playoffs.Bracket {
	return testutil.FinalsBracket(testCampaign, w1, w2)
}

func archive(t *testing.T, w *Writer, date string, b *playoffs.Bracket) {
	t.Helper()
	if err := w.Archive(context.Background(), b, date); err != nil {
		t.Fatalf("failed to archive %s: %v", date, err)
	}
}

func requireArchived(t *testing.T, w *Writer, date string) {
	t.Helper()
	if _, err := os.Stat(BracketPath(w.BasePath(), testCampaign, date)); err != nil {
		t.Fatalf("expected archive for %s: %v", date, err)
	}
}

func assertDatesEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("dates length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("dates mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}
