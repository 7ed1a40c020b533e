package snapshots

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/timeutil"
)

// DefaultRetain is how many archived dates a campaign keeps when no limit is configured.
const DefaultRetain = 120

// Entry is one archived bracket.
type Entry struct {
	CampaignID string            `json:"campaignId"`
	Date       string            `json:"date"`
	Bracket    *playoffs.Bracket `json:"bracket"`
}

// Writer archives brackets under {basePath}/brackets/{campaign}/{date}.json and keeps
// the campaign manifest pruned to the newest Retain dates.
type Writer struct {
	basePath string
	retain   int
	mu       sync.Mutex
}

// NewWriter constructs a writer rooted at basePath.
func NewWriter(basePath string, retain int) *Writer {
	if retain <= 0 {
		retain = DefaultRetain
	}
	return &Writer{basePath: basePath, retain: retain}
}

// BasePath exposes the writer root path.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// Archive writes the bracket for the campaign date. An identical payload already
// on disk is left alone.
func (w *Writer) Archive(ctx context.Context, b *playoffs.Bracket, date string) error {
	if w == nil {
		return errors.New("snapshot writer not configured")
	}
	if b == nil {
		return errors.New("bracket required")
	}
	if b.CampaignID == "" {
		return errors.New("bracket has no campaign id")
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return fmt.Errorf("invalid archive date %q: %w", date, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	target := BracketPath(w.basePath, b.CampaignID, date)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(Entry{CampaignID: b.CampaignID, Date: date, Bracket: b}, "", "  ")
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return w.updateManifest(b.CampaignID, date)
	}
	if err := writeAtomic(target, data); err != nil {
		return err
	}
	return w.updateManifest(b.CampaignID, date)
}

func (w *Writer) updateManifest(campaignID, date string) error {
	path := ManifestPath(w.basePath, campaignID)
	m, _ := readManifest(path, campaignID, w.retain)

	dates, err := listDates(CampaignDir(w.basePath, campaignID))
	if err != nil {
		return err
	}
	if !containsDate(dates, date) {
		dates = append(dates, date)
		sort.Strings(dates)
	}

	m.CampaignID = campaignID
	m.Retain = w.retain
	m.Dates = w.prune(campaignID, dates)
	m.LastArchived = date
	return writeManifest(path, m)
}

// prune removes the oldest archives beyond the retain limit. Dates are sorted.
func (w *Writer) prune(campaignID string, dates []string) []string {
	if len(dates) <= w.retain {
		return dates
	}
	drop := dates[:len(dates)-w.retain]
	for _, d := range drop {
		_ = os.Remove(BracketPath(w.basePath, campaignID, d))
	}
	return append([]string(nil), dates[len(drop):]...)
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

// listDates returns the sorted dates archived in dir, skipping the manifest and
// anything that is not a dated json file.
func listDates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	dates := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".json")
		if _, err := timeutil.ParseDate(base); err != nil {
			continue
		}
		dates = append(dates, base)
	}
	sort.Strings(dates)
	return dates, nil
}
