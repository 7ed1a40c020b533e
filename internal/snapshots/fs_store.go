package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/preston-bernstein/nba-playoffs-service/internal/timeutil"
)

// ErrSnapshotNotFound reports a date with no archived bracket.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store defines how archived brackets are read back.
type Store interface {
	LoadBracket(campaignID, date string) (Entry, error)
	Dates(campaignID string) ([]string, error)
}

// FSStore loads archived brackets from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadBracket reads the bracket archived for the campaign date (YYYY-MM-DD).
func (s *FSStore) LoadBracket(campaignID, date string) (Entry, error) {
	if s == nil {
		return Entry{}, errors.New("snapshot store not configured")
	}
	if campaignID == "" {
		return Entry{}, errors.New("campaign id required")
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return Entry{}, fmt.Errorf("invalid snapshot date %q: %w", date, err)
	}

	var entry Entry
	if err := s.decodeFile(BracketPath(s.basePath, campaignID, date), &entry); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Entry{}, fmt.Errorf("%s/%s: %w", campaignID, date, ErrSnapshotNotFound)
		}
		return Entry{}, err
	}
	if entry.Date == "" {
		entry.Date = date
	}
	return entry, nil
}

// Dates lists the archived dates of a campaign, oldest first. The manifest is
// preferred; the directory listing covers a missing or unreadable manifest.
func (s *FSStore) Dates(campaignID string) ([]string, error) {
	if s == nil {
		return nil, errors.New("snapshot store not configured")
	}
	m, err := readManifest(ManifestPath(s.basePath, campaignID), campaignID, 0)
	if err == nil {
		return m.Dates, nil
	}
	return listDates(CampaignDir(s.basePath, campaignID))
}

func (s *FSStore) decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
