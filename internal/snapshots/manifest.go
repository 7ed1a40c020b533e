package snapshots

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest lists the archived dates of one campaign.
type Manifest struct {
	Version      int       `json:"version"`
	GeneratedAt  time.Time `json:"generatedAt"`
	CampaignID   string    `json:"campaignId"`
	Retain       int       `json:"retain"`
	Dates        []string  `json:"dates"`
	LastArchived string    `json:"lastArchived,omitempty"`
}

func defaultManifest(campaignID string, retain int) Manifest {
	return Manifest{
		Version:    1,
		CampaignID: campaignID,
		Retain:     retain,
		Dates:      []string{},
	}
}

func readManifest(path, campaignID string, retain int) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(campaignID, retain), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(campaignID, retain), err
	}
	return m, nil
}

func writeManifest(path string, m Manifest) error {
	m.GeneratedAt = time.Now().UTC()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
