package snapshots

import (
	"fmt"
	"path/filepath"
)

// CampaignDir is the folder holding every archived bracket of a campaign.
func CampaignDir(basePath, campaignID string) string {
	return filepath.Join(basePath, "brackets", campaignID)
}

// BracketPath builds the path to the bracket archived for a campaign date.
func BracketPath(basePath, campaignID, date string) string {
	return filepath.Join(CampaignDir(basePath, campaignID), fmt.Sprintf("%s.json", date))
}

// ManifestPath builds the path to a campaign's archive manifest.
func ManifestPath(basePath, campaignID string) string {
	return filepath.Join(CampaignDir(basePath, campaignID), "manifest.json")
}
