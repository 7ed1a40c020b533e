package server

import (
	"github.com/preston-bernstein/nba-playoffs-service/internal/config"
	"github.com/preston-bernstein/nba-playoffs-service/internal/snapshots"
)

type snapshotComponents struct {
	store  snapshots.Store
	writer *snapshots.Writer
}

// buildSnapshots returns empty components when the archive is disabled.
func buildSnapshots(cfg config.Config) snapshotComponents {
	if !cfg.Snapshots.Enabled {
		return snapshotComponents{}
	}
	basePath := cfg.Snapshots.Folder
	return snapshotComponents{
		store:  snapshots.NewFSStore(basePath),
		writer: snapshots.NewWriter(basePath, cfg.Snapshots.Retain),
	}
}
