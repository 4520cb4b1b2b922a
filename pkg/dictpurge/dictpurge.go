// Package dictpurge empties legacy .userdb folders. The folder's binary index
// is invalid once its backing store changes, so the whole contents are cleared
// rather than filtered; the host rebuilds the index lazily.
package dictpurge

import (
	"os"
	"path/filepath"

	"github.com/rimetools/udbclean/pkg/plog"
)

// Purge deletes the direct children of absFolderPath and returns the number of
// successful deletions. Per-entry failures are logged and do not abort the
// remaining deletions. The folder itself is never removed.
func Purge(absFolderPath string) int {
	entries, err := os.ReadDir(absFolderPath)
	if err != nil {
		plog.Warn("Failed to read userdb folder", "folder", absFolderPath, "error", err)
		return 0
	}

	deleted := 0
	for _, entry := range entries {
		path := filepath.Join(absFolderPath, entry.Name())
		if err := os.Remove(path); err != nil {
			plog.Warn("Failed to delete userdb index file", "path", path, "error", err)
			continue
		}
		plog.Debug("Deleted userdb index file", "path", path)
		deleted++
	}

	plog.Info("Purged userdb folder", "folder", absFolderPath, "deleted_files", deleted)
	return deleted
}
