// Package dictpath resolves the directories the cleanup engine operates on:
// the user data directory holding the legacy .userdb folders, the shared data
// directory holding the deployer executable, and the synchronization directory
// holding the .userdb.txt snapshots.
package dictpath

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rimetools/udbclean/pkg/plog"
	"github.com/rimetools/udbclean/pkg/util"
)

// InstallationFileName is the metadata file the host maintains in the user
// data directory.
const InstallationFileName = "installation.yaml"

// defaultSyncSubdir is the conventional sync subdirectory under the user data
// directory when nothing else is configured.
const defaultSyncSubdir = "sync"

// InstallationInfo is the subset of installation.yaml this engine interprets.
type InstallationInfo struct {
	InstallationID   string `yaml:"installation_id"`
	SyncDir          string `yaml:"sync_dir"`
	DistributionName string `yaml:"distribution_code_name"`
}

// Resolver determines the engine's working directories from host-supplied
// values with fallbacks. The zero value is not useful; construct with New.
type Resolver struct {
	userDataDir   string
	sharedDataDir string
	syncDir       string // directly-provided sync dir, may be empty
}

// New creates a Resolver. userDataDir is required; sharedDataDir and syncDir
// may be empty when the host does not supply them.
func New(userDataDir, sharedDataDir, syncDir string) *Resolver {
	return &Resolver{
		userDataDir:   userDataDir,
		sharedDataDir: sharedDataDir,
		syncDir:       syncDir,
	}
}

// UserDataDir returns the user data directory.
func (r *Resolver) UserDataDir() string {
	return r.userDataDir
}

// SharedDataDir returns the shared/installation directory.
func (r *Resolver) SharedDataDir() string {
	return r.sharedDataDir
}

// Installation reads and parses installation.yaml from the user data
// directory. A missing or unreadable file yields a zero InstallationInfo;
// resolution degrades, it never fails.
func (r *Resolver) Installation() InstallationInfo {
	var info InstallationInfo
	path := filepath.Join(r.userDataDir, InstallationFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			plog.Warn("Failed to read installation metadata", "path", path, "error", err)
		}
		return info
	}
	if err := yaml.Unmarshal(data, &info); err != nil {
		plog.Warn("Failed to parse installation metadata", "path", path, "error", err)
		return InstallationInfo{}
	}
	info.SyncDir = normalizeSeparators(info.SyncDir)
	return info
}

// ResolveSyncDir determines the synchronization directory, trying in order:
//
//  1. the directly-provided sync directory, when it exists;
//  2. the sync_dir value from installation.yaml, when it exists;
//  3. <user_data_dir>/sync.
//
// When none of the candidates exist on disk, the last fallback path is
// returned anyway: callers treat an absent directory as "nothing to clean",
// not as an error. The host conventionally nests per-installation snapshot
// directories (named by installation_id) under the returned root, so scans of
// it should be recursive.
func (r *Resolver) ResolveSyncDir() string {
	if r.syncDir != "" {
		if util.IsDir(r.syncDir) {
			return r.syncDir
		}
		plog.Debug("Configured sync directory does not exist", "path", r.syncDir)
	}

	if syncDir := r.Installation().SyncDir; syncDir != "" {
		if util.IsDir(syncDir) {
			return syncDir
		}
		plog.Debug("Installation sync directory does not exist", "path", syncDir)
	}

	return filepath.Join(r.userDataDir, defaultSyncSubdir)
}

// normalizeSeparators rewrites escaped backslash separators as they appear in
// host-written YAML (e.g. `D:\\rime-sync`) into the platform separator.
func normalizeSeparators(path string) string {
	if path == "" {
		return path
	}
	path = strings.ReplaceAll(path, `\\`, string(filepath.Separator))
	path = strings.ReplaceAll(path, `\`, string(filepath.Separator))
	return filepath.Clean(path)
}
