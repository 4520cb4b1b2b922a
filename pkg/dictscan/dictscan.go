// Package dictscan discovers user dictionary artifacts on disk by name suffix.
package dictscan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rimetools/udbclean/pkg/plog"
)

// Suffixes of the two on-disk representations of a user dictionary.
const (
	// FolderSuffix marks the legacy binary-indexed folder form.
	FolderSuffix = ".userdb"
	// TextFileSuffix marks the portable line-oriented sync form.
	TextFileSuffix = ".userdb.txt"
	// TempFileSuffix marks the transient sibling written during compaction.
	TempFileSuffix = ".cache"
)

// matchesSuffix reports whether a base name ends with suffix.
// A name equal to the bare suffix does not match: there is no dictionary name
// left once the suffix is stripped.
func matchesSuffix(name, suffix string) bool {
	return len(name) > len(suffix) && strings.HasSuffix(name, suffix)
}

// DBName strips suffix from the base name of path, yielding the dictionary
// name used for allow-list matching.
func DBName(path, suffix string) string {
	return strings.TrimSuffix(filepath.Base(path), suffix)
}

// FindDirsBySuffix returns the directories directly under root whose name ends
// with suffix. Enumeration errors are logged and skipped; a missing or
// non-directory root yields an empty result.
func FindDirsBySuffix(root, suffix string) []string {
	return findBySuffix(root, suffix, false, true)
}

// FindFilesBySuffix returns the regular files under root whose name ends with
// suffix. With recursive set, the full subtree is walked; otherwise only
// direct children are considered.
func FindFilesBySuffix(root, suffix string, recursive bool) []string {
	return findBySuffix(root, suffix, recursive, false)
}

func findBySuffix(root, suffix string, recursive, wantDirs bool) []string {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		plog.Debug("Scan root not available, nothing to scan", "root", root)
		return nil
	}

	var matches []string
	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			plog.Warn("Failed to read directory", "root", root, "error", err)
			return nil
		}
		for _, entry := range entries {
			if entry.IsDir() != wantDirs {
				continue
			}
			if matchesSuffix(entry.Name(), suffix) {
				matches = append(matches, filepath.Join(root, entry.Name()))
			}
		}
		return matches
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Transient removal or permission trouble on one entry must not
			// abort the scan.
			plog.Warn("Skipping unreadable entry during scan", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() != wantDirs || path == root {
			return nil
		}
		if !wantDirs && !d.Type().IsRegular() {
			return nil
		}
		if matchesSuffix(d.Name(), suffix) {
			matches = append(matches, path)
		}
		return nil
	})
	if walkErr != nil {
		plog.Warn("Scan finished with errors", "root", root, "error", walkErr)
	}
	return matches
}

// AllowList restricts cleanup to a named subset of dictionaries.
// An empty list is a wildcard: every dictionary is eligible.
// Matching is exact and case-sensitive, no normalization.
type AllowList []string

// Allows reports whether the dictionary with the given base name is eligible.
func (a AllowList) Allows(dbName string) bool {
	if len(a) == 0 {
		return true
	}
	for _, name := range a {
		if name == dbName {
			return true
		}
	}
	return false
}

// Filter returns the subset of paths whose suffix-stripped base name is on the
// allow-list, preserving order.
func (a AllowList) Filter(paths []string, suffix string) []string {
	if len(a) == 0 {
		return paths
	}
	var kept []string
	for _, path := range paths {
		if a.Allows(DBName(path, suffix)) {
			kept = append(kept, path)
		}
	}
	return kept
}
