// Package report accumulates the outcome of one cleanup pass.
package report

import "github.com/rimetools/udbclean/pkg/dictscan"

// Report is the immutable summary handed to the notification sink.
//
// EntriesDeleted counts text records dropped during compaction; FilesPurged
// counts files removed from legacy folders. The two are deliberately separate
// counters: only text records are "entries" to the user.
type Report struct {
	EntriesDeleted    int
	FilesPurged       int
	FoldersCleaned    []string
	FilesCleaned      []string
	DeletedEntryTexts []string
}

// Aggregator builds a Report across the steps of a single run. It is built
// fresh per run and not reused; it is not safe for concurrent use.
type Aggregator struct {
	entriesDeleted int
	filesPurged    int

	folders    []string
	folderSeen map[string]struct{}
	files      []string
	fileSeen   map[string]struct{}

	labels []string
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		folderSeen: make(map[string]struct{}),
		fileSeen:   make(map[string]struct{}),
	}
}

// AddFolder records a cleaned legacy folder by dictionary name. Names are
// deduplicated, first-seen order preserved, and reported with the folder
// suffix reattached.
func (a *Aggregator) AddFolder(dbName string) {
	name := dbName + dictscan.FolderSuffix
	if _, ok := a.folderSeen[name]; ok {
		return
	}
	a.folderSeen[name] = struct{}{}
	a.folders = append(a.folders, name)
}

// AddFile records a compacted text file by dictionary name. Names are
// deduplicated, first-seen order preserved, and reported with the text file
// suffix reattached.
func (a *Aggregator) AddFile(dbName string) {
	name := dbName + dictscan.TextFileSuffix
	if _, ok := a.fileSeen[name]; ok {
		return
	}
	a.fileSeen[name] = struct{}{}
	a.files = append(a.files, name)
}

// AddDeletedEntry appends the label of one dropped record. Labels are not
// deduplicated; repeats across files show volume.
func (a *Aggregator) AddDeletedEntry(label string) {
	a.labels = append(a.labels, label)
}

// AddDeletedCount adds n dropped text records to the entry counter.
func (a *Aggregator) AddDeletedCount(n int) {
	a.entriesDeleted += n
}

// AddPurgedCount adds n deleted legacy index files. Kept apart from the entry
// counter; purged files are not dictionary entries.
func (a *Aggregator) AddPurgedCount(n int) {
	a.filesPurged += n
}

// Finalize snapshots the accumulated state into a Report.
func (a *Aggregator) Finalize() Report {
	return Report{
		EntriesDeleted:    a.entriesDeleted,
		FilesPurged:       a.filesPurged,
		FoldersCleaned:    append([]string(nil), a.folders...),
		FilesCleaned:      append([]string(nil), a.files...),
		DeletedEntryTexts: append([]string(nil), a.labels...),
	}
}
