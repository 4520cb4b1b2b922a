// Package notify delivers the cleanup summary to the user. Rendering is the
// host's concern; everything here is a sink behind a small interface.
package notify

import (
	"github.com/rimetools/udbclean/pkg/plog"
	"github.com/rimetools/udbclean/pkg/report"
)

// Sink receives the summary of one cleanup pass. fullDisplay requests
// per-folder/file/entry detail instead of only the aggregate count.
type Sink interface {
	Notify(r report.Report, fullDisplay bool)
}

// LogSink renders the summary as log lines.
type LogSink struct{}

// Notify implements Sink.
func (LogSink) Notify(r report.Report, fullDisplay bool) {
	plog.Info("User dictionary cleaning completed",
		"deleted_entries", r.EntriesDeleted,
		"purged_index_files", r.FilesPurged,
		"folders", len(r.FoldersCleaned),
		"files", len(r.FilesCleaned),
	)
	if !fullDisplay {
		return
	}
	for _, folder := range r.FoldersCleaned {
		plog.Info("Cleaned folder", "name", folder)
	}
	for _, file := range r.FilesCleaned {
		plog.Info("Cleaned file", "name", file)
	}
	for _, entry := range r.DeletedEntryTexts {
		plog.Info("Deleted entry", "text", entry)
	}
}

// NullSink drops the summary. Used when the host owns all user-facing output.
type NullSink struct{}

// Notify implements Sink.
func (NullSink) Notify(report.Report, bool) {}
