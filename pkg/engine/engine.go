// Package engine orchestrates a cleanup pass over the two on-disk
// representations of the user dictionary: legacy .userdb folders under the
// user data directory are emptied, and .userdb.txt files under the sync tree
// are compacted in place.
package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rimetools/udbclean/pkg/config"
	"github.com/rimetools/udbclean/pkg/deployer"
	"github.com/rimetools/udbclean/pkg/dictbackup"
	"github.com/rimetools/udbclean/pkg/dictcompact"
	"github.com/rimetools/udbclean/pkg/dictpath"
	"github.com/rimetools/udbclean/pkg/dictpurge"
	"github.com/rimetools/udbclean/pkg/dictscan"
	"github.com/rimetools/udbclean/pkg/hints"
	"github.com/rimetools/udbclean/pkg/notify"
	"github.com/rimetools/udbclean/pkg/oneflight"
	"github.com/rimetools/udbclean/pkg/plog"
	"github.com/rimetools/udbclean/pkg/report"
)

// Engine runs cleanup passes. Collaborators are injected at construction; the
// engine never reaches for ambient global state.
type Engine struct {
	cfg      config.Config
	resolver *dictpath.Resolver
	deployer deployer.Deployer
	sink     notify.Sink
	allow    dictscan.AllowList

	runner oneflight.Runner
}

// New creates an Engine with its three external collaborators: the directory
// resolver, the deployer, and the notification sink.
func New(cfg config.Config, resolver *dictpath.Resolver, dep deployer.Deployer, sink notify.Sink) *Engine {
	return &Engine{
		cfg:      cfg,
		resolver: resolver,
		deployer: dep,
		sink:     sink,
		allow:    dictscan.AllowList(cfg.CleanupUserdbList),
	}
}

// ProcessInput implements the trigger contract. When input equals the
// configured trigger exactly, the input buffer is cleared via the host's
// callback and a background cleanup pass is requested; the return value tells
// the host whether the input was consumed. Requests arriving while a pass is
// in flight are refused, not queued.
func (e *Engine) ProcessInput(input string, clearBuffer func()) bool {
	if input != e.cfg.TriggerInput {
		return false
	}
	if clearBuffer != nil {
		clearBuffer()
	}
	plog.Info("Cleanup triggered", "input", input)
	if !e.TryClean() {
		plog.Warn("Cleanup pass already running, trigger ignored")
	}
	return true
}

// TryClean starts a cleanup pass on a detached background goroutine. It
// returns false immediately when a pass is already in flight.
func (e *Engine) TryClean() bool {
	return e.runner.TryStart(func() {
		e.Clean(context.Background())
	})
}

// Busy reports whether a cleanup pass is currently in flight.
func (e *Engine) Busy() bool {
	return e.runner.Busy()
}

// Clean runs one full cleanup pass synchronously and hands the summary to the
// notification sink. Per-item failures degrade to log records; Clean itself
// never fails.
func (e *Engine) Clean(ctx context.Context) report.Report {
	plog.Info("Starting userdb cleaning pass")

	e.runDeployer(ctx, e.cfg.Deployer.PreCommands, "pre-clean")

	agg := report.NewAggregator()
	e.purgeFolders(agg)
	e.compactFiles(ctx, agg)

	e.runDeployer(ctx, e.cfg.Deployer.PostCommands, "post-clean")

	rep := agg.Finalize()
	plog.Info("Userdb cleaning completed",
		"deleted_entries", rep.EntriesDeleted,
		"purged_index_files", rep.FilesPurged,
	)
	e.sink.Notify(rep, e.cfg.FullInformationDisplay)
	return rep
}

// purgeFolders empties every allow-listed .userdb folder directly under the
// user data directory.
func (e *Engine) purgeFolders(agg *report.Aggregator) {
	userDataDir := e.resolver.UserDataDir()
	plog.Info("Cleaning userdb folders", "dir", userDataDir)

	folders := dictscan.FindDirsBySuffix(userDataDir, dictscan.FolderSuffix)
	folders = e.allow.Filter(folders, dictscan.FolderSuffix)

	for _, folder := range folders {
		deleted := dictpurge.Purge(folder)
		agg.AddPurgedCount(deleted)
		if deleted > 0 {
			agg.AddFolder(dictscan.DBName(folder, dictscan.FolderSuffix))
		}
	}
}

// compactFiles rewrites every allow-listed .userdb.txt under the resolved
// sync tree, fanning the per-file work out on a bounded worker group. Each
// file is processed by exactly one goroutine; per-file errors are logged and
// the file is left untouched.
func (e *Engine) compactFiles(ctx context.Context, agg *report.Aggregator) {
	syncDir := e.resolver.ResolveSyncDir()
	plog.Info("Scanning for userdb files", "dir", syncDir)

	files := dictscan.FindFilesBySuffix(syncDir, dictscan.TextFileSuffix, true)
	files = e.allow.Filter(files, dictscan.TextFileSuffix)

	var mu sync.Mutex // guards agg; the aggregator itself is single-threaded

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Engine.CompactWorkers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			if e.cfg.Backup.Enabled {
				if _, err := dictbackup.Snapshot(file, e.cfg.Backup.Format); err != nil {
					// No snapshot, no rewrite. Skipping is always safe.
					plog.Warn("Skipping file, snapshot failed", "file", file, "error", err)
					return nil
				}
			}

			res, err := dictcompact.Compact(file)
			if err != nil {
				plog.Warn("Skipping file, compaction failed", "file", file, "error", err)
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			agg.AddDeletedCount(res.Deleted)
			for _, label := range res.Labels {
				agg.AddDeletedEntry(label)
			}
			if res.Deleted > 0 {
				agg.AddFile(dictscan.DBName(file, dictscan.TextFileSuffix))
			}
			return nil
		})
	}
	// Workers only ever return nil; Wait is for completion, not errors.
	_ = g.Wait()
}

// runDeployer invokes the external deployer once per directive. Failures are
// logged and never abort the pass; cleanup does not depend on deployment.
func (e *Engine) runDeployer(ctx context.Context, directives []string, phase string) {
	if !e.cfg.Deployer.Enabled {
		plog.Debug("Deployer disabled, skipping", "phase", phase)
		return
	}
	for _, directive := range directives {
		if err := e.deployer.Run(ctx, directive); err != nil {
			if hints.IsHint(err) {
				plog.Info("Deployer invocation skipped", "phase", phase, "reason", err)
				return
			}
			plog.Warn("Deployer invocation failed", "phase", phase, "directive", directive, "error", err)
		}
	}
}
