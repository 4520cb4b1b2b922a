// Package dictcompact rewrites userdb sync text files in place, keeping only
// valid records. Survivors are copied byte-verbatim; the engine never edits,
// reorders, or reweights entries.
package dictcompact

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rimetools/udbclean/pkg/dictrecord"
	"github.com/rimetools/udbclean/pkg/dictscan"
	"github.com/rimetools/udbclean/pkg/plog"
	"github.com/rimetools/udbclean/pkg/util"
)

// maxLineSize bounds a single record line during scanning. Sync snapshots of
// large dictionaries stay far below this.
const maxLineSize = 1 << 20

// Result summarizes one file's compaction.
type Result struct {
	// Deleted is the number of invalid records dropped.
	Deleted int
	// Labels holds the entry text of each dropped record, in file order.
	Labels []string
}

// Compact streams absFilePath through the record filter, writes survivors to a
// sibling temporary file and atomically renames it over the original. The
// original is left untouched on any error.
func Compact(absFilePath string) (Result, error) {
	t := &compactTask{path: absFilePath}
	return t.execute()
}

// compactTask holds the mutable state for a single file rewrite, keeping the
// package-level API stateless.
type compactTask struct {
	path   string
	result Result
}

func (t *compactTask) execute() (Result, error) {
	in, err := os.Open(t.path)
	if err != nil {
		return Result{}, fmt.Errorf("could not open dictionary file %s: %w", t.path, err)
	}
	defer in.Close()

	tempPath := t.path + dictscan.TempFileSuffix

	// A leftover temp file from a crashed run is stale by definition; O_TRUNC
	// discards it. O_CREATE in the same directory keeps the final rename on
	// one filesystem, which is what makes it atomic.
	out, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, util.UserWritableFilePerms)
	if err != nil {
		return Result{}, fmt.Errorf("could not create temporary file %s: %w", tempPath, err)
	}

	if err := t.filterLines(in, out); err != nil {
		out.Close()
		t.abandonTemp(tempPath)
		return Result{}, err
	}

	// Flush to physical storage before the swap so a crash cannot replace the
	// original with a partially written file.
	if err := out.Sync(); err != nil {
		out.Close()
		t.abandonTemp(tempPath)
		return Result{}, fmt.Errorf("could not sync temporary file %s: %w", tempPath, err)
	}
	if err := out.Close(); err != nil {
		t.abandonTemp(tempPath)
		return Result{}, fmt.Errorf("could not close temporary file %s: %w", tempPath, err)
	}

	// Close the source before the rename; replacing an open file is not
	// permitted on every platform.
	in.Close()

	if err := os.Rename(tempPath, t.path); err != nil {
		t.abandonTemp(tempPath)
		return Result{}, fmt.Errorf("could not replace dictionary file %s: %w", t.path, err)
	}

	plog.Info("Compacted dictionary file", "file", t.path, "deleted", t.result.Deleted)
	return t.result, nil
}

// filterLines copies kept lines from in to out and records dropped ones.
func (t *compactTask) filterLines(in *os.File, out *os.File) error {
	w := bufio.NewWriter(out)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			// Empty lines are neither kept nor counted as dropped.
			continue
		}

		c := dictrecord.Classify(line)
		if c.Keep {
			if _, err := w.WriteString(line); err != nil {
				return fmt.Errorf("could not write to temporary file: %w", err)
			}
			if err := w.WriteByte('\n'); err != nil {
				return fmt.Errorf("could not write to temporary file: %w", err)
			}
			continue
		}

		t.result.Deleted++
		t.result.Labels = append(t.result.Labels, c.Label)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("could not read dictionary file %s: %w", t.path, err)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("could not flush temporary file: %w", err)
	}
	return nil
}

// abandonTemp removes a temp file left behind by a failed rewrite so it never
// shadows the next run.
func (t *compactTask) abandonTemp(tempPath string) {
	if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
		plog.Warn("Failed to remove abandoned temporary file", "path", tempPath, "error", err)
	}
}
