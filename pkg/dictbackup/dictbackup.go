// Package dictbackup writes compressed snapshots of dictionary text files
// before they are compacted, so a bad pass never costs user data.
package dictbackup

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"

	"github.com/rimetools/udbclean/pkg/util"
)

// suffix of snapshot files, appended after the format extension separator.
const backupInfix = ".bak."

// BackupPath returns the snapshot path for a dictionary file and format.
func BackupPath(absFilePath string, format Format) string {
	return absFilePath + backupInfix + format.String()
}

// Snapshot compresses absFilePath into a sibling snapshot file, overwriting
// any snapshot from a previous run, and returns the snapshot path.
func Snapshot(absFilePath string, format Format) (string, error) {
	in, err := os.Open(absFilePath)
	if err != nil {
		return "", fmt.Errorf("could not open dictionary file %s: %w", absFilePath, err)
	}
	defer in.Close()

	backupPath := BackupPath(absFilePath, format)
	out, err := os.OpenFile(backupPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, util.UserWritableFilePerms)
	if err != nil {
		return "", fmt.Errorf("could not create snapshot file %s: %w", backupPath, err)
	}

	if err := compressInto(in, out, format); err != nil {
		out.Close()
		os.Remove(backupPath)
		return "", fmt.Errorf("could not write snapshot %s: %w", backupPath, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(backupPath)
		return "", fmt.Errorf("could not close snapshot %s: %w", backupPath, err)
	}
	return backupPath, nil
}

func compressInto(in io.Reader, out io.Writer, format Format) error {
	switch format {
	case Zstd:
		zw, err := zstd.NewWriter(out)
		if err != nil {
			return err
		}
		if _, err := io.Copy(zw, in); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	case Gzip:
		gw := pgzip.NewWriter(out)
		if _, err := io.Copy(gw, in); err != nil {
			gw.Close()
			return err
		}
		return gw.Close()
	default:
		return fmt.Errorf("unsupported backup format %q", format)
	}
}
