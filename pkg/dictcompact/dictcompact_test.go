package dictcompact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rimetools/udbclean/pkg/dictscan"
)

func writeDict(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCompact(t *testing.T) {
	const input = "ni hao\t你好\tc=1 d=0.5 t=100\n" +
		"wu xiao\t无效\tc=-1 d=0.1 t=50\n" +
		"\n" +
		"mo hu\t模糊\td=0.3 t=70\n" +
		"ling\t零\tc=0 d=0.2 t=60\n"

	dir := t.TempDir()
	path := writeDict(t, dir, "baz.userdb.txt", input)

	res, err := Compact(path)
	if err != nil {
		t.Fatalf("Compact() error: %v", err)
	}

	if res.Deleted != 2 {
		t.Errorf("Deleted = %d, want 2", res.Deleted)
	}
	if len(res.Labels) != 2 || res.Labels[0] != "无效" || res.Labels[1] != "零" {
		t.Errorf("Labels = %v, want [无效 零]", res.Labels)
	}

	// Survivors are byte-verbatim, the fail-open line included. The blank
	// line is gone: it is neither kept nor counted.
	want := "ni hao\t你好\tc=1 d=0.5 t=100\n" +
		"mo hu\t模糊\td=0.3 t=70\n"
	if got := readFile(t, path); got != want {
		t.Errorf("rewritten file = %q, want %q", got, want)
	}

	// No temp residue after a successful run.
	if _, err := os.Stat(path + dictscan.TempFileSuffix); !os.IsNotExist(err) {
		t.Errorf("temporary file survived the run: %v", err)
	}
}

func TestCompactIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeDict(t, dir, "a.userdb.txt",
		"k1\tv1\tc=1\nk2\tv2\tc=-1\nk3\tv3\tc=2\n")

	if _, err := Compact(path); err != nil {
		t.Fatal(err)
	}
	first := readFile(t, path)

	res, err := Compact(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Deleted != 0 {
		t.Errorf("second pass Deleted = %d, want 0", res.Deleted)
	}
	if got := readFile(t, path); got != first {
		t.Errorf("second pass changed the file: %q -> %q", first, got)
	}
}

func TestCompactMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.userdb.txt")
	if _, err := Compact(path); err == nil {
		t.Fatal("Compact() on a missing file should error")
	}
	// A failed open must not leave a temp file behind.
	if _, err := os.Stat(path + dictscan.TempFileSuffix); !os.IsNotExist(err) {
		t.Errorf("temporary file created for a skipped file: %v", err)
	}
}

func TestCompactDiscardsStaleTemp(t *testing.T) {
	dir := t.TempDir()
	path := writeDict(t, dir, "a.userdb.txt", "k\tv\tc=1\n")
	stale := writeDict(t, dir, "a.userdb.txt"+dictscan.TempFileSuffix, "stale leftover\n")

	if _, err := Compact(path); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != "k\tv\tc=1\n" {
		t.Errorf("rewritten file = %q", got)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale temp file survived: %v", err)
	}
}

func TestCompactEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDict(t, dir, "empty.userdb.txt", "")

	res, err := Compact(path)
	if err != nil {
		t.Fatalf("Compact() on empty file: %v", err)
	}
	if res.Deleted != 0 || len(res.Labels) != 0 {
		t.Errorf("empty file produced deletions: %+v", res)
	}
	if got := readFile(t, path); got != "" {
		t.Errorf("empty file rewritten to %q", got)
	}
}
