package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadReadsLinesAndDigest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DarkPhoton_mZd30.tex")
	content := "first\nHere is the cut-flow-table:\nlast\n"
	writeFile(t, path, content)

	src, err := NewFSIngestor(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src.Key != cutflow.SourceKey("DarkPhoton_mZd30") {
		t.Errorf("key = %q", src.Key)
	}
	if diff := cmp.Diff([]string{"first", "Here is the cut-flow-table:", "last"}, src.Lines); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
	sum := sha256.Sum256([]byte(content))
	if src.Digest != hex.EncodeToString(sum[:]) {
		t.Errorf("digest = %s", src.Digest)
	}
	if src.Size != int64(len(content)) {
		t.Errorf("size = %d", src.Size)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewFSIngestor(nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope.tex"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFSIngestor(nil).Load(ctx, "whatever.tex"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestExpandDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.tex"), "x")
	writeFile(t, filepath.Join(dir, "a.txt"), "x")
	writeFile(t, filepath.Join(dir, "notes.md"), "x")
	writeFile(t, filepath.Join(dir, ".hidden.tex"), "x")
	writeFile(t, filepath.Join(dir, ".cache", "c.tex"), "x")
	writeFile(t, filepath.Join(dir, "sub", "d.TEX"), "x")
	explicit := filepath.Join(t.TempDir(), "explicit.log")
	writeFile(t, explicit, "x")

	got, stats, err := NewFSIngestor(nil).Expand(context.Background(), []string{explicit, dir})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{
		explicit,
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.tex"),
		filepath.Join(dir, "sub", "d.TEX"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
	if stats.Matched != 4 {
		t.Errorf("matched = %d, want 4", stats.Matched)
	}
	if stats.Skipped != 3 {
		t.Errorf("skipped = %d, want 3 (notes.md, .hidden.tex, .cache)", stats.Skipped)
	}
}

func TestExpandMissingInput(t *testing.T) {
	ctx := context.Background()
	gone := filepath.Join(t.TempDir(), "gone.tex")
	ing := NewFSIngestor(nil)
	files, stats, err := ing.Expand(ctx, []string{gone})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if diff := cmp.Diff([]string{gone}, files); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}
	if stats.Failed != 1 || stats.Matched != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if _, err := ing.Load(ctx, gone); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("load err = %v, want fs.ErrNotExist", err)
	}
}

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"a\r\nb\r\n", []string{"a\r", "b\r"}},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, SplitLines(c.in)); diff != "" {
			t.Errorf("SplitLines(%q) (-want +got):\n%s", c.in, diff)
		}
	}
}
