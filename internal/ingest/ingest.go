package ingest

import (
	"context"

	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
)

// Source is one report read fully into memory.
type Source struct {
	Key    cutflow.SourceKey
	Path   string
	Lines  []string
	Digest string // sha256, hex
	Size   int64
}

// DirStats summarizes input expansion.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
	Failed  uint32
}

// Ingestor is the behavior the pipeline depends on.
type Ingestor interface {
	// Expand resolves the inputs to report files, descending into directories.
	Expand(ctx context.Context, paths []string) ([]string, DirStats, error)
	// Load reads a single report.
	Load(ctx context.Context, path string) (*Source, error)
}
