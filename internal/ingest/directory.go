package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
)

// Expand keeps explicit file paths as given, in order, and replaces each directory with the
// report files beneath it in lexical order. Hidden entries below a directory are skipped when
// SkipHidden is set. Unreadable entries met while walking are counted and logged, not fatal.
// An explicit path that cannot be stat'ed is kept and counted as failed, so the error surfaces
// when that source is loaded.
func (i *FSIngestor) Expand(ctx context.Context, paths []string) ([]string, DirStats, error) {
	var out []string
	var stats DirStats

	for _, root := range paths {
		if err := ctx.Err(); err != nil {
			return out, stats, err
		}
		if strings.TrimSpace(root) == "" {
			return nil, stats, common.NewAppError(common.CodeIO, "empty input path", common.ErrInvalidInput)
		}

		info, err := os.Stat(root)
		stats.Scanned++
		if err != nil {
			i.logger.Warn("ingest.stat.failed", "path", root, "err", err)
			stats.Failed++
			out = append(out, root)
			continue
		}
		if !info.IsDir() {
			stats.Matched++
			out = append(out, root)
			continue
		}

		files, err := i.walk(root, &stats)
		if err != nil {
			return nil, stats, err
		}
		if len(files) == 0 {
			i.logger.Warn("ingest.dir.empty", "root", root)
		}
		out = append(out, files...)
	}

	i.logger.Debug("ingest.expand.ok",
		"inputs", len(paths), "scanned", stats.Scanned, "matched", stats.Matched,
		"skipped", stats.Skipped, "failed", stats.Failed)
	return out, stats, nil
}

func (i *FSIngestor) walk(root string, stats *DirStats) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if path == root {
			return walkErr
		}
		stats.Scanned++
		if walkErr != nil {
			i.logger.Warn("ingest.walk.error", "path", path, "err", walkErr)
			stats.Failed++
			return nil // continue walking
		}
		if i.SkipHidden && IsHidden(path) {
			stats.Skipped++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			stats.Skipped++
			return nil
		}
		stats.Matched++
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, common.NewAppError(common.CodeIO, fmt.Sprintf("walk %s", root), err)
	}
	return files, nil
}
