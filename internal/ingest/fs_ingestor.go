package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
)

// FSIngestor reads reports from the local filesystem.
type FSIngestor struct {
	logger     *slog.Logger
	SkipHidden bool
}

func NewFSIngestor(logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{logger: logger, SkipHidden: true}
}

// Load opens path, reads it completely and closes it before returning.
// The handle is closed on every path, including read failures.
func (i *FSIngestor) Load(ctx context.Context, path string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		i.logger.Error("ingest.open.error", "path", path, "err", err)
		return nil, common.NewAppError(common.CodeIO, "open "+path, err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			i.logger.Warn("ingest.close.error", "path", path, "err", err)
		}
	}(f)

	h := sha256.New()
	data, err := io.ReadAll(io.TeeReader(f, h))
	if err != nil {
		i.logger.Error("ingest.read.error", "path", path, "err", err)
		return nil, common.NewAppError(common.CodeIO, "read "+path, err)
	}

	src := &Source{
		Key:    cutflow.KeyFromPath(path),
		Path:   path,
		Lines:  SplitLines(string(data)),
		Digest: hex.EncodeToString(h.Sum(nil)),
		Size:   int64(len(data)),
	}
	i.logger.Debug("ingest.load.ok", "key", src.Key, "path", path, "lines", len(src.Lines), "sha256", src.Digest)
	return src, nil
}
