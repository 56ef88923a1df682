package export

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/cutflow-extractor/constants"
	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
	"github.com/joseph-ayodele/cutflow-extractor/internal/frame"
)

// NormalizeDir makes dir end with exactly one path separator. Empty stays empty.
func NormalizeDir(dir string) string {
	if dir == "" {
		return ""
	}
	return strings.TrimRight(dir, string(filepath.Separator)) + string(filepath.Separator)
}

// DelimitedWriter persists frames as dataframe_<key>.<ext> and alpha_gen.<ext> under one directory.
type DelimitedWriter struct {
	dir    string
	ext    string
	comma  rune
	logger *slog.Logger
}

// NewDelimitedWriter fails with a configuration error for an empty dir or an unknown format.
func NewDelimitedWriter(dir, format string, logger *slog.Logger) (*DelimitedWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(dir) == "" {
		return nil, common.NewConfigError("saving delimited files requires an output directory")
	}
	comma, ok := constants.Delimiter(format)
	if !ok {
		return nil, common.NewConfigErrorf("unknown output format %q", format)
	}
	return &DelimitedWriter{
		dir:    NormalizeDir(dir),
		ext:    constants.NormalizeExt(format),
		comma:  comma,
		logger: logger,
	}, nil
}

// Dir is the normalized output directory.
func (w *DelimitedWriter) Dir() string { return w.dir }

func (w *DelimitedWriter) TablePath(key cutflow.SourceKey) string {
	return w.dir + constants.TableFilePrefix + key.String() + "." + w.ext
}

func (w *DelimitedWriter) AggregatePath() string {
	return w.dir + constants.AggregateFileStem + "." + w.ext
}

// WriteTable writes one source's frame and returns the file path.
func (w *DelimitedWriter) WriteTable(key cutflow.SourceKey, f *frame.Frame) (string, error) {
	path := w.TablePath(key)
	if err := w.write(path, f); err != nil {
		return "", err
	}
	w.logger.Debug("export.delimited.ok", "key", key, "path", path, "rows", f.Len())
	return path, nil
}

// WriteAggregate writes the generator-level frame and returns the file path.
func (w *DelimitedWriter) WriteAggregate(f *frame.Frame) (string, error) {
	path := w.AggregatePath()
	if err := w.write(path, f); err != nil {
		return "", err
	}
	w.logger.Debug("export.delimited.ok", "path", path, "rows", f.Len())
	return path, nil
}

func (w *DelimitedWriter) write(path string, f *frame.Frame) (err error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return common.NewAppError(common.CodeIO, "create output directory", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return common.NewAppError(common.CodeIO, "create "+path, err)
	}
	defer func(out *os.File) {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = common.NewAppError(common.CodeIO, "close "+path, cerr)
		}
	}(out)

	bw := bufio.NewWriter(out)
	if err := f.WriteDelimited(bw, w.comma); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return common.NewAppError(common.CodeIO, "flush "+path, err)
	}
	return nil
}
