// Package pipeline runs the cutflow extraction over a batch of report sources.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cutflow-extractor/constants"
	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
	"github.com/joseph-ayodele/cutflow-extractor/internal/export"
	"github.com/joseph-ayodele/cutflow-extractor/internal/frame"
	"github.com/joseph-ayodele/cutflow-extractor/internal/ingest"
	"github.com/joseph-ayodele/cutflow-extractor/internal/repository"
)

// Processor coordinates ingest, parse, materialize and persist for each source in turn.
type Processor struct {
	Logger   *slog.Logger
	Ingestor ingest.Ingestor
	// Runs is optional; when set every run and its sources are recorded.
	Runs repository.RunRepository
}

func NewProcessor(logger *slog.Logger, ingestor ingest.Ingestor, runs repository.RunRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if ingestor == nil {
		ingestor = ingest.NewFSIngestor(logger)
	}
	return &Processor{Logger: logger, Ingestor: ingestor, Runs: runs}
}

// Process parses every source named by paths, sequentially and in order.
// Configuration problems are reported before any source is read. A failing source aborts the
// run unless opts.ContinueOnError is set, in which case it is skipped and its error is joined
// into the returned error. The Result is nil unless opts.Return is set.
func (p *Processor) Process(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var writer *export.DelimitedWriter
	if opts.Save {
		w, err := export.NewDelimitedWriter(opts.DataDir, opts.Format, p.Logger)
		if err != nil {
			return nil, err
		}
		writer = w
	}

	files, stats, err := p.Ingestor.Expand(ctx, paths)
	if err != nil {
		return nil, err
	}
	if err := checkUniqueKeys(files); err != nil {
		return nil, err
	}

	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID)
	logger := common.LoggerFromContext(ctx, p.Logger)
	trace := slog.LevelDebug
	if opts.Verbose {
		trace = slog.LevelInfo
	}

	start := time.Now()
	logger.Info("pipeline.run.start", "sources", len(files), "scanned", stats.Scanned, "skipped", stats.Skipped)
	if err := p.startRun(ctx, runID, start, writer); err != nil {
		return nil, err
	}

	res := newResult(runID, start, opts.ToFrame)
	var failures []error
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			p.finishRun(ctx, logger, runID, constants.RunStatusFailed, res, 0)
			return nil, err
		}

		sr, err := p.processSource(ctx, logger, path, opts, writer, trace)
		if err != nil {
			logger.Error("pipeline.source.failed", "path", path, "err", err)
			if !opts.ContinueOnError {
				p.finishRun(ctx, logger, runID, constants.RunStatusFailed, res, 1)
				return nil, err
			}
			res.Failures = append(res.Failures, Failure{Path: path, Key: cutflow.KeyFromPath(path), Err: err})
			failures = append(failures, err)
			continue
		}
		res.add(sr)

		if p.Runs != nil {
			if err := p.Runs.SaveSource(ctx, runID, sr.record()); err != nil {
				p.finishRun(ctx, logger, runID, constants.RunStatusFailed, res, len(failures))
				return nil, err
			}
		}
	}

	if opts.ToFrame {
		agg, err := frame.FromAggregate(res.Aggregate)
		if err != nil {
			return nil, err
		}
		res.AggregateFrame = agg
		if writer != nil {
			path, err := writer.WriteAggregate(agg)
			if err != nil {
				p.finishRun(ctx, logger, runID, constants.RunStatusFailed, res, len(failures))
				return nil, err
			}
			res.AggregateFile = path
			logger.Log(ctx, trace, "pipeline.aggregate.saved", "path", path, "rows", agg.Len())
		}
	}

	status := constants.RunStatusOK
	if len(failures) > 0 {
		status = constants.RunStatusPartial
	}
	p.finishRun(ctx, logger, runID, status, res, len(failures))
	logger.Info("pipeline.run.ok",
		"status", status,
		"parsed", len(res.Order),
		"failed", len(failures),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if !opts.Return {
		return nil, errors.Join(failures...)
	}
	return res, errors.Join(failures...)
}

// processSource reads, parses and (optionally) materializes and writes one source.
// Nothing is written for a source that fails to parse.
func (p *Processor) processSource(ctx context.Context, logger *slog.Logger, path string, opts Options, writer *export.DelimitedWriter, trace slog.Level) (*SourceResult, error) {
	src, err := p.Ingestor.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	parsed, err := cutflow.ParseLines(src.Key, src.Lines, cutflow.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Log(ctx, trace, "pipeline.source.parsed",
		"key", src.Key, "rows", parsed.Table.Len(), "summary", parsed.Summary != nil,
		"alpha", parsed.GenLevel.Efficiency, "err", parsed.GenLevel.Error)

	sr := &SourceResult{
		Key:      src.Key,
		Path:     src.Path,
		Digest:   src.Digest,
		Table:    parsed.Table,
		Summary:  parsed.Summary,
		GenLevel: parsed.GenLevel,
	}
	if !opts.ToFrame {
		return sr, nil
	}

	f, err := frame.FromTable(parsed.Table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sr.Frame = f
	if writer != nil {
		out, err := writer.WriteTable(src.Key, f)
		if err != nil {
			return nil, err
		}
		sr.File = out
		logger.Log(ctx, trace, "pipeline.source.saved", "key", src.Key, "path", out)
	}
	return sr, nil
}

func (p *Processor) startRun(ctx context.Context, runID uuid.UUID, start time.Time, writer *export.DelimitedWriter) error {
	if p.Runs == nil {
		return nil
	}
	var outDir string
	if writer != nil {
		outDir = writer.Dir()
	}
	return p.Runs.CreateRun(ctx, repository.Run{ID: runID, StartedAt: start, Status: constants.RunStatusRunning, OutputDir: outDir})
}

// finishRun records the final status. Store failures here are logged, not returned.
func (p *Processor) finishRun(ctx context.Context, logger *slog.Logger, runID uuid.UUID, status constants.RunStatus, res *Result, failed int) {
	if p.Runs == nil {
		return
	}
	// the run context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	if err := p.Runs.FinishRun(ctx, runID, status, len(res.Order), failed, time.Now()); err != nil {
		logger.Error("pipeline.run.finish.failed", "status", status, "err", err)
	}
}

// checkUniqueKeys rejects inputs that would overwrite each other's output.
func checkUniqueKeys(paths []string) error {
	seen := make(map[cutflow.SourceKey]string, len(paths))
	for _, path := range paths {
		key := cutflow.KeyFromPath(path)
		if prev, dup := seen[key]; dup {
			return common.NewConfigErrorf("sources %q and %q share the key %q", prev, path, key)
		}
		seen[key] = path
	}
	return nil
}

func (s *SourceResult) record() repository.SourceRecord {
	return repository.SourceRecord{
		Key:      s.Key,
		Path:     s.Path,
		Digest:   s.Digest,
		Table:    s.Table,
		Summary:  s.Summary,
		GenLevel: s.GenLevel,
	}
}
