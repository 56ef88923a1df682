package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/cutflow-extractor/constants"
	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
)

// fixed width so that text ordering is time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one row of the runs table.
type Run struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     constants.RunStatus
	Sources    int
	Failed     int
	OutputDir  string
}

// SourceRecord is everything stored for one parsed source.
type SourceRecord struct {
	Key      cutflow.SourceKey
	Path     string
	Digest   string
	Table    *cutflow.Table
	Summary  *cutflow.Summary
	GenLevel cutflow.GenLevelEfficiency
}

// SourceSummary is one row of the source_summaries table.
type SourceSummary struct {
	Key         cutflow.SourceKey
	Path        string
	Digest      string
	Rows        int
	Ratio       cutflow.Optional[float64]
	Uncertainty cutflow.Optional[float64]
	Alpha       float64
	AlphaErr    float64
}

type RunRepository interface {
	CreateRun(ctx context.Context, run Run) error
	SaveSource(ctx context.Context, runID uuid.UUID, src SourceRecord) error
	FinishRun(ctx context.Context, runID uuid.UUID, status constants.RunStatus, sources, failed int, finishedAt time.Time) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListSources(ctx context.Context, runID uuid.UUID) ([]SourceSummary, error)
	CountRows(ctx context.Context, runID uuid.UUID, key cutflow.SourceKey) (int, error)
}

type runRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewRunRepository(db *DB, logger *slog.Logger) RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &runRepository{db: db, logger: logger}
}

func (r *runRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.dialect)
}

func (r *runRepository) CreateRun(ctx context.Context, run Run) error {
	if run.Status == "" {
		run.Status = constants.RunStatusRunning
	}
	query, args := r.builder().Insert(TableRuns).
		Columns("id", "started_at", "status", "sources", "failed", "output_dir").
		Values(run.ID.String(), formatTime(run.StartedAt), string(run.Status), run.Sources, run.Failed, run.OutputDir).
		Query()
	if err := r.db.drv.Exec(ctx, query, args, nil); err != nil {
		r.logger.Error("failed to create run", "run_id", run.ID, "error", err)
		return common.NewAppError(common.CodeDatabase, "create run", err)
	}
	return nil
}

// SaveSource stores the summary and every data row of one source in a single transaction.
func (r *runRepository) SaveSource(ctx context.Context, runID uuid.UUID, src SourceRecord) (err error) {
	tx, err := r.db.drv.Tx(ctx)
	if err != nil {
		return common.NewAppError(common.CodeDatabase, "begin", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				r.logger.Error("failed to rollback", "run_id", runID, "key", src.Key, "error", rerr)
			}
		}
	}()

	var ratio, uncertainty any
	if src.Summary != nil {
		ratio, uncertainty = nullableArg(src.Summary.Ratio), nullableArg(src.Summary.Uncertainty)
	}
	query, args := r.builder().Insert(TableSummaries).
		Columns("run_id", "source_key", "path", "sha256", "row_count", "ratio", "uncertainty", "alpha", "alpha_err").
		Values(runID.String(), src.Key.String(), src.Path, src.Digest, src.Table.Len(),
			ratio, uncertainty, src.GenLevel.Efficiency, src.GenLevel.Error).
		Query()
	if err = tx.Exec(ctx, query, args, nil); err != nil {
		r.logger.Error("failed to save summary", "run_id", runID, "key", src.Key, "error", err)
		return common.NewAppError(common.CodeDatabase, "save summary", err)
	}

	if src.Table.Len() > 0 {
		ins := r.builder().Insert(TableCutflowRows).
			Columns("run_id", "source_key", "row_idx", "cut_num", "selection", "events",
				"tot_eff", "rel_eff", "tot_eff_err", "rel_eff_err")
		for i, row := range src.Table.Rows() {
			ins.Values(runID.String(), src.Key.String(), i, row.CutNum, row.Selection, row.Events,
				row.TotEff, row.RelEff, row.TotEffErr, row.RelEffErr)
		}
		query, args = ins.Query()
		if err = tx.Exec(ctx, query, args, nil); err != nil {
			r.logger.Error("failed to save cutflow rows", "run_id", runID, "key", src.Key, "error", err)
			return common.NewAppError(common.CodeDatabase, "save cutflow rows", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return common.NewAppError(common.CodeDatabase, "commit", err)
	}
	return nil
}

func (r *runRepository) FinishRun(ctx context.Context, runID uuid.UUID, status constants.RunStatus, sources, failed int, finishedAt time.Time) error {
	query, args := r.builder().Update(TableRuns).
		Set("status", string(status)).
		Set("sources", sources).
		Set("failed", failed).
		Set("finished_at", formatTime(finishedAt)).
		Where(entsql.EQ("id", runID.String())).
		Query()
	var res sql.Result
	if err := r.db.drv.Exec(ctx, query, args, &res); err != nil {
		r.logger.Error("failed to finish run", "run_id", runID, "error", err)
		return common.NewAppError(common.CodeDatabase, "finish run", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NewAppError(common.CodeDatabase, "finish run "+runID.String(), common.ErrNotFound)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 means all.
func (r *runRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	sel := r.builder().Select("id", "started_at", "finished_at", "status", "sources", "failed", "output_dir").
		From(entsql.Table(TableRuns)).
		OrderBy(entsql.Desc("started_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		r.logger.Error("failed to list runs", "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "list runs", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			id, started, status string
			finished, outDir    sql.NullString
			run                 Run
		)
		if err := rows.Scan(&id, &started, &finished, &status, &run.Sources, &run.Failed, &outDir); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		var err error
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("run id %q: %w", id, err)
		}
		if run.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if finished.Valid {
			t, err := parseTime(finished.String)
			if err != nil {
				return nil, err
			}
			run.FinishedAt = &t
		}
		run.Status = constants.RunStatus(status)
		run.OutputDir = outDir.String
		out = append(out, run)
	}
	return out, rows.Err()
}

// ListSources returns the stored summaries of one run in key order.
func (r *runRepository) ListSources(ctx context.Context, runID uuid.UUID) ([]SourceSummary, error) {
	query, args := r.builder().
		Select("source_key", "path", "sha256", "row_count", "ratio", "uncertainty", "alpha", "alpha_err").
		From(entsql.Table(TableSummaries)).
		Where(entsql.EQ("run_id", runID.String())).
		OrderBy("source_key").
		Query()

	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		r.logger.Error("failed to list sources", "run_id", runID, "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "list sources", err)
	}
	defer rows.Close()

	var out []SourceSummary
	for rows.Next() {
		var (
			s                  SourceSummary
			key                string
			ratio, uncertainty sql.NullFloat64
		)
		if err := rows.Scan(&key, &s.Path, &s.Digest, &s.Rows, &ratio, &uncertainty, &s.Alpha, &s.AlphaErr); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		s.Key = cutflow.SourceKey(key)
		s.Ratio = nullable(ratio)
		s.Uncertainty = nullable(uncertainty)
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountRows returns how many cutflow rows were stored for one source of a run.
func (r *runRepository) CountRows(ctx context.Context, runID uuid.UUID, key cutflow.SourceKey) (int, error) {
	query, args := r.builder().
		Select(entsql.Count("*")).
		From(entsql.Table(TableCutflowRows)).
		Where(entsql.And(
			entsql.EQ("run_id", runID.String()),
			entsql.EQ("source_key", key.String()),
		)).
		Query()

	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, common.NewAppError(common.CodeDatabase, "count rows", err)
	}
	defer rows.Close()

	n, err := entsql.ScanInt(rows)
	if err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return n, nil
}

func nullable(v sql.NullFloat64) cutflow.Optional[float64] {
	if !v.Valid {
		return cutflow.Absent[float64]()
	}
	return cutflow.Present(v.Float64)
}

// nullableArg binds an absent value as NULL.
func nullableArg(o cutflow.Optional[float64]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored time %q: %w", s, err)
	}
	return t, nil
}
