package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
)

// Table names of the run store.
const (
	TableRuns        = "runs"
	TableSummaries   = "source_summaries"
	TableCutflowRows = "cutflow_rows"
)

// column types per backend
type columnTypes struct {
	text, integer, real string
}

func typesFor(d string) columnTypes {
	if d == dialect.Postgres {
		return columnTypes{text: "TEXT", integer: "BIGINT", real: "DOUBLE PRECISION"}
	}
	return columnTypes{text: "TEXT", integer: "INTEGER", real: "REAL"}
}

// schemaQueries renders the CREATE TABLE statements for dialect d, parents first.
func schemaQueries(d string) []string {
	t := typesFor(d)
	runRef := fmt.Sprintf("FOREIGN KEY (run_id) REFERENCES %s (id) ON DELETE CASCADE", TableRuns)

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id %[2]s NOT NULL,
	started_at %[2]s NOT NULL,
	finished_at %[2]s,
	status %[2]s NOT NULL,
	sources %[3]s NOT NULL DEFAULT 0,
	failed %[3]s NOT NULL DEFAULT 0,
	output_dir %[2]s,
	PRIMARY KEY (id)
)`, TableRuns, t.text, t.integer),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id %[2]s NOT NULL,
	source_key %[2]s NOT NULL,
	path %[2]s NOT NULL,
	sha256 %[2]s NOT NULL,
	row_count %[3]s NOT NULL,
	ratio %[4]s,
	uncertainty %[4]s,
	alpha %[4]s NOT NULL,
	alpha_err %[4]s NOT NULL,
	PRIMARY KEY (run_id, source_key),
	%[5]s
)`, TableSummaries, t.text, t.integer, t.real, runRef),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id %[2]s NOT NULL,
	source_key %[2]s NOT NULL,
	row_idx %[3]s NOT NULL,
	cut_num %[3]s NOT NULL,
	selection %[2]s NOT NULL,
	events %[3]s NOT NULL,
	tot_eff %[4]s NOT NULL,
	rel_eff %[4]s NOT NULL,
	tot_eff_err %[4]s NOT NULL,
	rel_eff_err %[4]s NOT NULL,
	PRIMARY KEY (run_id, source_key, row_idx),
	%[5]s
)`, TableCutflowRows, t.text, t.integer, t.real, runRef),
	}
}

// Migrate creates the store tables if they do not exist.
func (d *DB) Migrate(ctx context.Context) error {
	for _, query := range schemaQueries(d.dialect) {
		if err := d.drv.Exec(ctx, query, []any{}, nil); err != nil {
			d.logger.Error("failed to migrate schema", "error", err)
			return fmt.Errorf("migrate: %w", err)
		}
	}
	d.logger.Debug("schema ready", "dialect", d.dialect)
	return nil
}
