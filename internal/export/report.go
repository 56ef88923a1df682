package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
)

// Report is the JSON document written by --report.
type Report struct {
	RunID       string                       `json:"run_id"`
	GeneratedAt string                       `json:"generated_at"`
	Sources     []ReportSource               `json:"sources"`
	AlphaGen    []cutflow.GenLevelEfficiency `json:"alpha_gen"`
}

type ReportSource struct {
	Key      string                     `json:"key"`
	Path     string                     `json:"path"`
	SHA256   string                     `json:"sha256"`
	Rows     int                        `json:"rows"`
	Columns  []string                   `json:"columns"`
	Summary  *cutflow.Summary           `json:"summary"`
	GenLevel cutflow.GenLevelEfficiency `json:"gen_level"`
}

// NewReport flattens a run into its JSON form.
func NewReport(run *RunReport, now time.Time) *Report {
	rep := &Report{
		RunID:       run.RunID.String(),
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Sources:     make([]ReportSource, 0, len(run.Sources)),
		AlphaGen:    []cutflow.GenLevelEfficiency{},
	}
	for _, src := range run.Sources {
		rep.Sources = append(rep.Sources, ReportSource{
			Key:      src.Key.String(),
			Path:     src.Path,
			SHA256:   src.Digest,
			Rows:     src.Table.Len(),
			Columns:  src.Table.Columns(),
			Summary:  src.Summary,
			GenLevel: src.GenLevel,
		})
	}
	if run.Aggregate != nil {
		rep.AlphaGen = run.Aggregate.Rows()
	}
	return rep
}

// ReportJSON renders the run report and validates it with ValidateReport.
func (s *Service) ReportJSON(ctx context.Context, run *RunReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rep := NewReport(run, time.Now())
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	if err := ValidateReport(rep, data); err != nil {
		s.logger.Error("export.report.invalid", "err", err)
		return nil, err
	}
	s.logger.Info("export.report.ok", "sources", len(run.Sources), "bytes", len(data))
	return data, nil
}

// WriteFile writes an export document to path.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return common.NewAppError(common.CodeIO, "write "+path, err)
	}
	return nil
}
