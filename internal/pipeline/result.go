package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
	"github.com/joseph-ayodele/cutflow-extractor/internal/export"
	"github.com/joseph-ayodele/cutflow-extractor/internal/frame"
)

// SourceResult is the output of one successfully processed source.
type SourceResult struct {
	Key      cutflow.SourceKey
	Path     string
	Digest   string
	Table    *cutflow.Table
	Frame    *frame.Frame // nil unless ToFrame
	Summary  *cutflow.Summary
	GenLevel cutflow.GenLevelEfficiency
	File     string // written delimited file, if saved
}

// Failure records a source skipped under ContinueOnError.
type Failure struct {
	Path string
	Key  cutflow.SourceKey
	Err  error
}

// Result is everything a run produced. Maps are keyed by source; Order keeps processing order.
type Result struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Order     []cutflow.SourceKey
	Sources   map[cutflow.SourceKey]*SourceResult
	Tables    map[cutflow.SourceKey]*cutflow.Table
	Frames    map[cutflow.SourceKey]*frame.Frame
	Summaries map[cutflow.SourceKey]cutflow.Summary
	GenLevel  map[cutflow.SourceKey]cutflow.GenLevelEfficiency
	Aggregate *cutflow.Aggregate
	// AggregateFrame is the key/alpha/err frame, nil unless ToFrame.
	AggregateFrame *frame.Frame
	AggregateFile  string
	Failures       []Failure
}

func newResult(runID uuid.UUID, startedAt time.Time, toFrame bool) *Result {
	r := &Result{
		RunID:     runID,
		StartedAt: startedAt,
		Sources:   make(map[cutflow.SourceKey]*SourceResult),
		Tables:    make(map[cutflow.SourceKey]*cutflow.Table),
		Summaries: make(map[cutflow.SourceKey]cutflow.Summary),
		GenLevel:  make(map[cutflow.SourceKey]cutflow.GenLevelEfficiency),
		Aggregate: cutflow.NewAggregate(),
	}
	if toFrame {
		r.Frames = make(map[cutflow.SourceKey]*frame.Frame)
	}
	return r
}

func (r *Result) add(s *SourceResult) {
	r.Order = append(r.Order, s.Key)
	r.Sources[s.Key] = s
	r.Tables[s.Key] = s.Table
	if r.Frames != nil && s.Frame != nil {
		r.Frames[s.Key] = s.Frame
	}
	if s.Summary != nil {
		r.Summaries[s.Key] = *s.Summary
	}
	r.GenLevel[s.Key] = s.GenLevel
	r.Aggregate.Add(s.GenLevel)
}

// Ordered returns the source results in processing order.
func (r *Result) Ordered() []*SourceResult {
	out := make([]*SourceResult, 0, len(r.Order))
	for _, k := range r.Order {
		out = append(out, r.Sources[k])
	}
	return out
}

// RunReport converts the result for the XLSX and JSON exporters.
func (r *Result) RunReport() *export.RunReport {
	rep := &export.RunReport{RunID: r.RunID, StartedAt: r.StartedAt, Aggregate: r.Aggregate}
	for _, s := range r.Ordered() {
		rep.Sources = append(rep.Sources, export.SourceReport{
			Key:      s.Key,
			Path:     s.Path,
			Digest:   s.Digest,
			Table:    s.Table,
			Summary:  s.Summary,
			GenLevel: s.GenLevel,
		})
	}
	return rep
}
