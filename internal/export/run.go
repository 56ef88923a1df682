package export

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
)

// RunReport is what a processing run produced, sources in processing order.
type RunReport struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Sources   []SourceReport
	Aggregate *cutflow.Aggregate
}

// SourceReport is one successfully parsed source.
type SourceReport struct {
	Key      cutflow.SourceKey
	Path     string
	Digest   string
	Table    *cutflow.Table
	Summary  *cutflow.Summary
	GenLevel cutflow.GenLevelEfficiency
}
