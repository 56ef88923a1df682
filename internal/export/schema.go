package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
)

// BuildReportJSONSchema returns the JSON-Schema of the run report as a generic map.
func BuildReportJSONSchema() map[string]any {
	nullableNumber := map[string]any{"type": []string{"number", "null"}}
	genLevel := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"key":   map[string]any{"type": "string", "minLength": 1},
			"alpha": map[string]any{"type": "number"},
			"err":   map[string]any{"type": "number"},
		},
		"required": []string{"key", "alpha", "err"},
	}
	source := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"key":     map[string]any{"type": "string", "minLength": 1},
			"path":    map[string]any{"type": "string"},
			"sha256":  map[string]any{"type": "string", "pattern": `^[0-9a-f]{64}$`},
			"rows":    map[string]any{"type": "integer", "minimum": 6},
			"columns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 7, "maxItems": 7},
			"summary": map[string]any{
				"type":                 []string{"object", "null"},
				"additionalProperties": false,
				"properties": map[string]any{
					"ratio":       nullableNumber,
					"uncertainty": nullableNumber,
				},
				"required": []string{"ratio", "uncertainty"},
			},
			"gen_level": genLevel,
		},
		"required": []string{"key", "path", "sha256", "rows", "columns", "summary", "gen_level"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"run_id":       map[string]any{"type": "string", "pattern": `^[0-9a-f-]{36}$`},
			"generated_at": map[string]any{"type": "string", "minLength": 1},
			"sources":      map[string]any{"type": "array", "items": source},
			"alpha_gen":    map[string]any{"type": "array", "items": genLevel},
		},
		"required": []string{"run_id", "generated_at", "sources", "alpha_gen"},
	}
}

// ReportSchemaError names the part of a run report that failed validation.
type ReportSchemaError struct {
	Source   string // key of the offending source; empty outside "sources"
	Location string // JSON pointer into the report
	Reason   string
}

func (e *ReportSchemaError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("report source %s: %s at %s", e.Source, e.Reason, e.Location)
	}
	return fmt.Sprintf("report: %s at %q", e.Reason, e.Location)
}

func (e *ReportSchemaError) Unwrap() error { return common.ErrValidation }

var reportSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(BuildReportJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("report.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("report.json")
})

// ValidateReport checks data, the JSON form of rep, against the report schema.
// A mismatch is a *ReportSchemaError pointing at the deepest failing value.
func ValidateReport(rep *Report, data []byte) error {
	schema, err := reportSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal report: %w", err)
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate report: %w", err)
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	out := &ReportSchemaError{Location: ve.InstanceLocation, Reason: ve.Message}
	if i, ok := sourceIndex(ve.InstanceLocation); ok && i < len(rep.Sources) {
		out.Source = rep.Sources[i].Key
	}
	return out
}

// sourceIndex extracts i from a "/sources/<i>/..." pointer.
func sourceIndex(loc string) (int, bool) {
	rest, ok := strings.CutPrefix(loc, "/sources/")
	if !ok {
		return 0, false
	}
	idx, _, _ := strings.Cut(rest, "/")
	i, err := strconv.Atoi(idx)
	return i, err == nil
}
