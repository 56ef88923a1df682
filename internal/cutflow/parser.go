// Package cutflow extracts the cutflow table embedded in a generated LaTeX report and converts
// it into typed columns, the optional epsilon/alpha summary and the generator-level efficiency.
package cutflow

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/cutflow-extractor/constants"
)

// State is the position of the parser relative to the table.
type State int

const (
	StateSeekingTable State = iota
	StateSkippingBoilerplate
	StateExpectingHeader
	StateReadingData
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSeekingTable:
		return "seeking_table"
	case StateSkippingBoilerplate:
		return "skipping_boilerplate"
	case StateExpectingHeader:
		return "expecting_header"
	case StateReadingData:
		return "reading_data"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Parsed is everything extracted from one source.
type Parsed struct {
	Table *Table
	// Summary is nil when the report has no epsilon/rec*alpha_gen row.
	Summary  *Summary
	GenLevel GenLevelEfficiency
}

type Option func(*Parser)

// WithLogger sets the logger used for the Debug-level trace.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Parser is a line-fed state machine for one source. Use ParseLines unless lines arrive
// incrementally.
type Parser struct {
	key     SourceKey
	logger  *slog.Logger
	state   State
	skip    int
	table   *Table
	summary *Summary
}

func NewParser(key SourceKey, opts ...Option) *Parser {
	p := &Parser{key: key, logger: slog.Default(), state: StateSeekingTable}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Parser) State() State { return p.state }

// ParseLines runs a fresh Parser over all lines of a source.
func ParseLines(key SourceKey, lines []string, opts ...Option) (*Parsed, error) {
	p := NewParser(key, opts...)
	for i, line := range lines {
		if p.state == StateDone {
			break
		}
		if err := p.Step(i+1, line); err != nil {
			return nil, err
		}
	}
	return p.Finish()
}

// Step feeds the line with 1-based number lineNo.
func (p *Parser) Step(lineNo int, line string) error {
	line = strings.TrimRight(line, "\r\n")
	switch p.state {
	case StateSeekingTable:
		if IsMarker(line) {
			p.logger.Debug("cutflow.table.found", "key", p.key, "line", lineNo)
			p.skip = constants.TableOffset - 1
			p.state = StateSkippingBoilerplate
			if p.skip <= 0 {
				p.state = StateExpectingHeader
			}
		}
	case StateSkippingBoilerplate:
		p.skip--
		if p.skip <= 0 {
			p.state = StateExpectingHeader
		}
	case StateExpectingHeader, StateReadingData:
		return p.tableLine(lineNo, line)
	}
	return nil
}

func (p *Parser) tableLine(lineNo int, line string) error {
	switch Classify(line) {
	case RowBlank:
		return nil
	case RowEnd:
		p.logger.Debug("cutflow.table.end", "key", p.key, "line", lineNo, "rows", p.rows())
		p.state = StateDone
	case RowSummary:
		s, ferr := parseSummary(Fragments(line)[1])
		if ferr != nil {
			return p.located(lineNo, ferr)
		}
		p.summary = &s
		p.state = StateDone
		p.logger.Debug("cutflow.summary",
			"key", p.key, "line", lineNo,
			"eps_alpha", s.Ratio.String(), "eps_alpha_err", s.Uncertainty.String())
	case RowCells:
		frags := Fragments(line)
		if p.state == StateExpectingHeader {
			return p.header(lineNo, frags)
		}
		r, ferr := convertRow(frags, p.table.names)
		if ferr != nil {
			return p.located(lineNo, ferr)
		}
		p.table.append(r)
	}
	return nil
}

func (p *Parser) header(lineNo int, frags []string) error {
	names := []string{constants.CutNumColumn}
	for _, f := range frags {
		names = append(names, HeaderTokens(f)...)
	}
	if len(names) < ColumnCount {
		return structuralf(p.key, "line %d: header yields %d column names %v, want %d",
			lineNo, len(names), names, ColumnCount)
	}
	var fixed [ColumnCount]string
	copy(fixed[:], names)
	seen := make(map[string]struct{}, ColumnCount)
	for _, n := range fixed {
		if _, dup := seen[n]; dup {
			return structuralf(p.key, "line %d: duplicate column name %q in header", lineNo, n)
		}
		seen[n] = struct{}{}
	}
	p.table = newTable(p.key, fixed)
	p.state = StateReadingData
	p.logger.Debug("cutflow.header", "key", p.key, "line", lineNo, "columns", fixed[:])
	return nil
}

// Finish validates the scan and extracts the generator-level efficiency.
func (p *Parser) Finish() (*Parsed, error) {
	if p.state == StateSeekingTable {
		return nil, structuralf(p.key, "table marker %q not found", constants.TableMarker)
	}
	if p.table == nil {
		return nil, structuralf(p.key, "no header row after the table marker")
	}
	gen, err := p.table.GenLevel()
	if err != nil {
		return nil, err
	}
	if p.summary == nil {
		p.logger.Debug("cutflow.summary.missing", "key", p.key)
	}
	return &Parsed{Table: p.table, Summary: p.summary, GenLevel: gen}, nil
}

func (p *Parser) rows() int {
	if p.table == nil {
		return 0
	}
	return p.table.Len()
}

func (p *Parser) located(lineNo int, ferr *FormatError) error {
	ferr.Key = p.key
	ferr.Line = lineNo
	return ferr
}
