package export

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/cutflow-extractor/constants"
	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
	"github.com/joseph-ayodele/cutflow-extractor/internal/frame"
)

// Sheets that are always present in the workbook.
const (
	SummarySheet   = "summary"
	AggregateSheet = constants.AggregateFileStem
	maxSheetName   = 31
)

// Service renders run results into documents.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WorkbookXLSX returns an XLSX workbook (as bytes): a summary sheet, the alpha_gen sheet
// and one sheet per source, in processing order.
func (s *Service) WorkbookXLSX(ctx context.Context, run *RunReport) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close.error", "err", err)
		}
	}()

	names := newSheetNames(SummarySheet, AggregateSheet)

	if err := writeSummarySheet(f, run); err != nil {
		return nil, err
	}
	aggregate := run.Aggregate
	if aggregate == nil {
		aggregate = cutflow.NewAggregate()
	}
	agg, err := frame.FromAggregate(aggregate)
	if err != nil {
		return nil, err
	}
	if err := writeFrameSheet(f, AggregateSheet, agg); err != nil {
		return nil, err
	}
	for _, src := range run.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tf, err := frame.FromTable(src.Table)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Key, err)
		}
		if err := writeFrameSheet(f, names.take(src.Key.String()), tf); err != nil {
			return nil, err
		}
	}

	if index, err := f.GetSheetIndex(SummarySheet); err == nil {
		f.SetActiveSheet(index)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"sources", len(run.Sources),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, run *RunReport) error {
	// the default sheet becomes the summary
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("xlsx summary sheet: %w", err)
	}
	headers := []string{"key", "rows", "ratio", "uncertainty", "alpha", "err", "sha256"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SummarySheet, cell, h)
	}

	row := 2
	for _, src := range run.Sources {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SummarySheet, cell, v)
		}
		write(1, src.Key.String())
		write(2, src.Table.Len())
		if src.Summary != nil {
			if r, ok := src.Summary.Ratio.Get(); ok {
				write(3, r)
			}
			if u, ok := src.Summary.Uncertainty.Get(); ok {
				write(4, u)
			}
		}
		write(5, src.GenLevel.Efficiency)
		write(6, src.GenLevel.Error)
		write(7, src.Digest)
		row++
	}

	_ = f.SetColWidth(SummarySheet, "A", "A", 28) // key
	_ = f.SetColWidth(SummarySheet, "B", "F", 12)
	_ = f.SetColWidth(SummarySheet, "G", "G", 66) // digest
	return nil
}

func writeFrameSheet(f *excelize.File, sheet string, fr *frame.Frame) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx sheet %q: %w", sheet, err)
	}
	for j, name := range fr.Columns() {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}
	for i := 0; i < fr.Len(); i++ {
		for j, v := range fr.Row(i) {
			if x, ok := v.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	if fr.Width() > 1 {
		_ = f.SetColWidth(sheet, "B", "B", 24) // selection label
	}
	return nil
}

// sheetNames hands out unique, valid worksheet names. Excel compares them case-insensitively.
type sheetNames struct {
	used map[string]struct{}
}

func newSheetNames(reserved ...string) *sheetNames {
	n := &sheetNames{used: make(map[string]struct{})}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = struct{}{}
	}
	return n
}

func (n *sheetNames) take(key string) string {
	base := SanitizeSheetName(key)
	name := base
	for i := 2; ; i++ {
		if _, dup := n.used[strings.ToLower(name)]; !dup {
			break
		}
		suffix := fmt.Sprintf("~%d", i)
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	n.used[strings.ToLower(name)] = struct{}{}
	return name
}

// SanitizeSheetName replaces characters Excel rejects and caps the length at 31.
func SanitizeSheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, s)
	s = strings.Trim(s, "'")
	if s == "" {
		s = "sheet"
	}
	return truncateRunes(s, maxSheetName)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
