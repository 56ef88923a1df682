// Package console renders run results and run history for a terminal.
package console

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
	"github.com/joseph-ayodele/cutflow-extractor/internal/pipeline"
	"github.com/joseph-ayodele/cutflow-extractor/internal/repository"
)

const absent = "-"

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewLogger builds the process logger. "auto" picks text on a terminal and JSON otherwise.
func NewLogger(out *os.File, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case common.LogFormatJSON:
		return slog.New(slog.NewJSONHandler(out, opts))
	case common.LogFormatText:
		return slog.New(slog.NewTextHandler(out, opts))
	}
	if !IsTerminal(out) {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	return t
}

// WriteSummary prints one line per parsed source, in processing order.
func WriteSummary(w io.Writer, res *pipeline.Result) {
	t := newTable(w, []string{"source", "cuts", "events[0]", "events[last]", "alpha_gen", "err", "eps/alpha", "+-"})
	for _, s := range res.Ordered() {
		events := s.Table.Events()
		first, last := absent, absent
		if len(events) > 0 {
			first = humanize.Comma(events[0])
			last = humanize.Comma(events[len(events)-1])
		}
		ratio, unc := absent, absent
		if s.Summary != nil {
			ratio = optional(s.Summary.Ratio)
			unc = optional(s.Summary.Uncertainty)
		}
		t.Append([]string{
			s.Key.String(),
			strconv.Itoa(s.Table.Len()),
			first,
			last,
			float(s.GenLevel.Efficiency),
			float(s.GenLevel.Error),
			ratio,
			unc,
		})
	}
	for _, f := range res.Failures {
		t.Append([]string{f.Key.String(), "failed", absent, absent, absent, absent, absent, absent})
	}
	t.Render()
}

// WriteRuns prints stored runs, newest first.
func WriteRuns(w io.Writer, runs []repository.Run) {
	t := newTable(w, []string{"run", "started", "status", "sources", "failed", "elapsed", "output"})
	for _, r := range runs {
		elapsed := absent
		if r.FinishedAt != nil {
			elapsed = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		out := r.OutputDir
		if out == "" {
			out = absent
		}
		t.Append([]string{
			r.ID.String(),
			humanize.Time(r.StartedAt),
			string(r.Status),
			humanize.Comma(int64(r.Sources)),
			humanize.Comma(int64(r.Failed)),
			elapsed,
			out,
		})
	}
	t.Render()
}

// WriteSources prints the stored summaries of one run.
func WriteSources(w io.Writer, sources []repository.SourceSummary) {
	t := newTable(w, []string{"source", "rows", "alpha_gen", "err", "eps/alpha", "+-", "sha256"})
	for _, s := range sources {
		digest := s.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		t.Append([]string{
			s.Key.String(),
			strconv.Itoa(s.Rows),
			float(s.Alpha),
			float(s.AlphaErr),
			optional(s.Ratio),
			optional(s.Uncertainty),
			digest,
		})
	}
	t.Render()
}

func float(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func optional(o cutflow.Optional[float64]) string {
	if v, ok := o.Get(); ok {
		return float(v)
	}
	return absent
}
