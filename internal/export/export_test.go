package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow/cutflowtest"
	"github.com/joseph-ayodele/cutflow-extractor/internal/frame"
)

func testRun(t *testing.T, keys ...string) *RunReport {
	t.Helper()
	run := &RunReport{RunID: uuid.New(), StartedAt: time.Now(), Aggregate: cutflow.NewAggregate()}
	summaries := []string{cutflowtest.SummaryWithError, cutflowtest.SummaryNoError, ""}
	for i, k := range keys {
		parsed, err := cutflow.ParseLines(cutflow.SourceKey(k), cutflowtest.New(7+i, summaries[i%len(summaries)]).Lines())
		if err != nil {
			t.Fatalf("parse %s: %v", k, err)
		}
		run.Aggregate.Add(parsed.GenLevel)
		run.Sources = append(run.Sources, SourceReport{
			Key:      parsed.Table.Key,
			Path:     "/reports/" + k + ".tex",
			Digest:   strings.Repeat("ab", 32),
			Table:    parsed.Table,
			Summary:  parsed.Summary,
			GenLevel: parsed.GenLevel,
		})
	}
	return run
}

func TestNormalizeDir(t *testing.T) {
	sep := string(filepath.Separator)
	cases := map[string]string{
		"":                      "",
		"out":                   "out" + sep,
		"out" + sep:             "out" + sep,
		"out" + sep + sep:       "out" + sep,
		filepath.Join("a", "b"): filepath.Join("a", "b") + sep,
	}
	for in, want := range cases {
		if got := NormalizeDir(in); got != want {
			t.Errorf("NormalizeDir(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDelimitedWriterPathsAndContent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := NewDelimitedWriter(dir, "TSV", nil)
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	run := testRun(t, "m30")
	f, err := frame.FromTable(run.Sources[0].Table)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	path, err := w.WriteTable("m30", f)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if want := filepath.Join(dir, "dataframe_m30.tsv"); path != want {
		t.Fatalf("path = %s, want %s", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	back, err := frame.ReadDelimited(bytes.NewReader(data), '\t')
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if diff := cmp.Diff(f.Columns(), back.Columns()); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}

	agg, err := frame.FromAggregate(run.Aggregate)
	if err != nil {
		t.Fatalf("aggregate frame: %v", err)
	}
	path, err = w.WriteAggregate(agg)
	if err != nil {
		t.Fatalf("write aggregate: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "\tkey\talpha\terr\n0\tm30\t") {
		t.Fatalf("alpha_gen.tsv = %q", data)
	}
}

func TestNewDelimitedWriterConfigErrors(t *testing.T) {
	if _, err := NewDelimitedWriter("", "csv", nil); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("empty dir: err = %v", err)
	}
	if _, err := NewDelimitedWriter(t.TempDir(), "parquet", nil); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("bad format: err = %v", err)
	}
}

func TestWorkbookXLSX(t *testing.T) {
	run := testRun(t, "DarkPhoton_mZd30", "Summary", "a/b:c")
	data, err := NewService(nil).WorkbookXLSX(context.Background(), run)
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	want := []string{"summary", "alpha_gen", "DarkPhoton_mZd30", "Summary~2", "a_b_c"}
	if diff := cmp.Diff(want, f.GetSheetList()); diff != "" {
		t.Fatalf("sheets (-want +got):\n%s", diff)
	}

	rows, err := f.GetRows("DarkPhoton_mZd30")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("sheet rows = %d, want header + 7", len(rows))
	}
	if diff := cmp.Diff(cutflowtest.Columns, rows[0]); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	if rows[1][1] != "NoCut" || rows[1][2] != "20000" {
		t.Fatalf("first data row = %q", rows[1])
	}

	summary, err := f.GetRows("summary")
	if err != nil {
		t.Fatalf("summary rows: %v", err)
	}
	if summary[1][0] != "DarkPhoton_mZd30" || summary[1][2] != "0.042" || summary[1][3] != "0.003" {
		t.Fatalf("summary row = %q", summary[1])
	}
	// second source has no uncertainty
	if summary[2][3] != "" {
		t.Fatalf("uncertainty cell = %q, want empty", summary[2][3])
	}
}

func TestSanitizeSheetName(t *testing.T) {
	if got := SanitizeSheetName("x[1]/y?"); got != "x_1__y_" {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("k", 40)
	if got := SanitizeSheetName(long); len(got) != 31 {
		t.Errorf("len = %d, want 31", len(got))
	}
	n := newSheetNames()
	if a, b := n.take(long), n.take(long); a == b || len(b) != 31 {
		t.Errorf("names %q %q not unique or too long", a, b)
	}
}

func TestReportJSONValidatesAndNullsAbsentValues(t *testing.T) {
	run := testRun(t, "m10", "m20", "m30")
	data, err := NewService(nil).ReportJSON(context.Background(), run)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rep.RunID != run.RunID.String() || len(rep.Sources) != 3 || len(rep.AlphaGen) != 3 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.Sources[1].Summary == nil || rep.Sources[1].Summary.Uncertainty.IsPresent() {
		t.Fatalf("m20 summary = %+v, want absent uncertainty", rep.Sources[1].Summary)
	}
	if rep.Sources[2].Summary != nil {
		t.Fatalf("m30 summary = %+v, want null", rep.Sources[2].Summary)
	}
	if !strings.Contains(string(data), `"uncertainty": null`) {
		t.Fatalf("absent uncertainty not rendered as null:\n%s", data)
	}
}

func TestReportSchemaRejectsShortTables(t *testing.T) {
	run := testRun(t, "m10", "m30")
	rep := NewReport(run, time.Now())
	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := ValidateReport(rep, data); err != nil {
		t.Fatalf("valid report rejected: %v", err)
	}

	rep.Sources[1].Rows = 5
	if data, err = json.Marshal(rep); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	err = ValidateReport(rep, data)
	var se *ReportSchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *ReportSchemaError", err)
	}
	if se.Source != "m30" || se.Location != "/sources/1/rows" || !errors.Is(err, common.ErrValidation) {
		t.Fatalf("schema error = %+v", se)
	}
	if !strings.Contains(err.Error(), "report source m30") {
		t.Errorf("message = %q", err.Error())
	}

	rep.Sources[1].Rows = 6
	rep.RunID = "not-a-run"
	if data, err = json.Marshal(rep); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := ValidateReport(rep, data); !errors.As(err, &se) || se.Source != "" || se.Location != "/run_id" {
		t.Fatalf("run id error = %v", err)
	}
}
