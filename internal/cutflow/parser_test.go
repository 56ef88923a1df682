package cutflow

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow/cutflowtest"
)

var cmpOpts = []cmp.Option{cmp.AllowUnexported(Table{}, Optional[float64]{})}

func TestParseLinesEndToEnd(t *testing.T) {
	rep := cutflowtest.New(7, cutflowtest.SummaryWithError)
	got, err := ParseLines("DarkPhoton_mZd30", rep.Lines())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff(cutflowtest.Columns, got.Table.Columns()); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6}, got.Table.CutNums()); diff != "" {
		t.Fatalf("CutNum (-want +got):\n%s", diff)
	}
	for i, c := range rep.Cuts {
		want := Row{c.Num, c.Label, c.Events, c.TotEff, c.RelEff, c.TotEffErr, c.RelEffErr}
		if diff := cmp.Diff(want, got.Table.Row(i)); diff != "" {
			t.Errorf("row %d (-want +got):\n%s", i, diff)
		}
	}

	if got.Summary == nil {
		t.Fatal("summary missing")
	}
	if r, ok := got.Summary.Ratio.Get(); !ok || r != 0.042 {
		t.Errorf("ratio = %v, want 0.042", got.Summary.Ratio)
	}
	if u, ok := got.Summary.Uncertainty.Get(); !ok || u != 0.003 {
		t.Errorf("uncertainty = %v, want 0.003", got.Summary.Uncertainty)
	}

	wantGen := GenLevelEfficiency{Key: "DarkPhoton_mZd30", Efficiency: rep.Cuts[5].TotEff, Error: rep.Cuts[5].TotEffErr}
	if got.GenLevel != wantGen {
		t.Errorf("gen level = %+v, want %+v", got.GenLevel, wantGen)
	}
}

func TestParseLinesMissingUncertainty(t *testing.T) {
	got, err := ParseLines("k", cutflowtest.New(7, cutflowtest.SummaryNoError).Lines())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r, ok := got.Summary.Ratio.Get(); !ok || r != 0.042 {
		t.Errorf("ratio = %v, want 0.042", got.Summary.Ratio)
	}
	if got.Summary.Uncertainty.IsPresent() {
		t.Errorf("uncertainty = %v, want absent", got.Summary.Uncertainty)
	}
}

func TestParseLinesMissingRatio(t *testing.T) {
	got, err := ParseLines("k", cutflowtest.New(7, cutflowtest.SummaryNoRatio).Lines())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Summary.Ratio.IsPresent() {
		t.Errorf("ratio = %v, want absent", got.Summary.Ratio)
	}
	if u, ok := got.Summary.Uncertainty.Get(); !ok || u != 0.003 {
		t.Errorf("uncertainty = %v, want 0.003", got.Summary.Uncertainty)
	}
}

func TestParseLinesNoSummaryRow(t *testing.T) {
	got, err := ParseLines("k", cutflowtest.New(8, "").Lines())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Summary != nil {
		t.Fatalf("summary = %+v, want nil", got.Summary)
	}
	if got.Table.Len() != 8 {
		t.Fatalf("rows = %d, want 8", got.Table.Len())
	}
}

func TestParseLinesFiveRowsIsStructural(t *testing.T) {
	_, err := ParseLines("short", cutflowtest.New(5, cutflowtest.SummaryWithError).Lines())
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("err = %v, want ErrStructure", err)
	}
	var se *StructuralError
	if !errors.As(err, &se) || se.Key != "short" {
		t.Fatalf("err = %#v, want *StructuralError for key short", err)
	}
}

func TestParseLinesSixRowsIsEnough(t *testing.T) {
	got, err := ParseLines("k", cutflowtest.New(6, cutflowtest.SummaryWithError).Lines())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.GenLevel.Efficiency != got.Table.TotEff()[5] {
		t.Fatalf("gen level %v, want last row", got.GenLevel)
	}
}

func TestBlankRowsAreNotCounted(t *testing.T) {
	rep := cutflowtest.New(10, cutflowtest.SummaryWithError)
	rep.SpacerAfter = 6
	got, err := ParseLines("k", rep.Lines())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Table.Len() != 10 {
		t.Fatalf("rows = %d, want 10", got.Table.Len())
	}
	for _, sel := range got.Table.Selections() {
		if strings.Contains(sel, "hline") || sel == "" {
			t.Fatalf("blank row leaked into selections: %q", got.Table.Selections())
		}
	}
}

func TestColumnsHaveEqualLength(t *testing.T) {
	got, err := ParseLines("k", cutflowtest.New(9, cutflowtest.SummaryWithError).Lines())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	lengths := []int{
		len(got.Table.CutNums()), len(got.Table.Selections()), len(got.Table.Events()),
		len(got.Table.TotEff()), len(got.Table.RelEff()), len(got.Table.TotEffErr()), len(got.Table.RelEffErr()),
	}
	for i, n := range lengths {
		if n != 9 {
			t.Errorf("column %d has %d values, want 9", i, n)
		}
	}
}

func TestParseLinesIsIdempotent(t *testing.T) {
	lines := cutflowtest.New(7, cutflowtest.SummaryNoError).Lines()
	a, err := ParseLines("k", lines)
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	b, err := ParseLines("k", lines)
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if diff := cmp.Diff(a, b, cmpOpts...); diff != "" {
		t.Fatalf("parses differ (-first +second):\n%s", diff)
	}
}

func TestParseLinesNonNumericEvents(t *testing.T) {
	lines := cutflowtest.New(7, cutflowtest.SummaryWithError).Lines()
	bad := -1
	for i, l := range lines {
		if strings.HasPrefix(l, "$ 3 $") {
			lines[i] = strings.Replace(l, "& 14580 &", "& n/a &", 1)
			bad = i + 1
		}
	}
	if bad < 0 || !strings.Contains(lines[bad-1], "n/a") {
		t.Fatalf("fixture row for cut 3 not rewritten: %q", lines)
	}

	_, err := ParseLines("bad", lines)
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %T, want *FormatError", err)
	}
	if fe.Key != "bad" || fe.Line != bad || fe.Column != "Events" || fe.Text != "n/a" {
		t.Fatalf("format error = %+v, want key bad, line %d, column Events, text n/a", fe, bad)
	}
}

func TestParseLinesNonFiniteEfficiency(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		rep := cutflowtest.New(7, cutflowtest.SummaryWithError)
		rep.Cuts[5].TotEff = v
		_, err := ParseLines("nan", rep.Lines())
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("TotEff %v: err = %v, want *FormatError", v, err)
		}
		if fe.Column != "TotEff" || !errors.Is(err, errNonFinite) {
			t.Fatalf("TotEff %v: format error = %+v", v, fe)
		}
	}
}

func TestParseLinesMissingMarker(t *testing.T) {
	lines := cutflowtest.New(7, cutflowtest.SummaryWithError).Lines()
	for i, l := range lines {
		if IsMarker(l) {
			lines[i] = "Here is the cutflow table:"
		}
	}
	_, err := ParseLines("k", lines)
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("err = %v, want ErrStructure", err)
	}
}

func TestParseLinesShortHeader(t *testing.T) {
	rep := cutflowtest.New(7, cutflowtest.SummaryWithError)
	rep.Header = `\# Selection & Events & Tot. Eff. \\ \hline`
	_, err := ParseLines("k", rep.Lines())
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("err = %v, want ErrStructure", err)
	}
}

func TestParseLinesIgnoresRowsAfterEnd(t *testing.T) {
	rep := cutflowtest.New(7, "")
	rep.Trailer = []string{
		`\end{tabular}`,
		`$ 99 $ Stray & 1 & 0.1 & 0.1 & 0.1 & 0.1 \\ \hline`,
		`Generated by cutflow.py`,
	}
	got, err := ParseLines("k", rep.Lines())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Table.Len() != 7 {
		t.Fatalf("rows = %d, want 7", got.Table.Len())
	}
}

func TestParseLinesCRLF(t *testing.T) {
	lines := cutflowtest.New(7, cutflowtest.SummaryWithError).Lines()
	for i := range lines {
		lines[i] += "\r"
	}
	got, err := ParseLines("k", lines)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Table.Len() != 7 || got.Summary == nil {
		t.Fatalf("rows = %d summary = %v", got.Table.Len(), got.Summary)
	}
}

func TestParserStates(t *testing.T) {
	lines := cutflowtest.New(7, cutflowtest.SummaryWithError).Lines()
	p := NewParser("k")
	var seen []State
	for i, l := range lines {
		if err := p.Step(i+1, l); err != nil {
			t.Fatalf("step %d: %v", i+1, err)
		}
		if len(seen) == 0 || seen[len(seen)-1] != p.State() {
			seen = append(seen, p.State())
		}
	}
	want := []State{StateSeekingTable, StateSkippingBoilerplate, StateExpectingHeader, StateReadingData, StateDone}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("state sequence (-want +got):\n%s", diff)
	}
}

func TestTableColumnByName(t *testing.T) {
	got, err := ParseLines("k", cutflowtest.New(7, "").Lines())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, ok := got.Table.Column("Events")
	if !ok {
		t.Fatal("Events column missing")
	}
	if diff := cmp.Diff(got.Table.Events(), v); diff != "" {
		t.Fatalf("Events (-want +got):\n%s", diff)
	}
	if _, ok := got.Table.Column("Nope"); ok {
		t.Fatal("unexpected column Nope")
	}
}
