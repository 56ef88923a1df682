package cutflow

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStripNonAlnum(t *testing.T) {
	cases := map[string]string{
		`epsilon/rec*alpha_gen `:   "epsilonrecalphagen",
		`\end{tabular}`:            "endtabular",
		`Tot. Eff. Err.`:           "TotEffErr",
		"Ｅｖｅｎｔｓ １２":                "Events12",
		`\# `:                      "",
		`Rel. Eff. Err. \\ \hline`: "RelEffErrhline",
	}
	for in, want := range cases {
		if got := StripNonAlnum(in); got != want {
			t.Errorf("StripNonAlnum(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitDigitRuns(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"TotEff", []string{"TotEff"}},
		{"TotEff2", []string{"TotEff", "2"}},
		{"2TotEff", []string{"2", "TotEff"}},
		{"a1b22c", []string{"a", "1", "b", "22", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, SplitDigitRuns(c.in)); diff != "" {
			t.Errorf("SplitDigitRuns(%q) (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestLeadingWord(t *testing.T) {
	if got := LeadingWord("epsilonrecalphagen"); got != "epsilonrecalphagen" {
		t.Errorf("got %q", got)
	}
	if got := LeadingWord("alpha2gen"); got != "alpha" {
		t.Errorf("got %q", got)
	}
	if got := LeadingWord("7cut"); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestCleanNumeric(t *testing.T) {
	cases := map[string]string{
		` 0.0005 \\ \hline`: "0.0005",
		` 0.25 \hline`:      "0.25",
		` 1000 `:            "1000",
		`0.1\\`:             "0.1",
		` \hline`:           "",
	}
	for in, want := range cases {
		if got := CleanNumeric(in); got != want {
			t.Errorf("CleanNumeric(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHeaderTokens(t *testing.T) {
	if diff := cmp.Diff([]string{"RelEffErr"}, HeaderTokens(`Rel. Eff. Err. \\ \hline`)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := HeaderTokens(`\# `); len(got) != 0 {
		t.Errorf("HeaderTokens(#) = %q, want none", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		line string
		want RowKind
	}{
		{`\hline`, RowBlank},
		{``, RowBlank},
		{`\begin{tabular}{|c|l|r|r|r|r|r|}`, RowBlank},
		{`\end{tabular}`, RowEnd},
		{`  \end{tabular}  `, RowEnd},
		{`epsilon/rec*alpha_gen & 0.042 $ \pm $ 0.003 $\hline`, RowSummary},
		{`epsilon/rec*alpha_gen`, RowBlank},
		{`\# Selection & Events & Tot. Eff. \\ \hline`, RowCells},
		{`$ 0 $ NoCut & 20000 & 1 & 1 & 0.001 & 0.0005 \\ \hline`, RowCells},
	}
	for _, c := range cases {
		if got := Classify(c.line); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}

func TestIsMarker(t *testing.T) {
	if !IsMarker("Here is the cut-flow-table:\n") || !IsMarker("Here is the cut-flow-table:\r\n") {
		t.Fatal("marker with line ending not recognised")
	}
	if IsMarker(" Here is the cut-flow-table:") {
		t.Fatal("marker must match exactly")
	}
}

func TestKeyFromPath(t *testing.T) {
	cases := map[string]SourceKey{
		"reports/DarkPhoton_mZd30.tex": "DarkPhoton_mZd30",
		"/abs/path/run.v2.txt":         "run.v2",
		"plain":                        "plain",
		"dir/.hidden":                  ".hidden",
	}
	for in, want := range cases {
		if got := KeyFromPath(in); got != want {
			t.Errorf("KeyFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOptionalJSON(t *testing.T) {
	s := Summary{Ratio: Present(0.042), Uncertainty: Absent[float64]()}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"ratio":0.042,"uncertainty":null}` {
		t.Fatalf("json = %s", b)
	}
	var back Summary
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(s, back, cmpOpts...); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestParseSummary(t *testing.T) {
	cases := []struct {
		frag     string
		ratio    Optional[float64]
		uncert   Optional[float64]
		wantFail bool
	}{
		{` 0.042 $ \pm $ 0.003 $\hline`, Present(0.042), Present(0.003), false},
		{` 0.042 $ $ \hline`, Present(0.042), Absent[float64](), false},
		{`  $ $ \hline`, Absent[float64](), Absent[float64](), false},
		{` 0.5`, Present(0.5), Absent[float64](), false},
		{` n/a $ \pm $ 0.003 $\hline`, Absent[float64](), Absent[float64](), true},
		{` 0.042 $ \pm $ NaN $\hline`, Absent[float64](), Absent[float64](), true},
	}
	for _, c := range cases {
		got, err := parseSummary(c.frag)
		if c.wantFail {
			if err == nil {
				t.Errorf("parseSummary(%q) succeeded, want error", c.frag)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSummary(%q): %v", c.frag, err)
			continue
		}
		want := Summary{Ratio: c.ratio, Uncertainty: c.uncert}
		if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
			t.Errorf("parseSummary(%q) (-want +got):\n%s", c.frag, diff)
		}
	}
}

func TestAggregateOrderAndLookup(t *testing.T) {
	a := NewAggregate()
	a.Add(GenLevelEfficiency{Key: "b", Efficiency: 0.5, Error: 0.01})
	a.Add(GenLevelEfficiency{Key: "a", Efficiency: 0.25, Error: 0.02})

	if diff := cmp.Diff([]SourceKey{"b", "a"}, a.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.5, 0.25}, a.Efficiencies()); diff != "" {
		t.Errorf("efficiencies (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.01, 0.02}, a.Errors()); diff != "" {
		t.Errorf("errors (-want +got):\n%s", diff)
	}
	if g, ok := a.Lookup("a"); !ok || g.Efficiency != 0.25 {
		t.Errorf("Lookup(a) = %+v, %v", g, ok)
	}
}
