// Package cutflowtest renders synthetic cutflow reports for tests.
package cutflowtest

import (
	"fmt"
	"strconv"
	"strings"
)

// Summary rows used across tests.
const (
	SummaryWithError = `epsilon/rec*alpha_gen & 0.042 $ \pm $ 0.003 $\hline`
	SummaryNoError   = `epsilon/rec*alpha_gen & 0.042 $ $ \hline`
	SummaryNoRatio   = `epsilon/rec*alpha_gen &  $ \pm $ 0.003 $\hline`
)

// Header is the header row written by the report generator.
const Header = `\# Selection & Events & Tot. Eff. & Rel. Eff. & Tot. Eff. Err. & Rel. Eff. Err. \\ \hline`

// Columns are the names the parser derives from Header.
var Columns = []string{"CutNum", "Selection", "Events", "TotEff", "RelEff", "TotEffErr", "RelEffErr"}

// Cut is one rendered data row.
type Cut struct {
	Num       int
	Label     string
	Events    int64
	TotEff    float64
	RelEff    float64
	TotEffErr float64
	RelEffErr float64
}

// Line renders the cut the way the generator does.
func (c Cut) Line() string {
	return fmt.Sprintf(`$ %d $ %s & %d & %s & %s & %s & %s \\ \hline`,
		c.Num, c.Label, c.Events, ff(c.TotEff), ff(c.RelEff), ff(c.TotEffErr), ff(c.RelEffErr))
}

var labels = []string{
	"NoCut", "GenMuonPt", "GenMuonEta", "GenDimuonMass", "GenLxy", "GenDecayInTracker",
	"RecoTrigger", "RecoMuonID", "RecoVertex", "RecoIsolation", "RecoMassWindow",
}

// Cuts returns n cuts with non-increasing event counts and efficiencies in [0, 1].
func Cuts(n int) []Cut {
	const total = 20000
	out := make([]Cut, n)
	events := int64(total)
	prev := events
	for i := 0; i < n; i++ {
		if i > 0 {
			events = events * 9 / 10
		}
		label := fmt.Sprintf("Cut%d", i)
		if i < len(labels) {
			label = labels[i]
		}
		out[i] = Cut{
			Num:       i,
			Label:     label,
			Events:    events,
			TotEff:    float64(events) / total,
			RelEff:    float64(events) / float64(prev),
			TotEffErr: 0.001 * float64(i+1),
			RelEffErr: 0.0005 * float64(i+1),
		}
		prev = events
	}
	return out
}

// Report is a whole source file. The zero value is not useful; start from New.
type Report struct {
	Preamble    []string
	Boilerplate []string
	Header      string
	Cuts        []Cut
	// SpacerAfter inserts a separator-free \hline row after that many cuts (0 = none).
	SpacerAfter int
	// Summary is the full summary line; empty omits it.
	Summary string
	Trailer []string
}

// New returns a report with n cuts and the given summary row.
func New(n int, summary string) Report {
	return Report{
		Preamble: []string{
			`\documentclass{article}`,
			`\begin{document}`,
			`Sample: DarkPhoton mZd = 30 GeV`,
			``,
		},
		Boilerplate: []string{
			`\begin{table}[h!]`,
			`\centering`,
			`\small`,
			`\begin{tabular}{|c|l|r|r|r|r|r|}`,
			`\hline`,
			`\hline`,
		},
		Header:  Header,
		Cuts:    Cuts(n),
		Summary: summary,
		Trailer: []string{
			`\end{tabular}`,
			`\end{table}`,
			`\end{document}`,
		},
	}
}

// Lines renders the report line by line.
func (r Report) Lines() []string {
	var out []string
	out = append(out, r.Preamble...)
	out = append(out, "Here is the cut-flow-table:")
	out = append(out, r.Boilerplate...)
	out = append(out, r.Header)
	for i, c := range r.Cuts {
		out = append(out, c.Line())
		if r.SpacerAfter > 0 && i+1 == r.SpacerAfter {
			out = append(out, `\hline`)
		}
	}
	if r.Summary != "" {
		out = append(out, `\hline`, r.Summary)
	}
	out = append(out, r.Trailer...)
	return out
}

// String renders the report as file content.
func (r Report) String() string {
	return strings.Join(r.Lines(), "\n") + "\n"
}

func ff(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
