package constants

// Layout of the cutflow report template. These values are tied to the one report generator
// that produces the files; no other template is known.
const (
	// TableMarker is the exact line that precedes every cutflow table.
	TableMarker = "Here is the cut-flow-table:"

	// TableOffset is the distance from the marker line to the first line that is classified.
	// The lines in between are table decoration and are skipped without looking at them.
	TableOffset = 6

	// GenCutIndex is the row of the last generator-level cut (num_gen_cuts).
	GenCutIndex = 5

	// SummaryToken is the cleaned label of the epsilon/rec*alpha_gen summary row.
	SummaryToken = "epsilonrecalphagen"

	// EndToken is the cleaned form of \end{tabular}.
	EndToken = "endtabular"

	// RuleToken is the LaTeX \hline command left at the end of header and data rows.
	RuleToken = "hline"

	// CutNumColumn is synthesized because the header only carries '#' for the cut index.
	CutNumColumn = "CutNum"

	// ColumnSeparator splits a tabular row into fragments.
	ColumnSeparator = "&"

	// MathDelimiter splits the summary row's value fragment.
	MathDelimiter = "$"
)

// Columns of the generator-level aggregate table.
const (
	AggregateKeyColumn   = "key"
	AggregateAlphaColumn = "alpha"
	AggregateErrColumn   = "err"
)
