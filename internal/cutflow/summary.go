package cutflow

import (
	"strings"

	"github.com/joseph-ayodele/cutflow-extractor/constants"
)

// Summary is the epsilon/rec*alpha_gen pair of a report. Either field may be absent.
type Summary struct {
	Ratio       Optional[float64] `json:"ratio"`
	Uncertainty Optional[float64] `json:"uncertainty"`
}

// Segments of the summary value fragment " 0.042 $ \pm $ 0.003 $\hline".
const (
	ratioSegment       = 0
	uncertaintySegment = 2
)

// parseSummary reads the ratio and its uncertainty from the second fragment of the summary row.
// A missing segment is treated like an empty one.
func parseSummary(fragment string) (Summary, *FormatError) {
	segments := strings.Split(fragment, constants.MathDelimiter)

	ratio, err := parseOptionalFloat("ratio", strings.TrimSpace(segments[ratioSegment]))
	if err != nil {
		return Summary{}, err
	}

	var uncText string
	if len(segments) > uncertaintySegment {
		uncText = TrimFormatting(CutAtToken(segments[uncertaintySegment], constants.RuleToken))
	}
	unc, err := parseOptionalFloat("uncertainty", uncText)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Ratio: ratio, Uncertainty: unc}, nil
}
