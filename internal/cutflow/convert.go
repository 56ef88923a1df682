package cutflow

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Minimum fragments of a data row: label cell plus five numeric cells.
const dataFragments = ColumnCount - 1

// Positions inside the first fragment of a data row, e.g. "$ 3 $ RecoMuonPt".
const (
	cutNumToken    = 1
	selectionToken = 3
)

// convertRow turns the fragments of a data row into a Row. Errors carry the column name but not
// the source key or line; the parser fills those in.
func convertRow(frags []string, names [ColumnCount]string) (Row, *FormatError) {
	if len(frags) < dataFragments {
		return Row{}, &FormatError{Column: "row", Text: strings.Join(frags, "&"),
			Err: errCellCount(len(frags))}
	}
	var (
		r   Row
		err *FormatError
	)

	tokens := strings.Fields(frags[0])
	if len(tokens) <= selectionToken {
		return Row{}, &FormatError{Column: names[ColSelection], Text: frags[0], Err: errLabelTokens(len(tokens))}
	}
	if r.CutNum, err = parseIntCell(names[ColCutNum], StripNonAlnum(tokens[cutNumToken])); err != nil {
		return Row{}, err
	}
	r.Selection = tokens[selectionToken]

	events, err := parseIntCell(names[ColEvents], CleanNumeric(frags[1]))
	if err != nil {
		return Row{}, err
	}
	r.Events = int64(events)

	floats := []*float64{&r.TotEff, &r.RelEff, &r.TotEffErr, &r.RelEffErr}
	for i, dst := range floats {
		col := ColTotEff + i
		if *dst, err = parseFloatCell(names[col], CleanNumeric(frags[col-1])); err != nil {
			return Row{}, err
		}
	}
	return r, nil
}

func parseIntCell(column, text string) (int, *FormatError) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, &FormatError{Column: column, Text: text, Err: unwrapNum(err)}
	}
	return v, nil
}

func parseFloatCell(column, text string) (float64, *FormatError) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &FormatError{Column: column, Text: text, Err: unwrapNum(err)}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FormatError{Column: column, Text: text, Err: errNonFinite}
	}
	return v, nil
}

var errNonFinite = errors.New("value is not finite")

// parseOptionalFloat maps empty text to Absent.
func parseOptionalFloat(column, text string) (Optional[float64], *FormatError) {
	if text == "" {
		return Absent[float64](), nil
	}
	v, err := parseFloatCell(column, text)
	if err != nil {
		return Absent[float64](), err
	}
	return Present(v), nil
}

// unwrapNum drops strconv's repetition of the input text.
func unwrapNum(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

func errCellCount(n int) error {
	return fmt.Errorf("row has %d cells, want at least %d", n, dataFragments)
}

func errLabelTokens(n int) error {
	return fmt.Errorf("label cell has %d tokens, want at least %d", n, selectionToken+1)
}
