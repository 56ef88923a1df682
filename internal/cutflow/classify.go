package cutflow

import (
	"strings"

	"github.com/joseph-ayodele/cutflow-extractor/constants"
)

// RowKind is the classification of one line inside the table region.
type RowKind int

const (
	// RowBlank has no column separator: spacer rules, \begin{tabular}, trailing boilerplate.
	RowBlank RowKind = iota
	// RowEnd is \end{tabular} alone on its line.
	RowEnd
	// RowSummary is the epsilon/rec*alpha_gen row.
	RowSummary
	// RowCells is a header or data row; which one depends on the parser state.
	RowCells
)

func (k RowKind) String() string {
	switch k {
	case RowBlank:
		return "blank"
	case RowEnd:
		return "end"
	case RowSummary:
		return "summary"
	case RowCells:
		return "cells"
	default:
		return "unknown"
	}
}

// IsMarker reports whether line is the table-start marker. Line endings are ignored.
func IsMarker(line string) bool {
	return strings.TrimRight(line, "\r\n") == constants.TableMarker
}

// Fragments splits a row on the column separator.
func Fragments(line string) []string {
	return strings.Split(line, constants.ColumnSeparator)
}

// Classify decides the kind of a table line. It is pure: no parser state is consulted.
func Classify(line string) RowKind {
	frags := Fragments(line)
	if len(frags) == 1 {
		if StripNonAlnum(frags[0]) == constants.EndToken {
			return RowEnd
		}
		return RowBlank
	}
	if Label(frags[0]) == constants.SummaryToken {
		return RowSummary
	}
	return RowCells
}
