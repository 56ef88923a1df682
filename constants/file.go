package constants

import "strings"

// ReportExtensions holds the file extensions accepted as cutflow report sources.
var ReportExtensions = map[string]struct{}{
	"tex": {},
	"txt": {},
}

// Delimited output formats and their field separators.
const (
	FormatCSV = "csv"
	FormatTSV = "tsv"
)

var formatDelimiters = map[string]rune{
	FormatCSV: ',',
	FormatTSV: '\t',
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsReportExt reports whether ext (with or without the dot) names a report source.
func IsReportExt(ext string) bool {
	_, ok := ReportExtensions[NormalizeExt(ext)]
	return ok
}

// Delimiter returns the field separator for a delimited output format.
func Delimiter(format string) (rune, bool) {
	d, ok := formatDelimiters[NormalizeExt(format)]
	return d, ok
}

// Output file names.
const (
	TableFilePrefix   = "dataframe_"
	AggregateFileStem = "alpha_gen"
)
