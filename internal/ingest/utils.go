package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/cutflow-extractor/constants"
)

// AllowedExt checks if a file extension names a report source (.tex or .txt).
func AllowedExt(ext string) bool {
	return constants.IsReportExt(ext)
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// SplitLines splits text on '\n'. A trailing newline does not produce an empty last line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
