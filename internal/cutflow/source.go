package cutflow

import (
	"path/filepath"
	"strings"
)

// SourceKey identifies a report source: the last path segment with its extension removed.
type SourceKey string

// KeyFromPath derives the SourceKey for a report location.
// "runs/DarkPhoton_mZd30.tex" -> "DarkPhoton_mZd30". A dot-file keeps its full name.
func KeyFromPath(path string) SourceKey {
	base := filepath.Base(filepath.Clean(path))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return SourceKey(stem)
}

func (k SourceKey) String() string { return string(k) }
