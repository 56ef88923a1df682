package cutflow

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat marks a fragment that cannot be converted to its column type.
	ErrFormat = errors.New("malformed cutflow value")
	// ErrStructure marks a report whose table does not have the expected shape.
	ErrStructure = errors.New("unexpected cutflow table structure")
)

// FormatError reports a cell that should be numeric but is not, or a row missing cells.
// Line is 1-based; zero when unknown.
type FormatError struct {
	Key    SourceKey
	Line   int
	Column string
	Text   string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s: line %d: column %q: cannot convert %q", e.Key, e.Line, e.Column, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFormat}
	}
	return []error{ErrFormat, e.Err}
}

// StructuralError reports a table that cannot be located or is too short.
type StructuralError struct {
	Key    SourceKey
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

func (e *StructuralError) Unwrap() error { return ErrStructure }

func structuralf(key SourceKey, format string, args ...any) error {
	return &StructuralError{Key: key, Reason: fmt.Sprintf(format, args...)}
}
