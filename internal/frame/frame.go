// Package frame is a small column-oriented table: named, typed series of equal length.
package frame

import (
	"errors"
	"fmt"
)

// ErrShape marks series that cannot form a frame.
var ErrShape = errors.New("frame shape mismatch")

// Frame is an ordered set of equal-length series with unique names.
type Frame struct {
	series []Series
	index  map[string]int
	rows   int
}

// New builds a frame, rejecting duplicate names and ragged lengths.
func New(series ...Series) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(series))}
	for i, s := range series {
		if _, dup := f.index[s.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrShape, s.Name())
		}
		if i == 0 {
			f.rows = s.Len()
		} else if s.Len() != f.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrShape, s.Name(), s.Len(), f.rows)
		}
		f.index[s.Name()] = i
		f.series = append(f.series, s)
	}
	return f, nil
}

// Len is the number of rows.
func (f *Frame) Len() int { return f.rows }

// Width is the number of columns.
func (f *Frame) Width() int { return len(f.series) }

func (f *Frame) Columns() []string {
	names := make([]string, len(f.series))
	for i, s := range f.series {
		names[i] = s.Name()
	}
	return names
}

// Col returns the i-th series.
func (f *Frame) Col(i int) Series { return f.series[i] }

// Series looks a column up by name.
func (f *Frame) Series(name string) (Series, bool) {
	i, ok := f.index[name]
	if !ok {
		return Series{}, false
	}
	return f.series[i], true
}

// Row returns the typed values of row i in column order.
func (f *Frame) Row(i int) []any {
	out := make([]any, len(f.series))
	for j, s := range f.series {
		out[j] = s.Value(i)
	}
	return out
}
