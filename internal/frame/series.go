package frame

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the element type of a Series.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	default:
		return "string"
	}
}

// Series is a named, typed column. Only the slice matching Kind is populated.
type Series struct {
	name    string
	kind    Kind
	ints    []int64
	floats  []float64
	strings []string
}

func IntSeries(name string, values []int64) Series {
	return Series{name: name, kind: KindInt, ints: values}
}

func FloatSeries(name string, values []float64) Series {
	return Series{name: name, kind: KindFloat, floats: values}
}

func StringSeries(name string, values []string) Series {
	return Series{name: name, kind: KindString, strings: values}
}

func (s Series) Name() string { return s.name }
func (s Series) Kind() Kind   { return s.kind }

func (s Series) Len() int {
	switch s.kind {
	case KindInt:
		return len(s.ints)
	case KindFloat:
		return len(s.floats)
	default:
		return len(s.strings)
	}
}

func (s Series) Ints() []int64     { return s.ints }
func (s Series) Floats() []float64 { return s.floats }
func (s Series) Strings() []string { return s.strings }

// Value returns element i as int64, float64 or string.
func (s Series) Value(i int) any {
	switch s.kind {
	case KindInt:
		return s.ints[i]
	case KindFloat:
		return s.floats[i]
	default:
		return s.strings[i]
	}
}

// Cell renders element i for delimited output.
func (s Series) Cell(i int) string {
	switch s.kind {
	case KindInt:
		return strconv.FormatInt(s.ints[i], 10)
	case KindFloat:
		return FormatFloat(s.floats[i])
	default:
		return s.strings[i]
	}
}

// FormatFloat writes the shortest representation that reads back to v. Floats always carry
// a decimal point or an exponent so they are not mistaken for integers; NaN is empty.
// Exponent notation is used below 1e-4 and from 1e16 up.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if v != 0 {
		exp := math.Floor(math.Log10(math.Abs(v)))
		if exp < -4 || exp >= 16 {
			return strconv.FormatFloat(v, 'e', -1, 64)
		}
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// infer picks the narrowest kind every cell parses as: int, then float, else string.
// Empty cells are only allowed in float columns, where they become NaN.
func infer(name string, cells []string) Series {
	ints := make([]int64, len(cells))
	isInt := len(cells) > 0
	for i, c := range cells {
		n, err := strconv.ParseInt(strings.TrimSpace(c), 10, 64)
		if err != nil {
			isInt = false
			break
		}
		ints[i] = n
	}
	if isInt {
		return IntSeries(name, ints)
	}

	floats := make([]float64, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			floats[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return StringSeries(name, append([]string(nil), cells...))
		}
		floats[i] = f
	}
	return FloatSeries(name, floats)
}
