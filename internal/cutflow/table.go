package cutflow

import "github.com/joseph-ayodele/cutflow-extractor/constants"

// ColumnCount is the fixed number of columns of a cutflow table.
const ColumnCount = 7

// Column positions. Names come from each report's header, positions do not change.
const (
	ColCutNum = iota
	ColSelection
	ColEvents
	ColTotEff
	ColRelEff
	ColTotEffErr
	ColRelEffErr
)

// Row is one cut of a cutflow table.
type Row struct {
	CutNum    int
	Selection string
	Events    int64
	TotEff    float64
	RelEff    float64
	TotEffErr float64
	RelEffErr float64
}

// Table is the cutflow table of one source. Rows are stored whole, so every column
// has the same length by construction.
type Table struct {
	Key   SourceKey
	names [ColumnCount]string
	rows  []Row
}

func newTable(key SourceKey, names [ColumnCount]string) *Table {
	return &Table{Key: key, names: names}
}

func (t *Table) append(r Row) { t.rows = append(t.rows, r) }

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	out := make([]string, ColumnCount)
	copy(out, t.names[:])
	return out
}

// Len is the number of cut rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns cut i.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Rows returns a copy of all cut rows.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Table) CutNums() []int {
	return project(t.rows, func(r Row) int { return r.CutNum })
}

func (t *Table) Selections() []string {
	return project(t.rows, func(r Row) string { return r.Selection })
}

func (t *Table) Events() []int64 {
	return project(t.rows, func(r Row) int64 { return r.Events })
}

func (t *Table) TotEff() []float64 {
	return project(t.rows, func(r Row) float64 { return r.TotEff })
}

func (t *Table) RelEff() []float64 {
	return project(t.rows, func(r Row) float64 { return r.RelEff })
}

func (t *Table) TotEffErr() []float64 {
	return project(t.rows, func(r Row) float64 { return r.TotEffErr })
}

func (t *Table) RelEffErr() []float64 {
	return project(t.rows, func(r Row) float64 { return r.RelEffErr })
}

// Column returns the values of a named column as a typed slice ([]int, []string, []int64 or []float64).
func (t *Table) Column(name string) (any, bool) {
	for i, n := range t.names {
		if n == name {
			return t.columnAt(i), true
		}
	}
	return nil, false
}

func (t *Table) columnAt(i int) any {
	switch i {
	case ColCutNum:
		return t.CutNums()
	case ColSelection:
		return t.Selections()
	case ColEvents:
		return t.Events()
	case ColTotEff:
		return t.TotEff()
	case ColRelEff:
		return t.RelEff()
	case ColTotEffErr:
		return t.TotEffErr()
	default:
		return t.RelEffErr()
	}
}

// GenLevel returns the cumulative efficiency after the last generator-level cut.
func (t *Table) GenLevel() (GenLevelEfficiency, error) {
	if len(t.rows) <= constants.GenCutIndex {
		return GenLevelEfficiency{}, structuralf(t.Key,
			"generator-level cut %d out of range: table has %d data rows", constants.GenCutIndex, len(t.rows))
	}
	r := t.rows[constants.GenCutIndex]
	return GenLevelEfficiency{Key: t.Key, Efficiency: r.TotEff, Error: r.TotEffErr}, nil
}

func project[T any](rows []Row, f func(Row) T) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = f(r)
	}
	return out
}
