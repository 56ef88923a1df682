package cutflow

// GenLevelEfficiency is the total efficiency (and its error) after the generator-level cuts.
type GenLevelEfficiency struct {
	Key        SourceKey `json:"key"`
	Efficiency float64   `json:"alpha"`
	Error      float64   `json:"err"`
}

// Aggregate collects one GenLevelEfficiency per source, in processing order. Append-only.
type Aggregate struct {
	rows  []GenLevelEfficiency
	index map[SourceKey]int
}

func NewAggregate() *Aggregate {
	return &Aggregate{index: make(map[SourceKey]int)}
}

// Add appends the generator-level row of one source.
func (a *Aggregate) Add(g GenLevelEfficiency) {
	a.index[g.Key] = len(a.rows)
	a.rows = append(a.rows, g)
}

func (a *Aggregate) Len() int { return len(a.rows) }

// Rows returns a copy of the collected rows.
func (a *Aggregate) Rows() []GenLevelEfficiency {
	out := make([]GenLevelEfficiency, len(a.rows))
	copy(out, a.rows)
	return out
}

// Lookup returns the row of one source.
func (a *Aggregate) Lookup(key SourceKey) (GenLevelEfficiency, bool) {
	i, ok := a.index[key]
	if !ok {
		return GenLevelEfficiency{}, false
	}
	return a.rows[i], true
}

func (a *Aggregate) Keys() []SourceKey {
	out := make([]SourceKey, len(a.rows))
	for i, r := range a.rows {
		out[i] = r.Key
	}
	return out
}

func (a *Aggregate) Efficiencies() []float64 {
	out := make([]float64, len(a.rows))
	for i, r := range a.rows {
		out[i] = r.Efficiency
	}
	return out
}

func (a *Aggregate) Errors() []float64 {
	out := make([]float64, len(a.rows))
	for i, r := range a.rows {
		out[i] = r.Error
	}
	return out
}
