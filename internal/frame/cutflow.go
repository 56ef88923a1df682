package frame

import (
	"github.com/joseph-ayodele/cutflow-extractor/constants"
	"github.com/joseph-ayodele/cutflow-extractor/internal/cutflow"
)

// FromTable materializes a parsed cutflow table, keeping the table's column names and order.
func FromTable(t *cutflow.Table) (*Frame, error) {
	names := t.Columns()
	events := t.Events()
	cuts := t.CutNums()
	cutNums := make([]int64, len(cuts))
	for i, c := range cuts {
		cutNums[i] = int64(c)
	}
	return New(
		IntSeries(names[cutflow.ColCutNum], cutNums),
		StringSeries(names[cutflow.ColSelection], t.Selections()),
		IntSeries(names[cutflow.ColEvents], events),
		FloatSeries(names[cutflow.ColTotEff], t.TotEff()),
		FloatSeries(names[cutflow.ColRelEff], t.RelEff()),
		FloatSeries(names[cutflow.ColTotEffErr], t.TotEffErr()),
		FloatSeries(names[cutflow.ColRelEffErr], t.RelEffErr()),
	)
}

// FromAggregate materializes the generator-level aggregate as key, alpha, err.
func FromAggregate(a *cutflow.Aggregate) (*Frame, error) {
	keys := a.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return New(
		StringSeries(constants.AggregateKeyColumn, names),
		FloatSeries(constants.AggregateAlphaColumn, a.Efficiencies()),
		FloatSeries(constants.AggregateErrColumn, a.Errors()),
	)
}
