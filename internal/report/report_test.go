package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tserra/finqc/internal/model"
	"github.com/tserra/finqc/internal/rules"
)

func TestAggregator_SummaryCoversAllRules(t *testing.T) {
	engine := rules.NewEngine()
	agg := NewAggregator(engine)

	rep := agg.Report()
	require.Len(t, rep.Summary, len(engine.Rules()))
	for _, rc := range rep.Summary {
		assert.Zero(t, rc.Count)
		assert.NotEmpty(t, engine.Describe(rc.Code))
	}
}

func TestAggregator_CountsAndOrder(t *testing.T) {
	engine := rules.NewEngine()
	agg := NewAggregator(engine)

	recs := []model.Record{
		{Row: 2, Tipo: model.TipoReceita, Receita: model.PresentAmount(100), Despesa: model.AbsentAmount()},
		{Row: 3, Tipo: model.TipoReceita, Receita: model.PresentAmount(100), Despesa: model.PresentAmount(50)},
		{Row: 4, Tipo: model.TipoDespesa, Receita: model.AbsentAmount(), Despesa: model.AbsentAmount()},
	}
	for _, rec := range recs {
		agg.Add(rec, engine.Violations(rec))
	}

	rep := agg.Report()
	assert.Equal(t, 3, rep.Records)
	assert.Equal(t, 2, rep.Flagged)

	// Detail preserves input row order, clean rows included.
	require.Len(t, rep.Details, 3)
	assert.Equal(t, 2, rep.Details[0].Row)
	assert.Empty(t, rep.Details[0].Violations)
	assert.Equal(t, 3, rep.Details[1].Row)
	assert.Equal(t, 4, rep.Details[2].Row)

	counts := make(map[string]int)
	for _, rc := range rep.Summary {
		counts[rc.Code] = rc.Count
	}
	assert.Equal(t, 1, counts[rules.CodeMutualExclusion])
	assert.Equal(t, 1, counts[rules.CodeCompleteness])
	assert.Equal(t, 1, counts[rules.CodeTypeReceita])
	assert.Equal(t, 1, counts[rules.CodeTypeDespesa])
	assert.Equal(t, 0, counts[rules.CodeUnknownTipo])

	// Summary is sorted by code for deterministic output.
	for i := 1; i < len(rep.Summary); i++ {
		assert.Less(t, rep.Summary[i-1].Code, rep.Summary[i].Code)
	}
}

func TestAggregator_Deterministic(t *testing.T) {
	engine := rules.NewEngine()

	build := func() *model.Report {
		agg := NewAggregator(engine)
		for _, rec := range []model.Record{
			{Row: 2, Tipo: model.TipoUnknown, Receita: model.PresentAmount(10), Despesa: model.AbsentAmount()},
			{Row: 3, Tipo: model.TipoDespesa, Receita: model.AbsentAmount(), Despesa: model.PresentAmount(5)},
		} {
			agg.Add(rec, engine.Violations(rec))
		}
		return agg.Report()
	}

	a, b := build(), build()
	assert.Equal(t, a.Details, b.Details)
	assert.Equal(t, a.Summary, b.Summary)
	assert.Equal(t, a.Flagged, b.Flagged)
}
