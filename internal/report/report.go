// Package report aggregates rule violations into the quality report:
// per-record detail in input order plus a per-rule summary.
package report

import (
	"sort"

	"github.com/google/uuid"

	"github.com/tserra/finqc/internal/model"
	"github.com/tserra/finqc/internal/rules"
)

// Aggregator collects (record, violations) pairs in a single pass. It
// is the only component with cross-record state, and that state is a
// set of counters written by one goroutine.
type Aggregator struct {
	engine  *rules.Engine
	details []model.RecordDetail
	counts  map[string]int
	flagged int
}

// NewAggregator seeds the per-rule counters with every registered rule
// so the summary always covers the full rule set, zero counts included.
func NewAggregator(engine *rules.Engine) *Aggregator {
	counts := make(map[string]int, len(engine.Rules()))
	for _, r := range engine.Rules() {
		counts[r.Code] = 0
	}
	return &Aggregator{engine: engine, counts: counts}
}

// Add records one evaluated record. Call order must follow input row
// order; the detail view preserves it.
func (a *Aggregator) Add(rec model.Record, violations []model.Violation) {
	a.details = append(a.details, model.RecordDetail{Row: rec.Row, Violations: violations})
	if len(violations) > 0 {
		a.flagged++
	}
	for _, v := range violations {
		a.counts[v.Code]++
	}
}

// Report finalizes the aggregation. The summary is sorted by rule code
// so re-running over the same input yields byte-identical output.
func (a *Aggregator) Report() *model.Report {
	summary := make([]model.RuleCount, 0, len(a.counts))
	for code, count := range a.counts {
		summary = append(summary, model.RuleCount{Code: code, Count: count})
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].Code < summary[j].Code })

	return &model.Report{
		RunID:   uuid.New().String(),
		Records: len(a.details),
		Flagged: a.flagged,
		Details: a.details,
		Summary: summary,
	}
}
