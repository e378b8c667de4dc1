// Package pipeline sequences normalization, rule evaluation, and
// aggregation over a stream of raw rows. Structural failures (source,
// schema) are fatal before any row is processed; per-row data problems
// only ever surface as violations in the report.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tserra/finqc/internal/ingest"
	"github.com/tserra/finqc/internal/model"
	"github.com/tserra/finqc/internal/normalize"
	"github.com/tserra/finqc/internal/report"
	"github.com/tserra/finqc/internal/rules"
)

// Options configures a pipeline run.
type Options struct {
	Synonyms normalize.SynonymTable      // nil = defaults
	Decimal  normalize.DecimalConvention // "" = auto
	Engine   *rules.Engine               // nil = baseline rule set
}

// Result pairs the annotated records with the derived quality report.
// Records[i] lines up with Violations[i] and Report.Details[i].
type Result struct {
	Records    []model.Record
	Violations [][]model.Violation
	Report     *model.Report
}

// Run consumes a lazily-produced row stream in a single pass. The
// column mapping is resolved once up front so a schema problem aborts
// before the first row; after that, nothing aborts.
func Run(ctx context.Context, header []string, rows <-chan ingest.Row, errCh <-chan error, opts Options) (*Result, error) {
	engine := opts.Engine
	if engine == nil {
		engine = rules.NewEngine()
	}

	normalizer, err := normalize.New(header, opts.Synonyms, opts.Decimal)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("pipeline: columns resolved", zap.Int("mapped", len(normalizer.Columns())))

	agg := report.NewAggregator(engine)
	res := &Result{}

	for row := range rows {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "pipeline: cancelled")
		}

		rec := normalizer.Normalize(row)
		violations := engine.Violations(rec)

		res.Records = append(res.Records, rec)
		res.Violations = append(res.Violations, violations)
		agg.Add(rec, violations)
	}

	// A late producer error is a source failure: the run yields nothing.
	if errCh != nil {
		if err := <-errCh; err != nil {
			return nil, err
		}
	}

	res.Report = agg.Report()
	zap.L().Info("pipeline: run complete",
		zap.Int("records", res.Report.Records),
		zap.Int("flagged", res.Report.Flagged),
		zap.Int("violations", res.Report.TotalViolations()),
	)
	return res, nil
}

// RunTable runs the pipeline over an eagerly-read table.
func RunTable(ctx context.Context, tbl *ingest.Table, opts Options) (*Result, error) {
	rowCh := make(chan ingest.Row, len(tbl.Rows))
	for _, row := range tbl.Rows {
		rowCh <- row
	}
	close(rowCh)
	return Run(ctx, tbl.Header, rowCh, nil, opts)
}
