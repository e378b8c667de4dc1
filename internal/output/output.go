package output

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tserra/finqc/internal/pipeline"
	"github.com/tserra/finqc/internal/rules"
)

// Artifact file names inside the output directory.
const (
	CleanCSVName      = "clean.csv"
	CleanParquetName  = "clean.parquet"
	ReportDetailName  = "quality_report.csv"
	ReportSummaryName = "quality_summary.csv"
)

// Options configures artifact writing.
type Options struct {
	Dir       string
	SQLiteDSN string        // empty = skip summary persistence
	Engine    *rules.Engine // rule descriptions for the summary artifact
}

// WriteAll writes every artifact for a successful run: the clean
// dataset in both serializations plus the two report views, and
// optionally the SQLite summary. The artifacts are independent, so
// they are written concurrently. WriteAll is only called after the
// pipeline succeeded; a fatal pipeline error never produces files.
func WriteAll(ctx context.Context, res *pipeline.Result, opts Options) error {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return eris.Wrap(err, "output: create output dir")
	}

	engine := opts.Engine
	if engine == nil {
		engine = rules.NewEngine()
	}
	rows := ProjectRows(res.Records, res.Violations)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return WriteCleanCSV(filepath.Join(opts.Dir, CleanCSVName), rows)
	})
	g.Go(func() error {
		return WriteCleanParquet(filepath.Join(opts.Dir, CleanParquetName), rows)
	})
	g.Go(func() error {
		return WriteReportDetailCSV(filepath.Join(opts.Dir, ReportDetailName), res.Report)
	})
	g.Go(func() error {
		return WriteReportSummaryCSV(filepath.Join(opts.Dir, ReportSummaryName), res.Report, engine)
	})
	if opts.SQLiteDSN != "" {
		g.Go(func() error {
			store, err := OpenSummaryStore(opts.SQLiteDSN)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck
			return store.SaveRun(ctx, res.Report)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	zap.L().Info("output: artifacts written",
		zap.String("dir", opts.Dir),
		zap.Int("rows", len(rows)),
	)
	return nil
}
