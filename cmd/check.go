package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tserra/finqc/internal/ingest"
	"github.com/tserra/finqc/internal/normalize"
	"github.com/tserra/finqc/internal/output"
	"github.com/tserra/finqc/internal/pipeline"
	"github.com/tserra/finqc/internal/rules"
)

var (
	checkInput     string
	checkSheet     string
	checkHeaderRow int
	checkDecimal   string
	checkSynonyms  string
	checkOut       string
	checkSQLite    string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the quality pipeline over a spreadsheet",
	Long: `Reads a transaction sheet (.xlsx or delimited text), normalizes it
into the canonical schema, evaluates the quality rule set, and writes
the annotated dataset (CSV + Parquet) plus the violation report.

A schema problem (a required column that cannot be mapped) aborts the
run before any row is processed and produces no output files. Bad
cells never abort: they surface as violations in the report.

Examples:
  # Stock template: sheet "Lançamentos", header on sheet row 2
  finqc check --input data/ledger.xlsx

  # Explicit sheet and header position, artifacts into ./out
  finqc check --input ledger.xlsx --sheet Movimentos --header-row 1 --out out

  # Semicolon CSV with pt-BR decimals, summary persisted to SQLite
  finqc check --input ledger.csv --decimal comma --sqlite runs.db`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		inputPath := checkInput
		if inputPath == "" {
			inputPath = cfg.Input.Path
		}
		if inputPath == "" {
			return eris.New("check: no input file (set --input or input.path)")
		}

		synonyms, err := loadSynonyms()
		if err != nil {
			return err
		}

		sheet := checkSheet
		if sheet == "" {
			sheet = cfg.Input.Sheet
		}
		headerRow := checkHeaderRow
		if headerRow == 0 {
			headerRow = cfg.Input.HeaderRow
		}
		decimal := checkDecimal
		if decimal == "" {
			decimal = cfg.Input.Decimal
		}
		outDir := checkOut
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		sqliteDSN := checkSQLite
		if sqliteDSN == "" {
			sqliteDSN = cfg.Output.SQLiteDSN
		}

		zap.L().Info("check: reading input",
			zap.String("path", inputPath),
			zap.String("sheet", sheet),
			zap.Int("header_row", headerRow),
		)

		header, rowCh, errCh, err := ingest.Stream(ctx, inputPath, ingest.Options{
			Sheet:     sheet,
			HeaderRow: headerRow,
		})
		if err != nil {
			return eris.Wrap(err, "check: open input")
		}

		engine := rules.NewEngine()
		res, err := pipeline.Run(ctx, header, rowCh, errCh, pipeline.Options{
			Synonyms: synonyms,
			Decimal:  normalize.DecimalConvention(decimal),
			Engine:   engine,
		})
		if err != nil {
			return eris.Wrap(err, "check: run pipeline")
		}

		if err := output.WriteAll(ctx, res, output.Options{
			Dir:       outDir,
			SQLiteDSN: sqliteDSN,
			Engine:    engine,
		}); err != nil {
			return eris.Wrap(err, "check: write artifacts")
		}

		zap.L().Info("check: done",
			zap.String("out", outDir),
			zap.Int("records", res.Report.Records),
			zap.Int("flagged", res.Report.Flagged),
			zap.Int("violations", res.Report.TotalViolations()),
		)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkInput, "input", "", "path to input spreadsheet (.xlsx, .csv, .tsv)")
	checkCmd.Flags().StringVar(&checkSheet, "sheet", "", "sheet name (default from config)")
	checkCmd.Flags().IntVar(&checkHeaderRow, "header-row", 0, "1-based header row index (default from config)")
	checkCmd.Flags().StringVar(&checkDecimal, "decimal", "", "decimal convention: auto, comma, or dot")
	checkCmd.Flags().StringVar(&checkSynonyms, "synonyms", "", "YAML file extending the column synonym table")
	checkCmd.Flags().StringVar(&checkOut, "out", "", "output directory (default from config)")
	checkCmd.Flags().StringVar(&checkSQLite, "sqlite", "", "SQLite DSN for run summaries (default from config)")
	rootCmd.AddCommand(checkCmd)
}

// loadSynonyms resolves the synonym table from the --synonyms flag or
// config, falling back to the defaults.
func loadSynonyms() (normalize.SynonymTable, error) {
	path := checkSynonyms
	if path == "" {
		path = cfg.Input.SynonymsFile
	}
	if path == "" {
		return nil, nil
	}
	table, err := normalize.LoadSynonyms(path)
	if err != nil {
		return nil, eris.Wrap(err, "check: load synonyms")
	}
	return table, nil
}
