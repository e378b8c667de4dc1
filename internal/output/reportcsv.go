package output

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/tserra/finqc/internal/model"
	"github.com/tserra/finqc/internal/rules"
)

// WriteReportDetailCSV writes the per-record detail view: one line per
// input row, in input order, clean rows included with an empty code
// list. Run metadata stays out of the artifact so re-running the same
// input yields byte-identical files.
func WriteReportDetailCSV(path string, rep *model.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "output: create report detail")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write([]string{"row", "violation_count", "codes"}); err != nil {
		return eris.Wrap(err, "output: write detail header")
	}
	for _, d := range rep.Details {
		codes := make([]string, len(d.Violations))
		for i, v := range d.Violations {
			codes[i] = v.Code
		}
		record := []string{
			strconv.Itoa(d.Row),
			strconv.Itoa(len(d.Violations)),
			strings.Join(codes, ";"),
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "output: write detail row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "output: flush report detail")
	}
	return f.Close()
}

// WriteReportSummaryCSV writes the per-rule summary: every registered
// rule code with its violation count, zero counts included, sorted by
// code.
func WriteReportSummaryCSV(path string, rep *model.Report, engine *rules.Engine) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "output: create report summary")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write([]string{"code", "description", "count"}); err != nil {
		return eris.Wrap(err, "output: write summary header")
	}
	for _, rc := range rep.Summary {
		record := []string{rc.Code, engine.Describe(rc.Code), strconv.Itoa(rc.Count)}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "output: write summary row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "output: flush report summary")
	}
	return f.Close()
}
