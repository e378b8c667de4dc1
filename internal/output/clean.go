// Package output serializes the annotated dataset and the quality
// report. The CSV and Parquet clean outputs are built from the same
// row projection so their logical content is identical by construction.
package output

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/tserra/finqc/internal/model"
)

// CleanRow is the flat projection of an annotated record shared by both
// clean-dataset serializations. Tri-state fields render as empty
// (absent), "#INVALID:<raw>" (uncoercible), or the formatted value.
type CleanRow struct {
	Row        int    `csv:"row" parquet:"row"`
	Data       string `csv:"data" parquet:"data"`
	Tipo       string `csv:"tipo" parquet:"tipo"`
	Categoria  string `csv:"categoria" parquet:"categoria"`
	Descricao  string `csv:"descricao" parquet:"descricao"`
	Receita    string `csv:"receita" parquet:"receita"`
	Despesa    string `csv:"despesa" parquet:"despesa"`
	Violations string `csv:"violations" parquet:"violations"`
}

// ProjectRows flattens records and their violations into clean rows.
// Failing records are annotated, never dropped.
func ProjectRows(records []model.Record, violations [][]model.Violation) []CleanRow {
	rows := make([]CleanRow, len(records))
	for i, rec := range records {
		tipo := rec.TipoRaw
		if rec.Tipo != model.TipoUnknown {
			tipo = string(rec.Tipo)
		}

		codes := make([]string, len(violations[i]))
		for j, v := range violations[i] {
			codes[j] = v.Code
		}

		rows[i] = CleanRow{
			Row:        rec.Row,
			Data:       rec.Data.String(),
			Tipo:       tipo,
			Categoria:  rec.Categoria,
			Descricao:  rec.Descricao,
			Receita:    rec.Receita.String(),
			Despesa:    rec.Despesa.String(),
			Violations: strings.Join(codes, ";"),
		}
	}
	return rows
}

// WriteCleanCSV writes the clean dataset as UTF-8 CSV.
func WriteCleanCSV(path string, rows []CleanRow) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "output: create clean csv")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	if err := enc.EncodeHeader(CleanRow{}); err != nil {
		return eris.Wrap(err, "output: encode header")
	}
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return eris.Wrap(err, "output: encode clean row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "output: flush clean csv")
	}
	return f.Close()
}
