package normalize

import (
	"strings"

	"github.com/tserra/finqc/internal/ingest"
	"github.com/tserra/finqc/internal/model"
)

// Normalizer turns raw rows into canonical records using a column map
// resolved once at construction. It holds no per-row state; rows are
// independent of their siblings.
type Normalizer struct {
	columns ColumnMap
	decimal DecimalConvention
}

// New resolves the header against the synonym table and returns a
// Normalizer, or a SchemaError when the mapping cannot be established.
func New(header []string, table SynonymTable, decimal DecimalConvention) (*Normalizer, error) {
	if table == nil {
		table = DefaultSynonyms()
	}
	if decimal == "" {
		decimal = DecimalAuto
	}

	cm, err := ResolveColumns(header, table)
	if err != nil {
		return nil, err
	}
	return &Normalizer{columns: cm, decimal: decimal}, nil
}

// Columns exposes the resolved mapping, mainly for logging.
func (n *Normalizer) Columns() ColumnMap { return n.columns }

// Normalize produces exactly one canonical record from a raw row. Cell
// level problems surface as sentinel states on the record, never as an
// error: one bad cell must not lose the run.
func (n *Normalizer) Normalize(row ingest.Row) model.Record {
	tipoRaw := strings.TrimSpace(n.columns.cell(row.Cells, FieldTipo))

	return model.Record{
		Row:       row.Line,
		Tipo:      model.ParseTipo(slug(tipoRaw)),
		TipoRaw:   tipoRaw,
		Receita:   coerceAmount(n.columns.cell(row.Cells, FieldReceita), n.decimal),
		Despesa:   coerceAmount(n.columns.cell(row.Cells, FieldDespesa), n.decimal),
		Data:      coerceDate(n.columns.cell(row.Cells, FieldData)),
		Descricao: strings.TrimSpace(n.columns.cell(row.Cells, FieldDescricao)),
		Categoria: strings.TrimSpace(n.columns.cell(row.Cells, FieldCategoria)),
	}
}
