// Package normalize maps raw sheet rows into canonical records: it
// resolves heterogeneous column headers against a synonym table once
// per run, then coerces cell text into typed tri-state fields.
package normalize

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Canonical field names. Tipo, receita, and despesa must resolve to a
// column or the run fails before any row is processed; the descriptive
// fields are carried through when present.
const (
	FieldData      = "data"
	FieldTipo      = "tipo"
	FieldCategoria = "categoria"
	FieldDescricao = "descricao"
	FieldReceita   = "receita"
	FieldDespesa   = "despesa"
)

// RequiredFields are the canonical columns a sheet must provide.
var RequiredFields = []string{FieldTipo, FieldReceita, FieldDespesa}

// Fields lists every canonical field in output column order.
var Fields = []string{FieldData, FieldTipo, FieldCategoria, FieldDescricao, FieldReceita, FieldDespesa}

// SynonymTable maps a canonical field to the header spellings accepted
// for it. Matching happens on slugged text, so entries here may be
// written with accents and mixed case.
type SynonymTable map[string][]string

// DefaultSynonyms covers the header spellings seen in Portuguese
// finance sheets plus common English exports.
func DefaultSynonyms() SynonymTable {
	return SynonymTable{
		FieldData:      {"data", "data lançamento", "data do lançamento", "date", "dt"},
		FieldTipo:      {"tipo", "tipo lançamento", "type", "natureza"},
		FieldCategoria: {"categoria", "category", "classe"},
		FieldDescricao: {"descrição", "descricao", "histórico", "description", "memo"},
		FieldReceita:   {"receita", "receitas", "crédito", "entrada", "income", "credit"},
		FieldDespesa:   {"despesa", "despesas", "débito", "saída", "expense", "debit"},
	}
}

// LoadSynonyms reads a synonym table from a YAML file and merges it
// over the defaults. File entries extend a field's accepted spellings,
// they do not replace the defaults.
func LoadSynonyms(path string) (SynonymTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "synonyms: read file")
	}

	var extra SynonymTable
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, eris.Wrap(err, "synonyms: parse yaml")
	}

	table := DefaultSynonyms()
	for field, names := range extra {
		if _, ok := table[field]; !ok {
			return nil, eris.Errorf("synonyms: unknown canonical field %q", field)
		}
		table[field] = append(table[field], names...)
	}
	return table, nil
}
