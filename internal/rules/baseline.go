package rules

import "github.com/tserra/finqc/internal/model"

// Rule codes of the baseline set.
const (
	CodeMutualExclusion = "mutual_exclusion"
	CodeCompleteness    = "completeness"
	CodeTypeReceita     = "type_consistency_receita"
	CodeTypeDespesa     = "type_consistency_despesa"
	CodeInvalidCoercion = "invalid_type_coercion"
	CodeUnknownTipo     = "unknown_tipo"
	CodeNegativeValue   = "negative_value"
	CodeInvalidDate     = "invalid_date"
)

func baseline() []Rule {
	return []Rule{
		{
			Code:        CodeMutualExclusion,
			Description: "receita and despesa are both filled on the same row",
			Check: func(r model.Record) bool {
				return r.Receita.IsPresent() && r.Despesa.IsPresent()
			},
		},
		{
			Code:        CodeCompleteness,
			Description: "neither receita nor despesa is filled",
			Check: func(r model.Record) bool {
				return r.Receita.IsAbsent() && r.Despesa.IsAbsent()
			},
		},
		{
			Code:        CodeTypeReceita,
			Description: "row is marked Receita but receita is missing or despesa is filled",
			Check: func(r model.Record) bool {
				// Type-specific checks need a known tipo; unknown_tipo
				// covers the rest.
				if r.Tipo != model.TipoReceita {
					return false
				}
				return !r.Receita.IsPresent() || r.Despesa.IsPresent()
			},
		},
		{
			Code:        CodeTypeDespesa,
			Description: "row is marked Despesa but despesa is missing or receita is filled",
			Check: func(r model.Record) bool {
				if r.Tipo != model.TipoDespesa {
					return false
				}
				return !r.Despesa.IsPresent() || r.Receita.IsPresent()
			},
		},
		{
			Code:        CodeInvalidCoercion,
			Description: "a numeric cell could not be coerced to a decimal",
			Check: func(r model.Record) bool {
				return r.Receita.IsInvalid() || r.Despesa.IsInvalid()
			},
		},
		{
			Code:        CodeUnknownTipo,
			Description: "tipo is neither Receita nor Despesa",
			Check: func(r model.Record) bool {
				return r.Tipo == model.TipoUnknown
			},
		},
		{
			Code:        CodeNegativeValue,
			Description: "receita or despesa is negative",
			Check: func(r model.Record) bool {
				return (r.Receita.IsPresent() && r.Receita.Value < 0) ||
					(r.Despesa.IsPresent() && r.Despesa.Value < 0)
			},
		},
		{
			Code:        CodeInvalidDate,
			Description: "data cell could not be parsed as a date",
			Check: func(r model.Record) bool {
				return r.Data.IsInvalid()
			},
		},
	}
}
