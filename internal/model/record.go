// Package model holds the canonical record shape shared by the
// normalizer, rule engine, and writers.
package model

import (
	"fmt"
	"time"
)

// Tipo classifies a transaction row as income or expense.
type Tipo string

const (
	TipoReceita Tipo = "receita"
	TipoDespesa Tipo = "despesa"
	TipoUnknown Tipo = "unknown"
)

// ParseTipo maps a normalized cell value to a Tipo. Values that are
// neither receita nor despesa come back as TipoUnknown; the raw label
// is kept on the record for reporting.
func ParseTipo(s string) Tipo {
	switch s {
	case "receita":
		return TipoReceita
	case "despesa":
		return TipoDespesa
	default:
		return TipoUnknown
	}
}

// FieldState is the tri-state marker carried by coerced fields.
// Absent (empty cell) and Invalid (cell present but uncoercible) are
// deliberately distinct from a valid zero: rules treat them differently.
type FieldState int

const (
	Absent FieldState = iota
	Invalid
	Present
)

// Amount is a decimal field that survives failed coercion. An Invalid
// amount keeps the raw cell text so the report can show what was there.
type Amount struct {
	State FieldState
	Value float64
	Raw   string
}

// AbsentAmount returns the absent sentinel.
func AbsentAmount() Amount { return Amount{State: Absent} }

// InvalidAmount returns the invalid sentinel carrying the raw cell text.
func InvalidAmount(raw string) Amount { return Amount{State: Invalid, Raw: raw} }

// PresentAmount returns a parsed amount.
func PresentAmount(v float64) Amount { return Amount{State: Present, Value: v} }

// IsPresent reports whether the amount holds a parsed value.
func (a Amount) IsPresent() bool { return a.State == Present }

// IsAbsent reports whether the source cell was empty.
func (a Amount) IsAbsent() bool { return a.State == Absent }

// IsInvalid reports whether coercion failed on a nonempty cell.
func (a Amount) IsInvalid() bool { return a.State == Invalid }

// String renders the amount for tabular output. Absent renders empty,
// Invalid renders a tagged marker so both serializations stay
// content-equivalent and auditable.
func (a Amount) String() string {
	switch a.State {
	case Present:
		return fmt.Sprintf("%.2f", a.Value)
	case Invalid:
		return "#INVALID:" + a.Raw
	default:
		return ""
	}
}

// Date is a tri-state date field, same contract as Amount.
type Date struct {
	State FieldState
	Value time.Time
	Raw   string
}

// AbsentDate returns the absent sentinel.
func AbsentDate() Date { return Date{State: Absent} }

// InvalidDate returns the invalid sentinel carrying the raw cell text.
func InvalidDate(raw string) Date { return Date{State: Invalid, Raw: raw} }

// PresentDate returns a parsed date.
func PresentDate(v time.Time) Date { return Date{State: Present, Value: v} }

// IsInvalid reports whether coercion failed on a nonempty cell.
func (d Date) IsInvalid() bool { return d.State == Invalid }

// String renders the date as ISO for tabular output.
func (d Date) String() string {
	switch d.State {
	case Present:
		return d.Value.Format("2006-01-02")
	case Invalid:
		return "#INVALID:" + d.Raw
	default:
		return ""
	}
}

// Record is the canonical, normalized shape of one input row. It is
// created once by the normalizer and only ever annotated afterwards;
// a failing record still flows to the clean output.
type Record struct {
	// Row is the 1-based row number in the source sheet.
	Row int

	Tipo    Tipo
	TipoRaw string // original cell text, kept for unknown-tipo reporting

	Receita Amount
	Despesa Amount

	// Descriptive fields carried through unchanged.
	Data      Date
	Descricao string
	Categoria string
}
