package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/tserra/finqc/internal/model"
)

// DecimalConvention selects how numeric cells are interpreted.
type DecimalConvention string

const (
	// DecimalAuto infers the decimal separator per cell: when both
	// separators appear the rightmost one is decimal, otherwise the
	// single separator present is decimal.
	DecimalAuto DecimalConvention = "auto"
	// DecimalComma: "." thousands, "," decimal (pt-BR sheets).
	DecimalComma DecimalConvention = "comma"
	// DecimalDot: "," thousands, "." decimal.
	DecimalDot DecimalConvention = "dot"
)

var currencyMarkers = []string{"R$", "US$", "$", "€", "£"}

// coerceAmount maps a numeric cell into the tri-state Amount. An empty
// or whitespace-only cell is absent, not zero; a nonempty cell that
// cannot be parsed is invalid, never a pipeline abort.
func coerceAmount(raw string, conv DecimalConvention) model.Amount {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.AbsentAmount()
	}

	cleaned := stripCurrency(s)
	cleaned = normalizeSeparators(cleaned, conv)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return model.InvalidAmount(s)
	}
	return model.PresentAmount(v)
}

func stripCurrency(s string) string {
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, " ", "")
}

// normalizeSeparators rewrites the cell into dot-decimal form.
func normalizeSeparators(s string, conv DecimalConvention) string {
	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")

	decimalIsComma := false
	switch conv {
	case DecimalComma:
		decimalIsComma = true
	case DecimalDot:
		decimalIsComma = false
	default: // DecimalAuto
		switch {
		case dot >= 0 && comma >= 0:
			decimalIsComma = comma > dot
		case comma >= 0:
			decimalIsComma = true
		}
	}

	if decimalIsComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}

// dateLayouts are tried in order. Day-first layouts come before
// month-first, matching the source convention of the sheets.
var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	"01-02-06", // tealeg renders date cells in this short form by default
}

// coerceDate maps a date cell into the tri-state Date.
func coerceDate(raw string) model.Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.AbsentDate()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.PresentDate(t)
		}
	}
	return model.InvalidDate(s)
}
