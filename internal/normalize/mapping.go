package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SchemaError means the canonical column mapping could not be
// established: a required column is missing or a header is ambiguous.
// It is fatal and aborts the run before any row is processed.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: column %q: %s", e.Column, e.Reason)
}

// ColumnMap binds canonical fields to source column indexes, resolved
// once at run start. Fields absent from the sheet are simply not in
// the map.
type ColumnMap map[string]int

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s_]`)
var spaces = regexp.MustCompile(`\s+`)

// accentFolder strips combining marks after NFD decomposition, so
// "Descrição" and "Descricao" slug identically.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slug normalizes a header for matching: trim, fold accents, lowercase,
// drop punctuation, collapse whitespace to underscores.
func slug(header string) string {
	s := strings.TrimSpace(header)
	if folded, _, err := transform.String(accentFolder, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = nonWord.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(strings.TrimSpace(s), "_")
	return s
}

// ResolveColumns maps sheet headers to canonical fields using the
// synonym table. A header matching two canonical fields is an
// ambiguity error, never a silent pick; when the same field matches
// several headers the first one wins. Required canonical fields that
// match nothing fail the resolution.
func ResolveColumns(header []string, table SynonymTable) (ColumnMap, error) {
	// Slug the synonym table once.
	slugged := make(map[string]map[string]bool, len(table))
	for field, names := range table {
		set := make(map[string]bool, len(names)+1)
		set[slug(field)] = true // the canonical name always matches itself
		for _, name := range names {
			set[slug(name)] = true
		}
		slugged[field] = set
	}

	cm := make(ColumnMap)
	for idx, raw := range header {
		s := slug(raw)
		if s == "" {
			continue // unnamed column, dropped
		}

		var matches []string
		for _, field := range Fields {
			if slugged[field][s] {
				matches = append(matches, field)
			}
		}

		switch {
		case len(matches) > 1:
			return nil, &SchemaError{
				Column: raw,
				Reason: fmt.Sprintf("ambiguous mapping: matches %s", strings.Join(matches, " and ")),
			}
		case len(matches) == 1:
			if _, taken := cm[matches[0]]; !taken {
				cm[matches[0]] = idx
			}
		}
	}

	for _, field := range RequiredFields {
		if _, ok := cm[field]; !ok {
			return nil, &SchemaError{Column: field, Reason: "no source column maps to it"}
		}
	}
	return cm, nil
}

// cell returns the mapped cell text for a canonical field, or "" when
// the field is unmapped or the row is short.
func (cm ColumnMap) cell(cells []string, field string) string {
	idx, ok := cm[field]
	if !ok || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
