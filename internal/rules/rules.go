// Package rules evaluates the data-quality rule set against canonical
// records. Rules are pure, stateless predicates and independent of one
// another: adding a rule never changes what the existing ones flag.
package rules

import (
	"sort"

	"github.com/tserra/finqc/internal/model"
)

// Rule is a named predicate over a canonical record. Check returns
// true when the rule is violated.
type Rule struct {
	Code        string
	Description string
	Check       func(model.Record) bool
}

// Engine holds an ordered rule set. The order only fixes report
// layout; evaluation never short-circuits between rules.
type Engine struct {
	rules []Rule
	codes map[string]bool
}

// NewEngine returns an engine with the baseline rule set.
func NewEngine() *Engine {
	e := &Engine{codes: make(map[string]bool)}
	for _, r := range baseline() {
		e.mustRegister(r)
	}
	return e
}

// Register adds a rule to the set. Duplicate codes are rejected so an
// extension can never silently shadow an existing rule.
func (e *Engine) Register(r Rule) bool {
	if e.codes[r.Code] {
		return false
	}
	e.rules = append(e.rules, r)
	e.codes[r.Code] = true
	return true
}

func (e *Engine) mustRegister(r Rule) {
	if !e.Register(r) {
		panic("rules: duplicate code " + r.Code)
	}
}

// Rules returns the rule set in registration order.
func (e *Engine) Rules() []Rule { return e.rules }

// Describe returns the description for a rule code, or "".
func (e *Engine) Describe(code string) string {
	for _, r := range e.rules {
		if r.Code == code {
			return r.Description
		}
	}
	return ""
}

// Evaluate runs every rule against the record and returns the violated
// codes sorted lexically, empty when the record is clean.
func (e *Engine) Evaluate(rec model.Record) []string {
	var codes []string
	for _, r := range e.rules {
		if r.Check(rec) {
			codes = append(codes, r.Code)
		}
	}
	sort.Strings(codes)
	return codes
}

// Violations evaluates the record and materializes tagged violations
// carrying the record's row number.
func (e *Engine) Violations(rec model.Record) []model.Violation {
	codes := e.Evaluate(rec)
	if len(codes) == 0 {
		return nil
	}
	vs := make([]model.Violation, len(codes))
	for i, code := range codes {
		vs[i] = model.Violation{Row: rec.Row, Code: code, Description: e.Describe(code)}
	}
	return vs
}
