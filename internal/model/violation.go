package model

// Violation is a named rule failure attached to a record. It never
// removes the record from the output.
type Violation struct {
	Row         int    `json:"row"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// RecordDetail is the per-record view of the quality report: one entry
// per input row, in input order, violations or not.
type RecordDetail struct {
	Row        int         `json:"row"`
	Violations []Violation `json:"violations"`
}

// RuleCount is one line of the per-rule summary. Every registered rule
// appears, including those never violated.
type RuleCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// Report is the quality report: per-record detail plus per-rule
// summary. It is derived data, recomputable from the records at any
// time, and deterministic for a given input sequence.
type Report struct {
	RunID   string `json:"run_id"`
	Records int    `json:"records"`
	Flagged int    `json:"flagged"` // records with at least one violation

	Details []RecordDetail `json:"details"`
	Summary []RuleCount    `json:"summary"`
}

// TotalViolations counts violations across all records.
func (r *Report) TotalViolations() int {
	n := 0
	for _, c := range r.Summary {
		n += c.Count
	}
	return n
}
