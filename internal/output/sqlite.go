package output

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/tserra/finqc/internal/model"
)

const summaryMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	records    INTEGER NOT NULL,
	flagged    INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS rule_counts (
	run_id TEXT NOT NULL REFERENCES runs(id),
	code   TEXT NOT NULL,
	count  INTEGER NOT NULL,
	PRIMARY KEY (run_id, code)
);

CREATE INDEX IF NOT EXISTS idx_rule_counts_code ON rule_counts(code);
`

// SummaryStore persists per-run rule summaries to SQLite so repeated
// runs over a dataset can be compared later.
type SummaryStore struct {
	db *sql.DB
}

// OpenSummaryStore opens (and migrates) the summary database at dsn.
func OpenSummaryStore(dsn string) (*SummaryStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if _, err := db.Exec(summaryMigration); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "sqlite: migrate")
	}
	return &SummaryStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SummaryStore) Close() error { return s.db.Close() }

// SaveRun inserts the run row and its per-rule counts in one
// transaction.
func (s *SummaryStore) SaveRun(ctx context.Context, rep *model.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, records, flagged) VALUES (?, ?, ?)`,
		rep.RunID, rep.Records, rep.Flagged,
	); err != nil {
		return eris.Wrap(err, "sqlite: insert run")
	}

	for _, rc := range rep.Summary {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rule_counts (run_id, code, count) VALUES (?, ?, ?)`,
			rep.RunID, rc.Code, rc.Count,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert count %s", rc.Code)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// RunCounts reads back the per-rule counts for a run, sorted by code.
func (s *SummaryStore) RunCounts(ctx context.Context, runID string) ([]model.RuleCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, count FROM rule_counts WHERE run_id = ? ORDER BY code`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query counts")
	}
	defer rows.Close() //nolint:errcheck

	var counts []model.RuleCount
	for rows.Next() {
		var rc model.RuleCount
		if err := rows.Scan(&rc.Code, &rc.Count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan count")
		}
		counts = append(counts, rc)
	}
	return counts, eris.Wrap(rows.Err(), "sqlite: iterate counts")
}
