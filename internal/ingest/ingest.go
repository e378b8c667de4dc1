// Package ingest reads tabular input (XLSX or delimited text) into raw
// rows for the pipeline. It knows nothing about the canonical schema;
// it only deals in sheets, headers, and cell text.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Row is one raw sheet row below the header: the 1-based line number in
// the source file and the cell text in column order. Rows are produced
// once and consumed immediately by normalization.
type Row struct {
	Line  int
	Cells []string
}

// SourceError means the input could not be read at all. It is fatal and
// distinct from a schema mapping failure: no row was ever processed.
type SourceError struct {
	Path   string
	Sheet  string
	Reason string
	Cause  error
}

func (e *SourceError) Error() string {
	msg := fmt.Sprintf("source %s: %s", e.Path, e.Reason)
	if e.Sheet != "" {
		msg = fmt.Sprintf("source %s (sheet %q): %s", e.Path, e.Sheet, e.Reason)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SourceError) Unwrap() error { return e.Cause }

// sourceErr builds a SourceError so callers can match the taxonomy with
// errors.As.
func sourceErr(cause error, path, sheet, reason string) error {
	return &SourceError{Path: path, Sheet: sheet, Reason: reason, Cause: cause}
}

// Options selects the sheet and header position inside the source.
type Options struct {
	Sheet     string // sheet name; empty = first sheet (XLSX only)
	HeaderRow int    // 1-based header row index; rows above it are skipped
	Delimiter rune   // delimited text only; default ','
}

// Table is an eagerly-read input: the header cells and the data rows
// below them, line numbers preserved.
type Table struct {
	Path   string
	Header []string
	Rows   []Row
}

// Read opens path and reads it fully, dispatching on extension.
// Supported: .xlsx, .csv, .tsv, .txt.
func Read(path string, opts Options) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path, opts)
	case ".csv", ".tsv", ".txt":
		return ReadCSV(path, opts)
	default:
		return nil, eris.Errorf("ingest: unsupported input format %q", filepath.Ext(path))
	}
}

// Stream is the lazy counterpart of Read: the header comes back
// eagerly, data rows arrive on the channel.
func Stream(ctx context.Context, path string, opts Options) ([]string, <-chan Row, <-chan error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return StreamXLSX(ctx, path, opts)
	case ".csv", ".tsv", ".txt":
		return StreamCSV(ctx, path, opts)
	default:
		return nil, nil, nil, eris.Errorf("ingest: unsupported input format %q", filepath.Ext(path))
	}
}
