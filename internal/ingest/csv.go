package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"
)

const bom = "\ufeff"

// ReadCSV reads a delimited text file into a Table. The reader is BOM
// tolerant and allows rows with varying field counts; short rows are
// handled by the normalizer, not here.
func ReadCSV(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sourceErr(err, path, "", "open file")
	}
	defer f.Close() //nolint:errcheck

	reader := newCSVReader(f, opts)

	headerIdx := opts.HeaderRow
	if headerIdx < 1 {
		headerIdx = 1
	}

	t := &Table{Path: path}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, sourceErr(err, path, "", "read row")
		}
		line++

		switch {
		case line < headerIdx:
			// preamble above the header, skipped
		case line == headerIdx:
			t.Header = trimBOM(record)
		default:
			t.Rows = append(t.Rows, Row{Line: line, Cells: record})
		}
	}

	if t.Header == nil {
		return nil, sourceErr(nil, path, "", "header row past end of file")
	}
	return t, nil
}

// StreamCSV reads the header eagerly, then feeds data rows lazily from
// the file. The file stays open until the channel producer finishes.
func StreamCSV(ctx context.Context, path string, opts Options) ([]string, <-chan Row, <-chan error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, sourceErr(err, path, "", "open file")
	}

	reader := newCSVReader(f, opts)

	headerIdx := opts.HeaderRow
	if headerIdx < 1 {
		headerIdx = 1
	}

	var header []string
	line := 0
	for line < headerIdx {
		record, err := reader.Read()
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, nil, nil, sourceErr(err, path, "", "header row past end of file")
		}
		line++
		if line == headerIdx {
			header = trimBOM(record)
		}
	}

	rowCh := make(chan Row, 64)
	errCh := make(chan error, 1)

	go func() {
		defer f.Close() //nolint:errcheck
		defer close(rowCh)
		defer close(errCh)

		for {
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- sourceErr(err, path, "", "read row")
				return
			}
			line++

			select {
			case rowCh <- Row{Line: line, Cells: record}:
			case <-ctx.Done():
				errCh <- sourceErr(ctx.Err(), path, "", "cancelled")
				return
			}
		}
	}()

	return header, rowCh, errCh, nil
}

func newCSVReader(f *os.File, opts Options) *csv.Reader {
	reader := csv.NewReader(bufio.NewReader(f))
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true
	return reader
}

func trimBOM(record []string) []string {
	if len(record) > 0 {
		record[0] = strings.TrimPrefix(record[0], bom)
	}
	return record
}
