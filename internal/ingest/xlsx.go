package ingest

import (
	"context"

	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads one sheet of an XLSX workbook into a Table.
func ReadXLSX(path string, opts Options) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, sourceErr(err, path, opts.Sheet, "open workbook")
	}

	sheet, err := pickSheet(f, path, opts)
	if err != nil {
		return nil, err
	}

	headerIdx := opts.HeaderRow
	if headerIdx < 1 {
		headerIdx = 1
	}
	if len(sheet.Rows) < headerIdx {
		return nil, sourceErr(nil, path, sheet.Name, "header row past end of sheet")
	}

	t := &Table{Path: path, Header: rowCells(sheet.Rows[headerIdx-1])}
	for i := headerIdx; i < len(sheet.Rows); i++ {
		t.Rows = append(t.Rows, Row{Line: i + 1, Cells: rowCells(sheet.Rows[i])})
	}
	return t, nil
}

// StreamXLSX reads the header eagerly, then feeds data rows through a
// channel. Both channels are closed when the sheet is exhausted.
func StreamXLSX(ctx context.Context, path string, opts Options) ([]string, <-chan Row, <-chan error, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, nil, sourceErr(err, path, opts.Sheet, "open workbook")
	}

	sheet, err := pickSheet(f, path, opts)
	if err != nil {
		return nil, nil, nil, err
	}

	headerIdx := opts.HeaderRow
	if headerIdx < 1 {
		headerIdx = 1
	}
	if len(sheet.Rows) < headerIdx {
		return nil, nil, nil, sourceErr(nil, path, sheet.Name, "header row past end of sheet")
	}
	header := rowCells(sheet.Rows[headerIdx-1])

	rowCh := make(chan Row, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		for i := headerIdx; i < len(sheet.Rows); i++ {
			select {
			case rowCh <- Row{Line: i + 1, Cells: rowCells(sheet.Rows[i])}:
			case <-ctx.Done():
				errCh <- sourceErr(ctx.Err(), path, sheet.Name, "cancelled")
				return
			}
		}
	}()

	return header, rowCh, errCh, nil
}

func pickSheet(f *xlsx.File, path string, opts Options) (*xlsx.Sheet, error) {
	if opts.Sheet != "" {
		sheet, ok := f.Sheet[opts.Sheet]
		if !ok {
			return nil, sourceErr(nil, path, opts.Sheet, "sheet not found")
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, sourceErr(nil, path, "", "workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowCells(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
