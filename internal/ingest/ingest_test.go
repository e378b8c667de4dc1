package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func writeTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadXLSX_Basic(t *testing.T) {
	path := writeTestXLSX(t, map[string][][]string{
		"Lançamentos": {
			{"Data", "Tipo", "Receita"},
			{"2024-01-01", "Receita", "100"},
			{"2024-01-02", "Despesa", ""},
		},
	})

	tbl, err := ReadXLSX(path, Options{Sheet: "Lançamentos", HeaderRow: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Tipo", "Receita"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, 2, tbl.Rows[0].Line)
	assert.Equal(t, []string{"2024-01-01", "Receita", "100"}, tbl.Rows[0].Cells)
	assert.Equal(t, 3, tbl.Rows[1].Line)
}

func TestReadXLSX_HeaderRowOffset(t *testing.T) {
	path := writeTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Relatório mensal"},
			{"Tipo", "Receita", "Despesa"},
			{"Receita", "10", ""},
		},
	})

	tbl, err := ReadXLSX(path, Options{HeaderRow: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tipo", "Receita", "Despesa"}, tbl.Header)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, 3, tbl.Rows[0].Line)
}

func TestReadXLSX_SheetNotFound(t *testing.T) {
	path := writeTestXLSX(t, map[string][][]string{"Sheet1": {{"a"}}})

	_, err := ReadXLSX(path, Options{Sheet: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet")
	assert.Contains(t, err.Error(), "not found")
}

func TestReadXLSX_HeaderPastEnd(t *testing.T) {
	path := writeTestXLSX(t, map[string][][]string{"Sheet1": {{"a"}}})

	_, err := ReadXLSX(path, Options{HeaderRow: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row")
}

func TestStreamXLSX_Basic(t *testing.T) {
	path := writeTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Tipo", "Receita"},
			{"Receita", "1"},
			{"Despesa", "2"},
		},
	})

	header, rowCh, errCh, err := StreamXLSX(context.Background(), path, Options{HeaderRow: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tipo", "Receita"}, header)

	var rows []Row
	for row := range rowCh {
		rows = append(rows, row)
	}
	require.NoError(t, <-errCh)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Despesa", "2"}, rows[1].Cells)
}

func TestReadCSV_Basic(t *testing.T) {
	path := writeTestCSV(t, "tipo,receita,despesa\nReceita,100,\nDespesa,,50\n")

	tbl, err := ReadCSV(path, Options{HeaderRow: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"tipo", "receita", "despesa"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"Receita", "100", ""}, tbl.Rows[0].Cells)
	assert.Equal(t, 3, tbl.Rows[1].Line)
}

func TestReadCSV_BOMAndSemicolon(t *testing.T) {
	path := writeTestCSV(t, "\ufefftipo;receita\nReceita;1,50\n")

	tbl, err := ReadCSV(path, Options{HeaderRow: 1, Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"tipo", "receita"}, tbl.Header)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{"Receita", "1,50"}, tbl.Rows[0].Cells)
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)

	var srcErr *SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, "open file", srcErr.Reason)
}

func TestStreamCSV_Cancellation(t *testing.T) {
	path := writeTestCSV(t, "a\n1\n2\n3\n")

	ctx, cancel := context.WithCancel(context.Background())
	_, rowCh, errCh, err := StreamCSV(ctx, path, Options{HeaderRow: 1})
	require.NoError(t, err)

	<-rowCh
	cancel()
	for range rowCh {
	}
	// Producer either finished cleanly before seeing the cancel or
	// reported it; both are acceptable.
	if err := <-errCh; err != nil {
		assert.Contains(t, err.Error(), "cancelled")
	}
}

func TestRead_Dispatch(t *testing.T) {
	csvPath := writeTestCSV(t, "tipo\nReceita\n")
	tbl, err := Read(csvPath, Options{HeaderRow: 1})
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 1)

	_, err = Read("file.pdf", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}
