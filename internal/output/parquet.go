package output

import (
	"errors"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"
)

// WriteCleanParquet writes the clean dataset as Parquet, same logical
// content as the CSV serialization.
func WriteCleanParquet(path string, rows []CleanRow) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "output: create parquet")
	}
	defer f.Close() //nolint:errcheck

	w := parquet.NewGenericWriter[CleanRow](f)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			return eris.Wrap(err, "output: write parquet rows")
		}
	}
	if err := w.Close(); err != nil {
		return eris.Wrap(err, "output: close parquet writer")
	}
	return f.Close()
}

// ReadCleanParquet reads a clean Parquet file back, used to check the
// two serializations stay content-equivalent.
func ReadCleanParquet(path string) ([]CleanRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "output: open parquet")
	}
	defer f.Close() //nolint:errcheck

	st, err := f.Stat()
	if err != nil {
		return nil, eris.Wrap(err, "output: stat parquet")
	}

	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, eris.Wrap(err, "output: open parquet file")
	}

	reader := parquet.NewGenericReader[CleanRow](pf)
	defer reader.Close() //nolint:errcheck

	rows := make([]CleanRow, pf.NumRows())
	if len(rows) == 0 {
		return nil, nil
	}
	if _, err := reader.Read(rows); err != nil && !errors.Is(err, io.EOF) {
		return nil, eris.Wrap(err, "output: read parquet rows")
	}
	return rows, nil
}
