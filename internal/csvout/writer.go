package csvout

import (
	"bufio"
	"encoding/csv"
	"io"

	"pdclean/internal/table"
)

type Writer struct {
	w   *csv.Writer
	buf *bufio.Writer
}

func New(w io.Writer) *Writer {
	bw := bufio.NewWriterSize(w, 1<<20)
	return &Writer{
		w:   csv.NewWriter(bw),
		buf: bw,
	}
}

func (cw *Writer) WriteHeader(header []string) error {
	return cw.w.Write(header)
}

func (cw *Writer) WriteRow(row []string) error {
	return cw.w.Write(row)
}

func (cw *Writer) Flush() error {
	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		return err
	}
	return cw.buf.Flush()
}

// WriteBatch writes a header and every row of b, nulls as empty cells, then
// flushes.
func WriteBatch(w io.Writer, b *table.Batch) error {
	cw := New(w)
	if err := cw.WriteHeader(b.Names()); err != nil {
		return err
	}
	cols := b.Columns()
	row := make([]string, len(cols))
	for i := 0; i < b.Rows(); i++ {
		for j, c := range cols {
			row[j] = c.Values[i].String()
		}
		if err := cw.WriteRow(row); err != nil {
			return err
		}
	}
	return cw.Flush()
}
