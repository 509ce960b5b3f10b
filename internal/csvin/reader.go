package csvin

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"pdclean/internal/table"
)

type Reader struct {
	cr     *csv.Reader
	header []string
	inited bool
}

type Options struct {
	Comma      rune
	Comment    rune
	LazyQuotes bool
	TrimSpace  bool

	// InferNumbers turns plain numeric cells into Number values, the way a
	// dataframe reader would. NumericColumns limits that to named columns.
	InferNumbers   bool
	NumericColumns []string
}

func New(r io.Reader, opt Options) *Reader {
	br := bufio.NewReaderSize(r, 1<<20)
	cr := csv.NewReader(br)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	if opt.Comment != 0 {
		cr.Comment = opt.Comment
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.TrimLeadingSpace = opt.TrimSpace
	cr.FieldsPerRecord = -1
	return &Reader{cr: cr}
}

func (r *Reader) init() error {
	if r.inited {
		return nil
	}
	h, err := r.cr.Read()
	if err != nil {
		return err
	}
	r.header = make([]string, len(h))
	for i, name := range h {
		r.header[i] = strings.TrimSpace(name)
	}
	r.inited = true
	return nil
}

func (r *Reader) Header() ([]string, error) {
	if err := r.init(); err != nil {
		return nil, err
	}
	return r.header, nil
}

// Next returns the next record padded or cut to the header width.
func (r *Reader) Next() ([]string, error) {
	if err := r.init(); err != nil {
		return nil, err
	}
	rec, err := r.cr.Read()
	if err != nil {
		return nil, err
	}
	row := make([]string, len(r.header))
	copy(row, rec)
	return row, nil
}

// ReadBatch reads the whole input into a batch, one column per header field.
// A malformed record fails the read; rows are never skipped.
func ReadBatch(r io.Reader, opt Options) (*table.Batch, error) {
	cr := New(r, opt)
	header, err := cr.Header()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: empty input")
		}
		return nil, fmt.Errorf("csv header: %w", err)
	}
	numeric := make(map[string]bool, len(opt.NumericColumns))
	for _, c := range opt.NumericColumns {
		numeric[c] = true
	}
	cols := make([]table.Column, len(header))
	for i, h := range header {
		cols[i].Name = h
	}
	line := 1
	for {
		row, err := cr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv record %d: %w", line, err)
		}
		for i, cell := range row {
			v := table.TextValue(cell)
			if opt.InferNumbers && (len(numeric) == 0 || numeric[header[i]]) {
				v = table.Infer(cell)
			}
			cols[i].Values = append(cols[i].Values, v)
		}
	}
	return table.NewBatch(cols...)
}
