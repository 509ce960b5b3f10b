// Package table holds the in-memory tabular batch the normalizers operate on.
package table

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMissingColumn   = errors.New("missing column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrLengthMismatch  = errors.New("column length mismatch")
)

// Column is a named, row-ordered sequence of values.
type Column struct {
	Name   string
	Values []Value
}

func NewColumn(name string, values ...Value) Column {
	return Column{Name: name, Values: values}
}

// TextColumn builds a column from raw strings; "" becomes Null.
func TextColumn(name string, raw ...string) Column {
	vals := make([]Value, len(raw))
	for i, s := range raw {
		vals[i] = TextValue(s)
	}
	return Column{Name: name, Values: vals}
}

func (c Column) Len() int { return len(c.Values) }

// Strings renders every value with Value.String.
func (c Column) Strings() []string {
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.String()
	}
	return out
}

// Map returns a new column with fn applied to every value.
func (c Column) Map(fn func(Value) Value) Column {
	out := make([]Value, len(c.Values))
	for i, v := range c.Values {
		out[i] = fn(v)
	}
	return Column{Name: c.Name, Values: out}
}

func (c Column) Clone() Column {
	return Column{Name: c.Name, Values: append([]Value(nil), c.Values...)}
}

func (c Column) AllNull() bool {
	for _, v := range c.Values {
		if !v.IsNull() {
			return false
		}
	}
	return true
}

// Batch is an ordered set of equal-length columns.
type Batch struct {
	cols  []Column
	index map[string]int
	rows  int
}

func NewBatch(cols ...Column) (*Batch, error) {
	b := &Batch{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := b.Add(c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Batch) Add(c Column) error {
	if b.index == nil {
		b.index = map[string]int{}
	}
	if _, ok := b.index[c.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
	}
	if len(b.cols) > 0 && c.Len() != b.rows {
		return fmt.Errorf("%w: %q has %d rows, batch has %d", ErrLengthMismatch, c.Name, c.Len(), b.rows)
	}
	if len(b.cols) == 0 {
		b.rows = c.Len()
	}
	b.index[c.Name] = len(b.cols)
	b.cols = append(b.cols, c)
	return nil
}

func (b *Batch) Rows() int { return b.rows }

func (b *Batch) Names() []string {
	out := make([]string, len(b.cols))
	for i, c := range b.cols {
		out[i] = c.Name
	}
	return out
}

func (b *Batch) Columns() []Column { return append([]Column(nil), b.cols...) }

func (b *Batch) Has(name string) bool {
	_, ok := b.index[name]
	return ok
}

func (b *Batch) Column(name string) (Column, error) {
	i, ok := b.index[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return b.cols[i], nil
}

// Replace swaps the column with the same name for c.
func (b *Batch) Replace(c Column) error {
	i, ok := b.index[c.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingColumn, c.Name)
	}
	if c.Len() != b.rows {
		return fmt.Errorf("%w: %q has %d rows, batch has %d", ErrLengthMismatch, c.Name, c.Len(), b.rows)
	}
	b.cols[i] = c
	return nil
}

// Clone copies the column slice; value slices are shared since normalizers never mutate them.
func (b *Batch) Clone() *Batch {
	nb := &Batch{
		cols:  append([]Column(nil), b.cols...),
		index: make(map[string]int, len(b.index)),
		rows:  b.rows,
	}
	for k, v := range b.index {
		nb.index[k] = v
	}
	return nb
}

// Row returns row i keyed by column name.
func (b *Batch) Row(i int) map[string]Value {
	out := make(map[string]Value, len(b.cols))
	for _, c := range b.cols {
		out[c.Name] = c.Values[i]
	}
	return out
}

// Rename applies old->new renames; names not present are ignored.
func (b *Batch) Rename(m map[string]string) (*Batch, error) {
	cols := make([]Column, len(b.cols))
	for i, c := range b.cols {
		if to, ok := m[c.Name]; ok {
			c.Name = to
		}
		cols[i] = c
	}
	return NewBatch(cols...)
}

// Drop removes the named columns. Every name must exist.
func (b *Batch) Drop(names ...string) (*Batch, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !b.Has(n) {
			return nil, fmt.Errorf("drop: %w: %q", ErrMissingColumn, n)
		}
		drop[n] = true
	}
	return b.filter(func(c Column) bool { return !drop[c.Name] })
}

// DropEmpty removes columns whose every value is null.
func (b *Batch) DropEmpty() (*Batch, error) {
	return b.filter(func(c Column) bool { return !c.AllNull() })
}

// CleanColumnNames drops "Unnamed:" columns and snake-cases the rest.
func (b *Batch) CleanColumnNames() (*Batch, error) {
	var cols []Column
	for _, c := range b.cols {
		if strings.HasPrefix(c.Name, "Unnamed:") {
			continue
		}
		c.Name = SnakeCase(c.Name)
		cols = append(cols, c)
	}
	return NewBatch(cols...)
}

func (b *Batch) filter(keep func(Column) bool) (*Batch, error) {
	var cols []Column
	for _, c := range b.cols {
		if keep(c) {
			cols = append(cols, c)
		}
	}
	nb, err := NewBatch(cols...)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		nb.rows = b.rows
	}
	return nb, nil
}

var nonWord = regexp.MustCompile(`[\s\W]+`)

// SnakeCase: "Log No." -> "log_no".
func SnakeCase(name string) string {
	s := nonWord.ReplaceAllString(strings.TrimSpace(name), "_")
	return strings.Trim(strings.ToLower(s), "_")
}
