// Package refs holds the curated reference tables: beat, unit and complaint
// category code->label maps, and the officer roster.
//
// Tables are loaded once at start-up and never modified. Lookups are strict:
// an unmapped code is an error, never a guess. The all-zero (or empty) code is
// the only sentinel and resolves to "no value" without consulting the table.
package refs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"pdclean/internal/normerr"
	"pdclean/internal/table"
)

// Label is a lookup result. Valid is false only for the sentinel code.
type Label struct {
	Text  string
	Valid bool
}

// Table is a read-only code->label map keyed by fixed-width codes.
type Table struct {
	name    string
	width   int
	entries map[string]string
}

// NewTable copies entries; width <= 0 disables zero padding.
func NewTable(name string, width int, entries map[string]string) *Table {
	m := make(map[string]string, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return &Table{name: name, width: width, entries: m}
}

// LoadTable reads a JSON object of code -> label.
func LoadTable(path, name string, width int) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("refs: %s: %w", name, err)
	}
	var entries map[string]string
	if err := sonic.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("refs: %s: %s: %w", name, path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("refs: %s: %s has no entries", name, path)
	}
	return NewTable(name, width, entries), nil
}

func (t *Table) Name() string { return t.name }
func (t *Table) Len() int     { return len(t.entries) }
func (t *Table) Width() int   { return t.width }

// Normalize pads code with leading zeros to the table width.
func (t *Table) Normalize(code string) string {
	code = strings.TrimSpace(code)
	if t.width > 0 && len(code) < t.width {
		code = strings.Repeat("0", t.width-len(code)) + code
	}
	return code
}

// IsSentinel reports whether the normalized code is empty or all zeros.
func (t *Table) IsSentinel(code string) bool {
	return strings.Trim(t.Normalize(code), "0") == ""
}

// Lookup resolves code. The sentinel returns Label{Valid: false}; a miss returns
// *normerr.UnmappedCodeError.
func (t *Table) Lookup(code string) (Label, error) {
	if t.IsSentinel(code) {
		return Label{}, nil
	}
	key := t.Normalize(code)
	label, ok := t.entries[key]
	if !ok {
		return Label{}, &normerr.UnmappedCodeError{Table: t.name, Codes: []string{key}}
	}
	return Label{Text: label, Valid: true}, nil
}

// LookupColumn resolves every cell. Null cells are the sentinel. All misses in
// the column are reported together.
func (t *Table) LookupColumn(col table.Column) (table.Column, error) {
	out := make([]table.Value, len(col.Values))
	bad := normerr.Offenders{}
	for i, v := range col.Values {
		code := v.String()
		if n, ok := v.Int(); ok {
			code = strconv.FormatInt(n, 10)
		}
		l, err := t.Lookup(code)
		if err != nil {
			bad.Add(t.Normalize(code))
			continue
		}
		if l.Valid {
			out[i] = table.TextValue(l.Text)
		}
	}
	if !bad.Empty() {
		return table.Column{}, &normerr.UnmappedCodeError{Column: col.Name, Table: t.name, Codes: bad.Sorted()}
	}
	return table.Column{Name: col.Name, Values: out}, nil
}
