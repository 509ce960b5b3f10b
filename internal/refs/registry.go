package refs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"pdclean/internal/csvin"
	"pdclean/internal/numeric"
	"pdclean/internal/table"
)

// File names inside the reference directory.
const (
	BeatFile     = "beat.json"
	UnitFile     = "units.json"
	CategoryFile = "category.json"
	OfficerFile  = "officer.csv"

	BeatWidth = 4
	UnitWidth = 3
)

var (
	ErrNotLoaded     = errors.New("refs: reference tables not loaded")
	ErrAlreadyLoaded = errors.New("refs: reference tables already loaded")
)

// Registry bundles every reference table.
type Registry struct {
	Beat     *Table
	Unit     *Table
	Category *Table
	Officers *table.Batch
}

// Load reads all reference files from dir.
func Load(dir string) (*Registry, error) {
	beat, err := LoadTable(filepath.Join(dir, BeatFile), "beat", BeatWidth)
	if err != nil {
		return nil, err
	}
	unit, err := LoadTable(filepath.Join(dir, UnitFile), "unit", UnitWidth)
	if err != nil {
		return nil, err
	}
	cat, err := LoadTable(filepath.Join(dir, CategoryFile), "category", 0)
	if err != nil {
		return nil, err
	}
	officers, err := LoadOfficers(filepath.Join(dir, OfficerFile))
	if err != nil {
		return nil, err
	}
	return &Registry{Beat: beat, Unit: unit, Category: cat, Officers: officers}, nil
}

var (
	mu     sync.Mutex
	global *Registry
)

// Init loads the process-wide registry. It may succeed only once.
func Init(dir string) error {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		return ErrAlreadyLoaded
	}
	r, err := Load(dir)
	if err != nil {
		return err
	}
	global = r
	return nil
}

// Default returns the registry loaded by Init.
func Default() (*Registry, error) {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		return nil, ErrNotLoaded
	}
	return global, nil
}

var (
	officerLower = []string{"last_name", "first_name", "middle_initial", "gender", "race"}
	officerDates = []string{"resignation_date", "appointed_date"}
)

// LoadOfficers reads the officer roster: name, gender and race fields are
// lower-cased for matching, dates must be YYYY-MM-DD and birth_year becomes an
// integer.
func LoadOfficers(path string) (*table.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("refs: officers: %w", err)
	}
	defer f.Close()

	b, err := csvin.ReadBatch(f, csvin.Options{InferNumbers: true, NumericColumns: []string{"birth_year"}})
	if err != nil {
		return nil, fmt.Errorf("refs: officers: %w", err)
	}
	for _, name := range officerLower {
		if err := replace(b, name, func(c table.Column) (table.Column, error) {
			return c.Map(func(v table.Value) table.Value {
				return table.TextValue(strings.ToLower(v.String()))
			}), nil
		}); err != nil {
			return nil, err
		}
	}
	for _, name := range officerDates {
		if err := replace(b, name, parseISODates); err != nil {
			return nil, err
		}
	}
	if err := replace(b, "birth_year", func(c table.Column) (table.Column, error) {
		return numeric.EnsureInt(c), nil
	}); err != nil {
		return nil, err
	}
	return b, nil
}

func replace(b *table.Batch, name string, fn func(table.Column) (table.Column, error)) error {
	c, err := b.Column(name)
	if err != nil {
		return fmt.Errorf("refs: officers: %w", err)
	}
	nc, err := fn(c)
	if err != nil {
		return fmt.Errorf("refs: officers: %w", err)
	}
	return b.Replace(nc)
}

func parseISODates(c table.Column) (table.Column, error) {
	out := make([]table.Value, len(c.Values))
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		t, err := time.Parse("2006-01-02", strings.TrimSpace(v.String()))
		if err != nil {
			return table.Column{}, fmt.Errorf("column %q row %d: %w", c.Name, i+1, err)
		}
		out[i] = table.TextValue(t.Format("2006-01-02"))
	}
	return table.Column{Name: c.Name, Values: out}, nil
}

// OfficerColumns is the roster layout, in file order.
var OfficerColumns = []string{
	"id", "last_name", "first_name", "middle_initial", "gender", "race",
	"appointed_date", "resignation_date", "birth_year",
}

// FindOfficers returns the roster rows matching last and first name, ignoring
// case. A non-zero birthYear must match too.
func (r *Registry) FindOfficers(last, first string, birthYear int64) ([]map[string]table.Value, error) {
	if r.Officers == nil {
		return nil, fmt.Errorf("refs: officers: %w", ErrNotLoaded)
	}
	lasts, err := r.Officers.Column("last_name")
	if err != nil {
		return nil, fmt.Errorf("refs: officers: %w", err)
	}
	firsts, err := r.Officers.Column("first_name")
	if err != nil {
		return nil, fmt.Errorf("refs: officers: %w", err)
	}
	years, err := r.Officers.Column("birth_year")
	if err != nil {
		return nil, fmt.Errorf("refs: officers: %w", err)
	}
	last, first = strings.ToLower(strings.TrimSpace(last)), strings.ToLower(strings.TrimSpace(first))
	var out []map[string]table.Value
	for i := range lasts.Values {
		if lasts.Values[i].String() != last || firsts.Values[i].String() != first {
			continue
		}
		if birthYear != 0 {
			if y, ok := years.Values[i].Int(); !ok || y != birthYear {
				continue
			}
		}
		out = append(out, r.Officers.Row(i))
	}
	return out, nil
}
