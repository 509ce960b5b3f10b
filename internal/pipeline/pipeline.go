// Package pipeline composes normalizers into an ordered sequence of steps over
// a table.Batch.
//
// A column step applies one ColumnFunc to each named column and replaces it in
// place; a batch step reshapes the whole batch (rename, drop, derive). Steps run
// in declaration order. The first failure aborts the run: no row is skipped and
// no default is substituted. The input batch is never modified.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"pdclean/internal/table"
)

// ColumnFunc normalizes a whole column and returns a new one with the same name.
type ColumnFunc func(table.Column) (table.Column, error)

// BatchFunc returns a reshaped batch.
type BatchFunc func(*table.Batch) (*table.Batch, error)

type Step struct {
	Name    string
	Columns []string
	// Optional skips columns the batch does not carry instead of failing.
	Optional bool

	Column ColumnFunc
	Batch  BatchFunc
}

// Columns builds a column step over cols.
func Columns(name string, fn ColumnFunc, cols ...string) Step {
	return Step{Name: name, Columns: cols, Column: fn}
}

// OptionalColumns is Columns that tolerates absent columns.
func OptionalColumns(name string, fn ColumnFunc, cols ...string) Step {
	s := Columns(name, fn, cols...)
	s.Optional = true
	return s
}

// Reshape builds a batch step.
func Reshape(name string, fn BatchFunc) Step {
	return Step{Name: name, Batch: fn}
}

// Kind is "column" or "batch".
func (s Step) Kind() string {
	if s.Batch != nil {
		return "batch"
	}
	return "column"
}

var ErrInvalidStep = errors.New("pipeline: invalid step")

func (s Step) validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidStep)
	case s.Batch != nil && s.Column != nil:
		return fmt.Errorf("%w: %q has both batch and column funcs", ErrInvalidStep, s.Name)
	case s.Batch == nil && s.Column == nil:
		return fmt.Errorf("%w: %q has no func", ErrInvalidStep, s.Name)
	case s.Column != nil && len(s.Columns) == 0:
		return fmt.Errorf("%w: %q names no columns", ErrInvalidStep, s.Name)
	}
	return nil
}

// StepError locates a failure. Column is empty for batch steps.
type StepError struct {
	Step   string
	Column string
	Err    error
}

func (e *StepError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("step %q: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %q column %q: %v", e.Step, e.Column, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// StepEvent is reported after each completed step.
type StepEvent struct {
	Index   int
	Step    string
	Kind    string
	Columns []string // columns actually processed
	Elapsed time.Duration
}

type Options struct {
	// Workers bounds how many columns of one step run concurrently. <=1 is sequential.
	Workers int
	OnStep  func(StepEvent)
}

type Pipeline struct {
	name  string
	steps []Step
	opt   Options
}

// New validates steps up front so a bad recipe fails before any data is touched.
func New(name string, opt Options, steps ...Step) (*Pipeline, error) {
	for _, s := range steps {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", name, err)
		}
	}
	return &Pipeline{name: name, steps: append([]Step(nil), steps...), opt: opt}, nil
}

func (p *Pipeline) Name() string  { return p.name }
func (p *Pipeline) Steps() []Step { return append([]Step(nil), p.steps...) }

// WithOptions returns a copy of p running with opt.
func (p *Pipeline) WithOptions(opt Options) *Pipeline {
	cp := *p
	cp.opt = opt
	return &cp
}

// Run applies every step to a copy of b.
func (p *Pipeline) Run(ctx context.Context, b *table.Batch) (*table.Batch, error) {
	cur := b.Clone()
	for i, s := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		var (
			done []string
			err  error
		)
		if s.Batch != nil {
			var nb *table.Batch
			nb, err = s.Batch(cur)
			if err != nil {
				return nil, &StepError{Step: s.Name, Err: err}
			}
			cur = nb
		} else {
			done, err = p.runColumns(s, cur)
			if err != nil {
				return nil, err
			}
		}
		if p.opt.OnStep != nil {
			p.opt.OnStep(StepEvent{Index: i, Step: s.Name, Kind: s.Kind(), Columns: done, Elapsed: time.Since(start)})
		}
	}
	return cur, nil
}

func (p *Pipeline) runColumns(s Step, b *table.Batch) ([]string, error) {
	var cols []table.Column
	for _, name := range s.Columns {
		c, err := b.Column(name)
		if err != nil {
			if s.Optional {
				continue
			}
			return nil, &StepError{Step: s.Name, Column: name, Err: err}
		}
		cols = append(cols, c)
	}

	out := make([]table.Column, len(cols))
	errs := make([]error, len(cols))
	var g errgroup.Group
	g.SetLimit(max(p.opt.Workers, 1))
	for i, c := range cols {
		g.Go(func() error {
			nc, err := s.Column(c)
			if err == nil && nc.Name != c.Name {
				err = fmt.Errorf("column renamed to %q", nc.Name)
			}
			if err != nil {
				errs[i] = err
				return err
			}
			out[i] = nc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// report the first failing column in declaration order
		for i, e := range errs {
			if e != nil {
				return nil, &StepError{Step: s.Name, Column: cols[i].Name, Err: e}
			}
		}
		return nil, err
	}

	names := make([]string, len(out))
	for i, nc := range out {
		if err := b.Replace(nc); err != nil {
			return nil, &StepError{Step: s.Name, Column: nc.Name, Err: err}
		}
		names[i] = nc.Name
	}
	return names, nil
}

// Rename is a batch step applying old->new column renames.
func Rename(m map[string]string) Step {
	return Reshape("rename", func(b *table.Batch) (*table.Batch, error) { return b.Rename(m) })
}

// Drop is a batch step removing columns; every name must exist.
func Drop(names ...string) Step {
	return Reshape("drop", func(b *table.Batch) (*table.Batch, error) { return b.Drop(names...) })
}

// DropEmpty removes all-null columns.
func DropEmpty() Step {
	return Reshape("drop_empty", (*table.Batch).DropEmpty)
}

// CleanColumnNames drops "Unnamed:" columns and snake-cases the rest.
func CleanColumnNames() Step {
	return Reshape("clean_column_names", (*table.Batch).CleanColumnNames)
}
