// Package recipes declares the cleaning step sequence for each known dataset.
//
// A recipe is data: an ordered list of pipeline steps naming the columns each
// normalizer applies to. Building a recipe binds it to the loaded reference
// tables, the active rule set and any vocabulary overrides.
package recipes

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"pdclean/internal/categorical"
	"pdclean/internal/numeric"
	"pdclean/internal/pipeline"
	"pdclean/internal/refs"
	"pdclean/internal/rules"
	"pdclean/internal/table"
	"pdclean/internal/temporal"
)

var (
	ErrUnknownRecipe = errors.New("recipes: unknown recipe")
	ErrNoRefs        = errors.New("recipes: reference tables required")
)

// Env is what a recipe is built against. Rules defaults to rules.Defaults().
type Env struct {
	Refs      *refs.Registry
	Rules     *rules.Set
	Overrides Overrides
}

type Recipe struct {
	Name        string
	Description string
	// NeedsRefs is true when the recipe performs reference lookups.
	NeedsRefs bool
	steps     func(b *builder) []pipeline.Step
}

// Build binds r to env and returns a ready pipeline.
func (r Recipe) Build(env Env, opt pipeline.Options) (*pipeline.Pipeline, error) {
	if env.Rules == nil {
		env.Rules = rules.Defaults()
	}
	b := &builder{recipe: r.Name, env: env}
	steps := r.steps(b)
	if b.err != nil {
		return nil, fmt.Errorf("recipe %q: %w", r.Name, b.err)
	}
	return pipeline.New(r.Name, opt, steps...)
}

var registry = map[string]Recipe{}

func register(r Recipe) {
	if _, dup := registry[r.Name]; dup {
		panic("recipes: duplicate recipe " + r.Name)
	}
	registry[r.Name] = r
}

// Names lists the registered recipes in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func Lookup(name string) (Recipe, error) {
	r, ok := registry[name]
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownRecipe, name, strings.Join(Names(), ", "))
	}
	return r, nil
}

// builder collects the first error hit while declaring steps so the recipe
// bodies stay a flat list.
type builder struct {
	recipe string
	env    Env
	err    error
}

func (b *builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *builder) cascade(name string) *rules.Cascade {
	c, err := b.env.Rules.Cascade(name)
	if err != nil {
		b.fail(err)
	}
	return c
}

func (b *builder) refs() *refs.Registry {
	if b.env.Refs == nil {
		b.fail(ErrNoRefs)
		return &refs.Registry{}
	}
	return b.env.Refs
}

func (b *builder) races(cols ...string) pipeline.Step {
	c, w := b.cascade(rules.RaceCascade), b.env.Rules.Whitelist(rules.RaceCascade)
	return pipeline.Columns("clean_races", func(col table.Column) (table.Column, error) {
		return categorical.Canonicalize(col, c, w)
	}, cols...)
}

func (b *builder) genders(cols ...string) pipeline.Step {
	c, w := b.cascade(rules.GenderCascade), b.env.Rules.Whitelist(rules.GenderCascade)
	return pipeline.Columns("clean_genders", func(col table.Column) (table.Column, error) {
		return categorical.Canonicalize(col, c, w)
	}, cols...)
}

func (b *builder) bools(cols ...string) pipeline.Step {
	c := b.cascade(rules.BoolCascade)
	return pipeline.Columns("ensure_bool", func(col table.Column) (table.Column, error) {
		return categorical.EnsureBoolWith(col, c)
	}, cols...)
}

// title and upper take default choices (nil: no check) which an override for
// this recipe and column replaces.
func (b *builder) title(col string, choices ...string) pipeline.Step {
	choices = b.env.Overrides.choices(b.recipe, "title", col, choices)
	return pipeline.Columns("title:"+col, func(c table.Column) (table.Column, error) {
		return categorical.TitleCase(c, choices)
	}, col)
}

func (b *builder) upper(col string, choices ...string) pipeline.Step {
	choices = b.env.Overrides.choices(b.recipe, "upper", col, choices)
	return pipeline.Columns("upper:"+col, func(c table.Column) (table.Column, error) {
		return categorical.UpperCase(c, choices)
	}, col)
}

func (b *builder) lookupUnit(cols ...string) pipeline.Step {
	return pipeline.Columns("lookup_unit", b.refs().Unit.LookupColumn, cols...)
}

func (b *builder) lookupBeat(cols ...string) pipeline.Step {
	return pipeline.Columns("lookup_beat", b.refs().Beat.LookupColumn, cols...)
}

func (b *builder) lookupCategory(cols ...string) pipeline.Step {
	return pipeline.Columns("lookup_category", b.refs().Category.LookupColumn, cols...)
}

func dates(cols ...string) pipeline.Step {
	return pipeline.Columns("clean_dates", temporal.CleanDates, cols...)
}

func datetimes(cols ...string) pipeline.Step {
	return pipeline.Columns("clean_datetimes", temporal.CleanDatetimes, cols...)
}

func times(layout string, cols ...string) pipeline.Step {
	return pipeline.Columns("clean_times", func(c table.Column) (table.Column, error) {
		return temporal.CleanTimes(c, layout)
	}, cols...)
}

func layoutDatetimes(layout string, cols ...string) pipeline.Step {
	return pipeline.Columns("clean_layout_datetimes", func(c table.Column) (table.Column, error) {
		return temporal.CleanLayoutDatetimes(c, layout)
	}, cols...)
}

func ensureInt(cols ...string) pipeline.Step {
	return pipeline.Columns("ensure_int", func(c table.Column) (table.Column, error) {
		return numeric.EnsureInt(c), nil
	}, cols...)
}

// floatToIntStr skips absent columns.
func floatToIntStr(cols ...string) pipeline.Step {
	return pipeline.OptionalColumns("float_to_int_str", func(c table.Column) (table.Column, error) {
		return numeric.FloatToIntStr(c, false), nil
	}, cols...)
}

func direction(cols ...string) pipeline.Step {
	return pipeline.Columns("clean_direction", categorical.CleanDirection, cols...)
}

func finding(cols ...string) pipeline.Step {
	return pipeline.Columns("clean_finding", categorical.CleanFinding, cols...)
}

// cleanTable is the common complaint-table prelude: snake-case headers, drop
// empty columns, rename log_no to crid and strip dashes from it.
func cleanTable() []pipeline.Step {
	return []pipeline.Step{
		pipeline.CleanColumnNames(),
		pipeline.DropEmpty(),
		pipeline.Rename(map[string]string{"log_no": "crid"}),
		pipeline.Columns("strip_crid", stripDashes, "crid"),
	}
}

func stripDashes(c table.Column) (table.Column, error) {
	return c.Map(func(v table.Value) table.Value {
		if v.IsNull() {
			return v
		}
		return table.TextValue(strings.ReplaceAll(v.String(), "-", ""))
	}), nil
}
