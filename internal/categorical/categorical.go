// Package categorical canonicalizes free-text categorical columns (race, gender,
// findings, directions, controlled vocabularies) and enforces their whitelists.
//
// Every function takes a whole column and returns a new one. Whitelist checks
// look at the fully rewritten column and report every distinct offender at once.
package categorical

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"pdclean/internal/normerr"
	"pdclean/internal/rules"
	"pdclean/internal/table"
)

// fold is the common pre-cascade form: NFKC, trimmed, lower-cased.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// Canonicalize folds each value, runs the cascade and checks the result against
// w. A nil whitelist skips the check. Null input is treated as "".
func Canonicalize(col table.Column, c *rules.Cascade, w rules.Whitelist) (table.Column, error) {
	out := make([]table.Value, len(col.Values))
	bad := normerr.Offenders{}
	for i, v := range col.Values {
		s := c.Apply(fold(v.String()))
		if w != nil && !w.Contains(s) {
			bad.Add(s)
		}
		out[i] = table.TextValue(s)
	}
	if !bad.Empty() {
		return table.Column{}, &normerr.WhitelistViolation{Column: col.Name, Field: c.Name(), Values: bad.Sorted()}
	}
	return table.Column{Name: col.Name, Values: out}, nil
}

func CleanRaces(col table.Column) (table.Column, error) {
	return Canonicalize(col, rules.Race, rules.RaceWhitelist)
}

func CleanGenders(col table.Column) (table.Column, error) {
	return Canonicalize(col, rules.Gender, rules.GenderWhitelist)
}

// EnsureBool maps n/no to F and y/yes to T, upper-casing everything else.
// Null counts as "f".
func EnsureBool(col table.Column) (table.Column, error) {
	return EnsureBoolWith(col, rules.Bool)
}

// EnsureBoolWith is EnsureBool with a caller-supplied cascade.
func EnsureBoolWith(col table.Column, c *rules.Cascade) (table.Column, error) {
	filled := col.Map(func(v table.Value) table.Value {
		if v.IsNull() {
			return table.TextValue("f")
		}
		return v
	})
	return Canonicalize(filled, c, nil)
}

// CleanFinding maps exact finding names to their two-letter codes. There is no
// partial matching: any other non-null value is an error.
func CleanFinding(col table.Column) (table.Column, error) {
	return lookup(col, "finding", rules.Findings, fold)
}

// CleanDirection expands W, E, S, N to the full word.
func CleanDirection(col table.Column) (table.Column, error) {
	return lookup(col, "direction", rules.Directions, strings.TrimSpace)
}

func lookup(col table.Column, field string, dict map[string]string, key func(string) string) (table.Column, error) {
	out := make([]table.Value, len(col.Values))
	bad := normerr.Offenders{}
	for i, v := range col.Values {
		if v.IsNull() {
			continue
		}
		code, ok := dict[key(v.String())]
		if !ok {
			bad.Add(v.String())
			continue
		}
		out[i] = table.TextValue(code)
	}
	if !bad.Empty() {
		return table.Column{}, &normerr.UnrecognizedCategoryError{Column: col.Name, Field: field, Values: bad.Sorted()}
	}
	return table.Column{Name: col.Name, Values: out}, nil
}

// TitleCase trims and title-cases each value. Empty results are null. When
// choices is non-nil every non-null result must be one of them.
func TitleCase(col table.Column, choices []string) (table.Column, error) {
	return recase(col, cases.Title(language.Und), choices)
}

// UpperCase is TitleCase with upper-casing.
func UpperCase(col table.Column, choices []string) (table.Column, error) {
	return recase(col, cases.Upper(language.Und), choices)
}

func recase(col table.Column, c cases.Caser, choices []string) (table.Column, error) {
	var allowed rules.Whitelist
	if choices != nil {
		allowed = rules.NewWhitelist(choices...)
	}
	out := make([]table.Value, len(col.Values))
	bad := normerr.Offenders{}
	for i, v := range col.Values {
		s := c.String(strings.TrimSpace(v.String()))
		if s == "" {
			continue
		}
		if allowed != nil && !allowed.Contains(s) {
			bad.Add(s)
		}
		out[i] = table.TextValue(s)
	}
	if !bad.Empty() {
		return table.Column{}, &normerr.WhitelistViolation{Column: col.Name, Field: col.Name, Values: bad.Sorted()}
	}
	return table.Column{Name: col.Name, Values: out}, nil
}
