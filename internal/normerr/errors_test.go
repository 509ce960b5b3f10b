package normerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"format", &FormatError{Kind: "date", Value: "x"}, ErrFormat},
		{"composition", &CompositionError{Value: "2005-13-01"}, ErrComposition},
		{"whitelist", &WhitelistViolation{Field: "race", Values: []string{"martian"}}, ErrWhitelist},
		{"unmapped", &UnmappedCodeError{Table: "beat", Codes: []string{"9999"}}, ErrUnmappedCode},
		{"category", &UnrecognizedCategoryError{Field: "finding", Values: []string{"maybe"}}, ErrUnrecognizedCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("step: %w", tt.err)
			if !errors.Is(wrapped, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.target)
			}
		})
	}
}

func TestWithColumn(t *testing.T) {
	err := WithColumn(&WhitelistViolation{Field: "race", Values: []string{"martian", "venusian"}}, "subject_race")
	got := err.Error()
	for _, want := range []string{`column "subject_race"`, `"martian"`, `"venusian"`} {
		if !strings.Contains(got, want) {
			t.Errorf("error %q missing %q", got, want)
		}
	}

	// an existing column is kept
	err = WithColumn(&FormatError{Column: "a", Kind: "date", Value: "x"}, "b")
	if !strings.Contains(err.Error(), `column "a"`) {
		t.Errorf("column overwritten: %v", err)
	}
}

func TestOffendersSorted(t *testing.T) {
	o := Offenders{}
	for _, v := range []string{"b", "a", "b", "c"} {
		o.Add(v)
	}
	got := strings.Join(o.Sorted(), ",")
	if got != "a,b,c" {
		t.Errorf("Sorted() = %q, want a,b,c", got)
	}
}
