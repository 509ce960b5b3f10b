// Package normerr defines the batch-fatal errors raised by the normalizers.
//
// Every error carries the offending raw value(s) and, once a column function
// has seen it, the column name. None of them are recoverable: the caller fixes
// the input, a whitelist, a rewrite rule or a reference table and reruns.
package normerr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrFormat               = errors.New("unrecognized format")
	ErrComposition          = errors.New("invalid calendar value")
	ErrWhitelist            = errors.New("value outside whitelist")
	ErrUnmappedCode         = errors.New("unmapped reference code")
	ErrUnrecognizedCategory = errors.New("unrecognized category")
)

// FormatError: a raw value matched no recognized temporal pattern.
type FormatError struct {
	Column string
	Kind   string // date, datetime, time
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("unknown %s format %q", e.Kind, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return prefix(e.Column, msg)
}

func (e *FormatError) Unwrap() error        { return e.Err }
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// CompositionError: decomposed components do not form a real calendar value.
type CompositionError struct {
	Column string
	Value  string
	Err    error
}

func (e *CompositionError) Error() string {
	msg := fmt.Sprintf("cannot compose %q", e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return prefix(e.Column, msg)
}

func (e *CompositionError) Unwrap() error        { return e.Err }
func (e *CompositionError) Is(target error) bool { return target == ErrComposition }

// WhitelistViolation lists every distinct value outside the closed vocabulary.
type WhitelistViolation struct {
	Column string
	Field  string
	Values []string
}

func (e *WhitelistViolation) Error() string {
	return prefix(e.Column, fmt.Sprintf("%s value detected outside of whitelist: %s", e.Field, quoteAll(e.Values)))
}

func (e *WhitelistViolation) Is(target error) bool { return target == ErrWhitelist }

// UnmappedCodeError: reference lookup miss on a non-sentinel code.
type UnmappedCodeError struct {
	Column string
	Table  string
	Codes  []string
}

func (e *UnmappedCodeError) Error() string {
	return prefix(e.Column, fmt.Sprintf("%s codes not in reference table: %s", e.Table, quoteAll(e.Codes)))
}

func (e *UnmappedCodeError) Is(target error) bool { return target == ErrUnmappedCode }

// UnrecognizedCategoryError: exact-match dictionary miss.
type UnrecognizedCategoryError struct {
	Column string
	Field  string
	Values []string
}

func (e *UnrecognizedCategoryError) Error() string {
	return prefix(e.Column, fmt.Sprintf("unrecognized %s values: %s", e.Field, quoteAll(e.Values)))
}

func (e *UnrecognizedCategoryError) Is(target error) bool { return target == ErrUnrecognizedCategory }

// WithColumn stamps column on err if it is one of this package's errors and has no column yet.
func WithColumn(err error, column string) error {
	var (
		fe *FormatError
		ce *CompositionError
		we *WhitelistViolation
		ue *UnmappedCodeError
		re *UnrecognizedCategoryError
	)
	switch {
	case errors.As(err, &fe):
		if fe.Column == "" {
			fe.Column = column
		}
	case errors.As(err, &ce):
		if ce.Column == "" {
			ce.Column = column
		}
	case errors.As(err, &we):
		if we.Column == "" {
			we.Column = column
		}
	case errors.As(err, &ue):
		if ue.Column == "" {
			ue.Column = column
		}
	case errors.As(err, &re):
		if re.Column == "" {
			re.Column = column
		}
	}
	return err
}

func prefix(column, msg string) string {
	if column == "" {
		return msg
	}
	return fmt.Sprintf("column %q: %s", column, msg)
}

func quoteAll(vals []string) string {
	q := make([]string, len(vals))
	for i, v := range vals {
		q[i] = strconv.Quote(v)
	}
	return "[" + strings.Join(q, ", ") + "]"
}
