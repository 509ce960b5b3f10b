package table

import (
	"math"
	"strconv"
	"strings"
)

type Kind int

const (
	Null Kind = iota
	Text
	Number
	Bool
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Bool:
		return "bool"
	default:
		return "null"
	}
}

// Value is one raw cell. Absent, empty and null are the same state: Kind == Null.
// An inferred Number keeps its source text in s and renders it unchanged.
type Value struct {
	kind Kind
	s    string
	f    float64
	b    bool
}

func NullValue() Value { return Value{} }

// TextValue returns a Null value for "".
func TextValue(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: Text, s: s}
}

// NumberValue returns a Null value for NaN (null-padded numeric columns).
func NumberValue(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: Number, f: f}
}

// IntValue is an integral Number that renders as its decimal digits.
func IntValue(n int64) Value {
	return Value{kind: Number, s: strconv.FormatInt(n, 10), f: float64(n)}
}

func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == Null }
func (v Value) Float() float64 { return v.f }
func (v Value) Bool() bool     { return v.b }

// IsIntegral reports whether v is a Number with no fractional part.
func (v Value) IsIntegral() bool {
	return v.kind == Number && !math.IsInf(v.f, 0) && v.f == math.Trunc(v.f)
}

// Int returns v as an int64 when v is an integral Number in int64 range.
// Numbers read from text are parsed from that text so long IDs stay exact.
func (v Value) Int() (int64, bool) {
	if !v.IsIntegral() || math.Abs(v.f) >= 1<<63 {
		return 0, false
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64); err == nil {
		return n, true
	}
	return int64(v.f), true
}

// String renders v as text. Null is "", whole numbers have no ".0" suffix and
// inferred numbers come back exactly as read.
func (v Value) String() string {
	switch v.kind {
	case Text:
		return v.s
	case Number:
		if v.s != "" {
			return v.s
		}
		if v.IsIntegral() && math.Abs(v.f) < 1e18 {
			return strconv.FormatInt(int64(v.f), 10)
		}
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case Bool:
		if v.b {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// Equal compares Numbers by value, ignoring their source text.
func (v Value) Equal(o Value) bool {
	if v.kind == Number && o.kind == Number {
		return v.f == o.f
	}
	return v.kind == o.kind && v.s == o.s && v.f == o.f && v.b == o.b
}

// Infer turns a raw text cell into a Value, recognizing plain numbers.
func Infer(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}
	}
	if looksNumeric(s) {
		if v, ok := ParseNumber(raw); ok {
			return v
		}
	}
	return TextValue(raw)
}

// ParseNumber reads raw as a Number that renders back as raw. NaN and values
// out of float64 range are rejected.
func ParseNumber(raw string) (Value, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return Value{}, false
	}
	return Value{kind: Number, s: raw, f: f}, true
}

// Zero-padded codes ("0930", "007") stay text.
func looksNumeric(s string) bool {
	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
		return false
	}
	digits := 0
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !dot:
			dot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			return false
		}
	}
	return digits > 0
}
