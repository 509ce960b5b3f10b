// Package numeric coerces columns that are logically integers but arrive as
// fractional or mixed-type values (typically after null padding upstream).
package numeric

import (
	"math"
	"strconv"
	"strings"

	"pdclean/internal/table"
)

// FloatToIntStr renders Number cells as integer text without a fractional
// suffix: [1973.0, null, "abc"] -> ["1973", "", "abc"]. A null number and the
// number 0 both become the no-value sentinel. Text cells are left alone; with
// stringify, Bool cells are rendered as text too. Numbers outside int64 range
// keep their decimal text.
func FloatToIntStr(col table.Column, stringify bool) table.Column {
	return col.Map(func(v table.Value) table.Value {
		switch v.Kind() {
		case table.Number:
			n, ok := v.Int()
			if !ok {
				f := math.Trunc(v.Float())
				if math.IsInf(f, 0) || math.Abs(f) >= 1<<63 {
					return table.TextValue(v.String())
				}
				n = int64(f)
			}
			if n == 0 {
				return table.NullValue()
			}
			return table.TextValue(strconv.FormatInt(n, 10))
		case table.Bool:
			if stringify {
				return table.TextValue(v.String())
			}
		}
		return v
	})
}

// EnsureInt truncates Number cells and numeric-looking text ("12.0") to
// integral Numbers. Nulls and other cells pass through, as does text that only
// parses as NaN or infinity.
func EnsureInt(col table.Column) table.Column {
	return col.Map(func(v table.Value) table.Value {
		switch v.Kind() {
		case table.Number:
			if n, ok := v.Int(); ok {
				return table.IntValue(n)
			}
			return table.NumberValue(math.Trunc(v.Float()))
		case table.Text:
			s := strings.TrimSpace(v.String())
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return table.IntValue(n)
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
				return v
			}
			return table.NumberValue(math.Trunc(f))
		}
		return v
	})
}
