package temporal

import (
	"pdclean/internal/normerr"
	"pdclean/internal/table"
)

// CleanDates replaces every cell with its ISO date. Nulls stay null.
func CleanDates(col table.Column) (table.Column, error) {
	return mapText(col, func(s string) (string, error) {
		d, err := ParseDate(s)
		if err != nil {
			return "", err
		}
		return d.ISO()
	})
}

// CleanDatetimes replaces every cell with "YYYY-MM-DD HH:MM:SS".
func CleanDatetimes(col table.Column) (table.Column, error) {
	return mapText(col, func(s string) (string, error) {
		dt, err := ParseDatetime(s)
		if err != nil {
			return "", err
		}
		return dt.ISO()
	})
}

// CleanTimes replaces every cell with "HH:MM:SS" parsed using layout.
func CleanTimes(col table.Column, layout string) (table.Column, error) {
	return mapText(col, func(s string) (string, error) {
		return ParseClockTime(s, layout)
	})
}

// CleanLayoutDatetimes parses every cell with one fixed layout and re-emits it
// as "YYYY-MM-DD HH:MM:SS".
func CleanLayoutDatetimes(col table.Column, layout string) (table.Column, error) {
	return mapText(col, func(s string) (string, error) {
		t, err := ParseLayout(s, layout)
		if err != nil || t.IsZero() {
			return "", err
		}
		return t.Format(ISODatetime), nil
	})
}

// mapText applies fn to the text of every non-null cell and stops at the first error.
func mapText(col table.Column, fn func(string) (string, error)) (table.Column, error) {
	out := make([]table.Value, len(col.Values))
	for i, v := range col.Values {
		if v.IsNull() {
			continue
		}
		s, err := fn(v.String())
		if err != nil {
			return table.Column{}, normerr.WithColumn(err, col.Name)
		}
		out[i] = table.TextValue(s)
	}
	return table.Column{Name: col.Name, Values: out}, nil
}
