// Package temporal resolves the date, datetime and clock-time surface formats
// found in the source exports into decomposed components and canonical ISO values.
//
// Only the formats listed in recognizers are accepted. Anything else is a
// *normerr.FormatError; nothing is guessed.
package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pdclean/internal/normerr"
)

// Date is a decomposed date. Any component may be empty; all empty means "no date".
type Date struct {
	Year  string
	Month string
	Day   string
}

func (d Date) IsZero() bool { return d.Year == "" && d.Month == "" && d.Day == "" }

func (d Date) String() string {
	return strings.Join([]string{d.Year, d.Month, d.Day}, "-")
}

// Format identifies one recognized surface format.
type Format int

const (
	FormatMDY4  Format = iota // 1/2/2005
	FormatMDY2                // 1/2/05
	FormatDMonY2              // 2-Jan-05
	FormatYMonD               // 2005-Jan-02
	FormatYM                  // 200501
	FormatY                   // 2005
	FormatMonD                // Jan-02
)

var formatNames = [...]string{"M/D/YYYY", "M/D/YY", "D-Mon-YY", "YYYY-Mon-DD", "YYYYMM", "YYYY", "Mon-D"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "format(" + strconv.Itoa(int(f)) + ")"
}

type recognizer struct {
	format Format
	re     *regexp.Regexp
	build  func(m []string) (Date, bool)
}

// recognizers are tried in order; the patterns are mutually exclusive and the
// order is part of the contract.
var recognizers = []recognizer{
	{FormatMDY4, regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), func(m []string) (Date, bool) {
		return Date{Year: m[3], Month: m[1], Day: m[2]}, true
	}},
	{FormatMDY2, regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`), func(m []string) (Date, bool) {
		return Date{Year: InferCentury(m[3]), Month: m[1], Day: m[2]}, true
	}},
	{FormatDMonY2, regexp.MustCompile(`^(\d{1,2})-([a-z]{3})-(\d{2})$`), func(m []string) (Date, bool) {
		mon, ok := monthNumber(m[2])
		if !ok {
			return Date{}, false
		}
		return Date{Year: InferCentury(m[3]), Month: strconv.Itoa(mon), Day: m[1]}, true
	}},
	{FormatYMonD, regexp.MustCompile(`^(\d{4})-([a-z]{3})-(\d{2})$`), func(m []string) (Date, bool) {
		mon, ok := monthNumber(m[2])
		if !ok {
			return Date{}, false
		}
		return Date{Year: m[1], Month: strconv.Itoa(mon), Day: m[3]}, true
	}},
	{FormatYM, regexp.MustCompile(`^((?:19|20)\d{2})(\d{2})$`), func(m []string) (Date, bool) {
		return Date{Year: m[1], Month: m[2]}, true
	}},
	{FormatY, regexp.MustCompile(`^((?:19|20)\d{2})$`), func(m []string) (Date, bool) {
		return Date{Year: m[1]}, true
	}},
	{FormatMonD, regexp.MustCompile(`^([a-z]{3})-(\d{1,2})$`), func(m []string) (Date, bool) {
		mon, ok := monthNumber(m[1])
		if !ok {
			return Date{}, false
		}
		day, _ := strconv.Atoi(m[2])
		return Date{Month: fmt.Sprintf("%02d", mon), Day: fmt.Sprintf("%02d", day)}, true
	}},
}

// InferCentury expands a two-digit year. Leading digit 0, 1 or 2 means 20xx,
// anything else 19xx. This matches the birth and record years seen in the
// corpus (1930-2029) and is not a general rule.
func InferCentury(yy string) string {
	if yy == "" {
		return yy
	}
	switch yy[0] {
	case '0', '1', '2':
		return "20" + yy
	default:
		return "19" + yy
	}
}

var monthAbbr = [...]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

func monthNumber(abbr string) (int, bool) {
	abbr = strings.ToLower(abbr)
	for i, m := range monthAbbr {
		if m == abbr {
			return i + 1, true
		}
	}
	return 0, false
}

// prepareDate trims, lower-cases and blanks the literal "redacted".
func prepareDate(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "redacted" {
		return ""
	}
	return s
}

// ParseDate decomposes raw using the first matching recognizer.
// Empty input (after preparation) yields the zero Date.
func ParseDate(raw string) (Date, error) {
	d, _, err := parseDate(raw)
	return d, err
}

// RecognizeDate is ParseDate that also reports which format matched.
func RecognizeDate(raw string) (Date, Format, error) {
	return parseDate(raw)
}

func parseDate(raw string) (Date, Format, error) {
	s := prepareDate(raw)
	if s == "" {
		return Date{}, -1, nil
	}
	for _, r := range recognizers {
		m := r.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		d, ok := r.build(m)
		if !ok {
			return Date{}, r.format, &normerr.FormatError{Kind: "date", Value: raw, Err: fmt.Errorf("bad month name in %s", r.format)}
		}
		return d, r.format, nil
	}
	return Date{}, -1, &normerr.FormatError{Kind: "date", Value: raw}
}

// FormatDate renders d in surface format f. It is the inverse of ParseDate for
// dates expressible in f.
func FormatDate(d Date, f Format) (string, error) {
	mon := func() (string, error) {
		n, err := strconv.Atoi(d.Month)
		if err != nil || n < 1 || n > 12 {
			return "", fmt.Errorf("month %q has no name", d.Month)
		}
		return strings.ToUpper(monthAbbr[n-1][:1]) + monthAbbr[n-1][1:], nil
	}
	switch f {
	case FormatMDY4:
		return d.Month + "/" + d.Day + "/" + d.Year, nil
	case FormatMDY2:
		if len(d.Year) != 4 {
			return "", fmt.Errorf("year %q is not four digits", d.Year)
		}
		return d.Month + "/" + d.Day + "/" + d.Year[2:], nil
	case FormatDMonY2:
		m, err := mon()
		if err != nil || len(d.Year) != 4 {
			return "", fmt.Errorf("date %s not expressible as %s", d, f)
		}
		return d.Day + "-" + m + "-" + d.Year[2:], nil
	case FormatYMonD:
		m, err := mon()
		if err != nil {
			return "", err
		}
		return d.Year + "-" + m + "-" + d.Day, nil
	case FormatYM:
		return d.Year + d.Month, nil
	case FormatY:
		return d.Year, nil
	case FormatMonD:
		m, err := mon()
		if err != nil {
			return "", err
		}
		return m + "-" + d.Day, nil
	}
	return "", fmt.Errorf("unknown format %d", f)
}

// ints converts the present components; missing ones are 0.
func (d Date) ints() (y, m, dd int, err error) {
	conv := func(s string) (int, error) {
		if s == "" {
			return 0, nil
		}
		return strconv.Atoi(s)
	}
	if y, err = conv(d.Year); err != nil {
		return
	}
	if m, err = conv(d.Month); err != nil {
		return
	}
	dd, err = conv(d.Day)
	return
}

func validCalendar(y, m, d int) bool {
	if m < 1 || m > 12 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == m && t.Day() == d
}

func (d Date) composeErr(format string, args ...any) error {
	return &normerr.CompositionError{Value: d.String(), Err: fmt.Errorf(format, args...)}
}

// ISO renders d at the precision it carries: YYYY-MM-DD, YYYY-MM, YYYY, or
// --MM-DD when there is no year. The zero Date renders as "".
func (d Date) ISO() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	y, m, dd, err := d.ints()
	if err != nil {
		return "", d.composeErr("non-numeric component: %v", err)
	}
	switch {
	case d.Year != "" && d.Month != "" && d.Day != "":
		if !validCalendar(y, m, dd) {
			return "", d.composeErr("no such day")
		}
		return fmt.Sprintf("%04d-%02d-%02d", y, m, dd), nil
	case d.Year != "" && d.Month != "" && d.Day == "":
		if m < 1 || m > 12 {
			return "", d.composeErr("month out of range")
		}
		return fmt.Sprintf("%04d-%02d", y, m), nil
	case d.Year != "" && d.Month == "" && d.Day == "":
		return fmt.Sprintf("%04d", y), nil
	case d.Year == "" && d.Month != "" && d.Day != "":
		// 2000 is a leap year, so Feb 29 is accepted without a year.
		if !validCalendar(2000, m, dd) {
			return "", d.composeErr("no such day")
		}
		return fmt.Sprintf("--%02d-%02d", m, dd), nil
	}
	return "", d.composeErr("incomplete date")
}

// Time composes d into a calendar date. A year is required; a missing month
// or day defaults to 1.
func (d Date) Time() (time.Time, error) {
	if d.Year == "" {
		return time.Time{}, d.composeErr("year missing")
	}
	if d.Month == "" && d.Day != "" {
		return time.Time{}, d.composeErr("day without month")
	}
	y, m, dd, err := d.ints()
	if err != nil {
		return time.Time{}, d.composeErr("non-numeric component: %v", err)
	}
	if m == 0 {
		m = 1
	}
	if dd == 0 {
		dd = 1
	}
	if !validCalendar(y, m, dd) {
		return time.Time{}, d.composeErr("no such day")
	}
	return time.Date(y, time.Month(m), dd, 0, 0, 0, 0, time.UTC), nil
}
