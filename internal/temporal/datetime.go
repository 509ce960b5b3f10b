package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pdclean/internal/normerr"
)

const (
	ISODate     = "2006-01-02"
	ISODatetime = "2006-01-02 15:04:05"
	ISOClock    = "15:04:05"

	// DefaultClockLayout is the 12-hour form most exports use ("09:30 PM").
	DefaultClockLayout = "03:04 PM"

	// TRRLayout is the use-of-force report timestamp ("2004-Jan-12 2130").
	TRRLayout = "2006-Jan-02 1504"
)

// Datetime always carries a full date and time, or nothing.
type Datetime struct {
	Date
	Hour   string
	Minute string
}

func (dt Datetime) IsZero() bool { return dt.Date.IsZero() && dt.Hour == "" && dt.Minute == "" }

var datetimePattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\s+(\d{1,2}):(\d{1,2})$`)

// ParseDatetime accepts only "M/D/Y H:M"; the date part goes through ParseDate.
func ParseDatetime(raw string) (Datetime, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Datetime{}, nil
	}
	m := datetimePattern.FindStringSubmatch(s)
	if m == nil {
		return Datetime{}, &normerr.FormatError{Kind: "datetime", Value: raw}
	}
	d, err := ParseDate(m[1])
	if err != nil {
		return Datetime{}, &normerr.FormatError{Kind: "datetime", Value: raw, Err: err}
	}
	return Datetime{Date: d, Hour: m[2], Minute: m[3]}, nil
}

// Time composes dt, rejecting impossible dates and clock values.
func (dt Datetime) Time() (time.Time, error) {
	if dt.Date.Year == "" || dt.Date.Month == "" || dt.Date.Day == "" {
		return time.Time{}, &normerr.CompositionError{Value: dt.String(), Err: fmt.Errorf("incomplete date")}
	}
	day, err := dt.Date.Time()
	if err != nil {
		return time.Time{}, err
	}
	h, herr := strconv.Atoi(dt.Hour)
	mi, merr := strconv.Atoi(dt.Minute)
	if herr != nil || merr != nil || h < 0 || h > 23 || mi < 0 || mi > 59 {
		return time.Time{}, &normerr.CompositionError{Value: dt.String(), Err: fmt.Errorf("no such clock time")}
	}
	return day.Add(time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute), nil
}

// ISO renders "YYYY-MM-DD HH:MM:SS"; the zero Datetime renders as "".
func (dt Datetime) ISO() (string, error) {
	if dt.IsZero() {
		return "", nil
	}
	t, err := dt.Time()
	if err != nil {
		return "", err
	}
	return t.Format(ISODatetime), nil
}

func (dt Datetime) String() string {
	return dt.Date.String() + " " + dt.Hour + ":" + dt.Minute
}

var (
	singleHourDigit = regexp.MustCompile(`^(\d):`)
	bareHHMM        = regexp.MustCompile(`^(\d{2})(\d{2})`)
)

// ParseClockTime normalizes "9:30 PM" and "2130"-style prefixes, parses the
// result with layout (DefaultClockLayout when empty) and returns "HH:MM:SS".
// Empty input returns "".
func ParseClockTime(raw, layout string) (string, error) {
	if layout == "" {
		layout = DefaultClockLayout
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}
	s = singleHourDigit.ReplaceAllString(s, "0${1}:")
	s = bareHHMM.ReplaceAllString(s, "${1}:${2}")
	// time.Parse only accepts upper-case AM/PM for the "PM" layout element.
	if strings.Contains(layout, "PM") {
		s = strings.ToUpper(s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", &normerr.FormatError{Kind: "time", Value: raw, Err: err}
	}
	return t.Format(ISOClock), nil
}

// ParseLayout parses raw with a fixed Go layout, for sources that use one
// known timestamp form throughout (e.g. TRRLayout).
func ParseLayout(raw, layout string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, &normerr.FormatError{Kind: "datetime", Value: raw, Err: err}
	}
	return t, nil
}
