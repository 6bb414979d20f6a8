package unit

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ISO8601 selects strict ISO 8601 parsing in Date.Layout.
const ISO8601 = "iso8601"

// gregorianLayouts are tried, in order, for free form dates.
var gregorianLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	time.RFC822,
	time.UnixDate,
	time.ANSIC,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"2006-01-02 15:04:05",
	"January 2, 2006 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// Date is the calendar axis. One native step is a millisecond.
//
// Layout controls parsing: ISO8601 only accepts ISO 8601 strings, an empty
// Layout accepts ISO 8601 and falls back to gregorian forms (bare years such
// as "1850" or "44 BC" and the common textual layouts), any other value is
// used as a time.Parse layout.
type Date struct {
	Layout string
}

var _ Unit[time.Time] = Date{}

func (r Date) Compare(a, b time.Time) int       { return a.Compare(b) }
func (r Date) Earlier(a, b time.Time) time.Time { return earlier[time.Time](r, a, b) }
func (r Date) Later(a, b time.Time) time.Time   { return later[time.Time](r, a, b) }
func (r Date) ToNumber(v time.Time) float64     { return float64(v.UnixMilli()) }
func (r Date) FromNumber(n float64) time.Time   { return time.UnixMilli(int64(n)).UTC() }
func (r Date) Change(v time.Time, n float64) time.Time {
	return v.Add(time.Duration(n * float64(time.Millisecond)))
}

func (r Date) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(r.Layout) {
	case ISO8601, "iso 8601":
		return ParseISO8601(s)
	case "":
		if t, err := ParseISO8601(s); err == nil {
			return t, nil
		}
		return ParseGregorian(s)
	}
	t, err := time.Parse(r.Layout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q", s)
	}
	return t, nil
}

func (r Date) Format(v time.Time) string {
	switch strings.ToLower(r.Layout) {
	case ISO8601, "iso 8601", "":
		return v.UTC().Format(time.RFC3339Nano)
	}
	return v.Format(r.Layout)
}

// ParseGregorian parses a bare year, optionally suffixed by "BC", when s is
// shorter than 8 characters and otherwise tries the common textual layouts.
// Year n BC maps to the astronomical year 1-n.
func ParseGregorian(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if len(s) < 8 {
		yearStr, suffix, _ := strings.Cut(s, " ")
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return time.Time{}, errors.Wrapf(err, "invalid year %q", s)
		}
		switch strings.ToLower(strings.TrimSpace(suffix)) {
		case "":
		case "bc":
			year = 1 - year
		default:
			return time.Time{}, errors.Errorf("invalid year suffix in %q", s)
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	for _, layout := range gregorianLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date %q", s)
}
