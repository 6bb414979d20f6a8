package unit

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	isoDateRegexp = regexp.MustCompile(`^(-?)(\d{4})(?:-?(\d{2})(?:-?(\d{2}))?|-?(\d{3})|-?W(\d{2})(?:-?([1-7]))?)?$`)
	isoTimeRegexp = regexp.MustCompile(`^(\d{2})(?::?(\d{2})(?::?(\d{2})(?:[.,](\d+))?)?)?$`)
	isoZoneRegexp = regexp.MustCompile(`(?:Z|([+-])(\d{2})(?::?(\d{2}))?)$`)
)

// ParseISO8601 parses calendar (2006-01-02), ordinal (2006-002) and week
// (2006-W01-1) dates with an optional time of day separated by "T" or a
// space. Values without a zone designator are taken as UTC.
func ParseISO8601(s string) (time.Time, error) {
	datePart, timePart, hasTime := strings.Cut(s, "T")
	if !hasTime {
		datePart, timePart, hasTime = strings.Cut(s, " ")
	}

	year, month, day, err := parseISODate(datePart)
	if err != nil {
		return time.Time{}, err
	}
	if !hasTime {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
	}

	loc := time.UTC
	if zone := isoZoneRegexp.FindStringSubmatch(timePart); zone != nil {
		if zone[0] != "Z" {
			hh, _ := strconv.Atoi(zone[2])
			mm, _ := strconv.Atoi(zone[3])
			offset := hh*3600 + mm*60
			if zone[1] == "-" {
				offset = -offset
			}
			loc = time.FixedZone("", offset)
		}
		timePart = strings.TrimSuffix(timePart, zone[0])
	}

	m := isoTimeRegexp.FindStringSubmatch(timePart)
	if m == nil {
		return time.Time{}, errors.Errorf("invalid time %q", timePart)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	nsec := 0
	if m[4] != "" {
		frac := (m[4] + "000000000")[:9]
		nsec, _ = strconv.Atoi(frac)
	}
	if hour > 24 || minute > 59 || sec > 60 {
		return time.Time{}, errors.Errorf("invalid time %q", timePart)
	}
	// 24:00 is the end of the day, nothing later
	if hour == 24 && (minute != 0 || sec != 0 || nsec != 0) {
		return time.Time{}, errors.Errorf("invalid time %q", timePart)
	}
	return time.Date(year, month, day, hour, minute, sec, nsec, loc), nil
}

func parseISODate(s string) (int, time.Month, int, error) {
	m := isoDateRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, errors.Errorf("invalid date %q", s)
	}
	year, _ := strconv.Atoi(m[2])
	if m[1] == "-" {
		year = -year
	}

	switch {
	case m[5] != "":
		// ordinal date, time.Date normalizes the day overflow
		yday, _ := strconv.Atoi(m[5])
		if yday < 1 || yday > time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() {
			return 0, 0, 0, errors.Errorf("invalid day of year in %q", s)
		}
		return year, time.January, yday, nil
	case m[6] != "":
		week, _ := strconv.Atoi(m[6])
		if week < 1 || week > weeksIn(year) {
			return 0, 0, 0, errors.Errorf("invalid week in %q", s)
		}
		dow := 1
		if m[7] != "" {
			dow, _ = strconv.Atoi(m[7])
		}
		// week 1 is the week holding January 4th
		jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
		isoDow := int(jan4.Weekday())
		if isoDow == 0 {
			isoDow = 7
		}
		return year, time.January, 4 - (isoDow - 1) + 7*(week-1) + (dow - 1), nil
	}

	month, day := 1, 1
	if m[3] != "" {
		month, _ = strconv.Atoi(m[3])
		if month < 1 || month > 12 {
			return 0, 0, 0, errors.Errorf("invalid month in %q", s)
		}
	}
	if m[4] != "" {
		day, _ = strconv.Atoi(m[4])
		if day < 1 || day > daysIn(year, time.Month(month)) {
			return 0, 0, 0, errors.Errorf("invalid day in %q", s)
		}
	}
	return year, time.Month(month), day, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// weeksIn returns the number of ISO weeks of year; December 28th always
// lies in the last one.
func weeksIn(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}
