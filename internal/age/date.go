package age

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-agecalc/internal/config"
)

// ErrInvalidDate is returned when a (year, month, day) triple does not name a real calendar day.
var ErrInvalidDate = errors.New(config.ErrInvalidDate)

// CalendarDate is a day in the local calendar, without time of day.
// The zero value means "no date supplied".
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate builds a CalendarDate and rejects impossible days such as Feb 30.
func NewCalendarDate(year int, month time.Month, day int) (CalendarDate, error) {
	// time.Date normalizes overflowing fields, so a round trip detects invalid input.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return CalendarDate{}, fmt.Errorf("%s: %04d-%02d-%02d", config.ErrInvalidDate, year, int(month), day)
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseDate reads a YYYY-MM-DD value. An empty string yields the zero date and no error,
// matching an empty date picker.
func ParseDate(value string) (CalendarDate, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return CalendarDate{}, nil
	}
	t, err := time.Parse(config.DateLayout, value)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%s %q: %w", config.ErrDateParse, value, ErrInvalidDate)
	}
	return DateOf(t), nil
}

// IsZero reports whether no date was supplied.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

// After reports whether d is strictly later than o.
func (d CalendarDate) After(o CalendarDate) bool {
	return d.Compare(o) > 0
}

// Time returns midnight of d in loc.
func (d CalendarDate) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String formats d as YYYY-MM-DD, or "" for the zero date.
func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time(time.UTC).Format(config.DateLayout)
}

// daysIn returns the length of month in year.
func daysIn(year int, month time.Month) int {
	// Day 0 of the following month is the last day of month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
