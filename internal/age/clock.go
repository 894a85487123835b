package age

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Callers derive "today" from it with Today.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today returns the local calendar date of c.
func Today(c Clock) CalendarDate {
	return DateOf(c.Now())
}
