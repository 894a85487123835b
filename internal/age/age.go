// Package age computes calendar-accurate ages from a date of birth.
package age

import (
	"fmt"

	"github.com/tartampluch/go-agecalc/internal/config"
)

// ValidationError is one of the two input problems a user can correct.
type ValidationError int

const (
	// EmptyInput means no date of birth was supplied.
	EmptyInput ValidationError = iota + 1
	// FutureDate means the date of birth is after today.
	FutureDate
)

// Sentinels for errors.Is.
var (
	ErrEmptyInput error = EmptyInput
	ErrFutureDate error = FutureDate
)

func (e ValidationError) Error() string {
	switch e {
	case EmptyInput:
		return config.ErrEmptyInput
	case FutureDate:
		return config.ErrFutureDate
	}
	return fmt.Sprintf("validation error %d", int(e))
}

// Message returns the text shown to the user.
func (e ValidationError) Message() string {
	if e == FutureDate {
		return config.MsgFutureDate
	}
	return config.MsgEmptyInput
}

// Breakdown is the result of a calculation.
type Breakdown struct {
	Years           int    `json:"years"`
	Months          int    `json:"months"`
	Days            int    `json:"days"`
	Message         string `json:"message"`
	IsBirthdayToday bool   `json:"isBirthdayToday"`
}

// Validate rejects a date of birth that lies after today.
// The comparison is on calendar days; the time of day never matters.
func Validate(selected, today CalendarDate) (CalendarDate, error) {
	if selected.After(today) {
		return CalendarDate{}, ErrFutureDate
	}
	return selected, nil
}

// Calculate returns the years, months and days elapsed from birth to today.
//
// Fields are subtracted with borrowing. A negative day count borrows the length
// of the month preceding today's month, not of the birth month.
func Calculate(birth, today CalendarDate) (Breakdown, error) {
	if birth.IsZero() {
		return Breakdown{}, ErrEmptyInput
	}
	if _, err := Validate(birth, today); err != nil {
		return Breakdown{}, err
	}

	years := today.Year - birth.Year
	months := int(today.Month) - int(birth.Month)
	days := today.Day - birth.Day

	// A month shorter than the deficit (Feb before a Mar 1 "today" with a
	// 31st birthday) needs a second borrow to keep days non-negative.
	borrowYear, borrowMonth := today.Year, today.Month
	for days < 0 {
		months--
		borrowMonth--
		if borrowMonth < 1 {
			borrowMonth = 12
			borrowYear--
		}
		days += daysIn(borrowYear, borrowMonth)
	}

	if months < 0 {
		years--
		months += config.MonthsPerYear
	}

	b := Breakdown{Years: years, Months: months, Days: days}
	if months == 0 && days == 0 {
		b.IsBirthdayToday = true
		b.Message = config.MsgBirthdayGreeting
	} else {
		b.Message = fmt.Sprintf(config.FormatAgeSummary, years, months, days)
	}
	return b, nil
}
