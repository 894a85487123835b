// Package calendar exports upcoming birthdays as an iCalendar feed.
package calendar

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-agecalc/internal/age"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// Occurrence is one upcoming birthday.
type Occurrence struct {
	Date age.CalendarDate
	Age  int
}

// Upcoming lists the next count birthdays of birth, starting with today's if it is today.
// A Feb 29 birthday falls on Mar 1 in common years (time.Date normalization).
func Upcoming(birth, today age.CalendarDate, count int) []Occurrence {
	year := today.Year
	if anniversary(birth, year).Compare(today) < 0 {
		year++
	}

	out := make([]Occurrence, 0, count)
	for i := 0; i < count; i++ {
		y := year + i
		out = append(out, Occurrence{Date: anniversary(birth, y), Age: y - birth.Year})
	}
	return out
}

// Build encodes the upcoming birthdays of birth as an iCalendar document.
// now stamps every event (DTSTAMP).
func Build(birth age.CalendarDate, now time.Time, count int) ([]byte, error) {
	if birth.IsZero() {
		return nil, age.ErrEmptyInput
	}
	today := age.DateOf(now)
	if _, err := age.Validate(birth, today); err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(now.UTC())

	occurrences := Upcoming(birth, today, count)
	for _, occ := range occurrences {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, birth.String(), occ.Date.Year, config.ICalDomain))
		event.Props.SetText(config.PropSummary, Summary(occ.Age))

		dtStart := ical.NewProp(config.PropDTStart)
		dtStart.SetDate(occ.Date.Time(now.Location()))
		event.Props.Set(dtStart)
		event.Props.Set(dtStamp)

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyDOB, birth.String(),
		config.LogKeyEvents, len(occurrences))

	return buf.Bytes(), nil
}

// Summary is the event title for the given age. Age 0 is the day of birth.
func Summary(n int) string {
	if n == 0 {
		return config.SummaryBirth
	}
	return fmt.Sprintf(config.FormatSummaryAge, n)
}

func anniversary(birth age.CalendarDate, year int) age.CalendarDate {
	return age.DateOf(time.Date(year, birth.Month, birth.Day, 0, 0, 0, 0, time.UTC))
}
