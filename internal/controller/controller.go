// Package controller owns the calculator's UI state and its transitions.
package controller

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-agecalc/internal/age"
	"github.com/tartampluch/go-agecalc/internal/celebration"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/metrics"
)

// State is a snapshot of everything the view renders.
type State struct {
	// Input is the accepted date of birth; zero when none is stored.
	Input age.CalendarDate
	// Err is the last validation failure, nil when none.
	Err error
	// Result is the last successful calculation, nil when none.
	Result *age.Breakdown
	// Celebrating is true while the birthday animation is on screen.
	Celebrating bool
}

// ErrorMessage returns the user-facing text of Err, or "".
func (s State) ErrorMessage() string {
	var ve age.ValidationError
	if errors.As(s.Err, &ve) {
		return ve.Message()
	}
	if s.Err != nil {
		return s.Err.Error()
	}
	return ""
}

// Controller serializes the transitions triggered by the view and by the celebration timer.
type Controller struct {
	clock       age.Clock
	metrics     *metrics.Metrics
	celebration *celebration.Trigger

	mu       sync.Mutex
	state    State
	onChange func(State)
}

// New creates a Controller. m may be nil.
func New(clock age.Clock, celebrationFor time.Duration, m *metrics.Metrics) *Controller {
	c := &Controller{
		clock:   clock,
		metrics: m,
	}
	c.celebration = celebration.New(celebrationFor, c.setCelebrating)
	return c
}

// OnChange registers the view callback. It runs after every transition,
// outside the lock, possibly on the celebration timer goroutine.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Today returns the current local date; the view uses it to bound the picker.
func (c *Controller) Today() age.CalendarDate {
	return age.Today(c.clock)
}

// SelectDate stores a picked date of birth. A future date is rejected and
// clears the stored input. A zero date empties the input silently.
func (c *Controller) SelectDate(d age.CalendarDate) {
	log := slog.With(config.LogKeyComponent, config.CompController)

	c.mu.Lock()
	switch valid, err := age.Validate(d, c.Today()); {
	case d.IsZero():
		c.state.Input = age.CalendarDate{}
		c.state.Err = nil
	case err != nil:
		c.state.Input = age.CalendarDate{}
		c.state.Err = err
		log.Info(config.MsgDateRejected, config.LogKeyDOB, d.String(), config.LogKeyError, err)
	default:
		c.state.Input = valid
		c.state.Err = nil
		log.Debug(config.MsgDateSelected, config.LogKeyDOB, valid.String())
	}
	c.mu.Unlock()

	c.notify()
}

// Calculate replaces the previous result with a fresh calculation for the stored input.
// A birthday (re)arms the celebration; any other outcome stops it.
func (c *Controller) Calculate() {
	log := slog.With(config.LogKeyComponent, config.CompController)
	today := c.Today()

	c.mu.Lock()
	c.state.Result = nil
	b, err := age.Calculate(c.state.Input, today)
	if err != nil {
		c.state.Err = err
	} else {
		c.state.Err = nil
		c.state.Result = &b
	}
	c.mu.Unlock()

	c.metrics.ObserveCalculation(b, err)

	if err != nil {
		log.Info(config.MsgCalcFailed, config.LogKeyError, err)
		c.celebration.Stop()
		c.notify()
		return
	}

	log.Info(config.MsgCalcDone,
		config.LogKeyYears, b.Years,
		config.LogKeyMonths, b.Months,
		config.LogKeyDays, b.Days,
		config.LogKeyBirthday, b.IsBirthdayToday)

	if b.IsBirthdayToday {
		c.celebration.Start()
	} else {
		c.celebration.Stop()
	}
	c.notify()
}

// Close cancels a pending celebration timer.
func (c *Controller) Close() {
	c.celebration.Stop()
}

func (c *Controller) setCelebrating(active bool) {
	c.mu.Lock()
	c.state.Celebrating = active
	c.mu.Unlock()

	c.metrics.ObserveCelebration(active)
	c.notify()
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	s := c.snapshot()
	c.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}

// snapshot copies the state; the caller holds mu.
func (c *Controller) snapshot() State {
	s := c.state
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}
