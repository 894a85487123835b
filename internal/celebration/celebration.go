// Package celebration controls the birthday animation's lifetime.
package celebration

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-agecalc/internal/config"
)

// Trigger keeps an animation flag raised for a fixed duration.
// At most one deactivation timer is pending; Start re-arms it and Stop cancels it.
type Trigger struct {
	duration time.Duration
	onChange func(active bool)

	mu     sync.Mutex
	active bool
	timer  *time.Timer
	// gen identifies the pending timer. A callback whose generation is stale
	// lost the race against Start or Stop and must not touch the flag.
	gen uint64
}

// New creates an inactive Trigger. onChange, if not nil, is called outside the
// lock whenever the flag flips, possibly from the timer goroutine.
func New(duration time.Duration, onChange func(active bool)) *Trigger {
	return &Trigger{
		duration: duration,
		onChange: onChange,
	}
}

// Start raises the flag and schedules its automatic deactivation.
// Any previously scheduled deactivation is superseded.
func (t *Trigger) Start() {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	rearmed := t.timer != nil
	if rearmed {
		t.timer.Stop()
	}
	wasActive := t.active
	t.active = true
	t.timer = time.AfterFunc(t.duration, func() { t.expire(gen) })
	t.mu.Unlock()

	if rearmed {
		slog.Debug(config.MsgCelebrateRearm,
			config.LogKeyComponent, config.CompCelebration,
			config.LogKeyGen, gen)
	} else {
		slog.Info(config.MsgCelebrateStart,
			config.LogKeyComponent, config.CompCelebration,
			config.LogKeyDuration, t.duration)
	}

	if !wasActive {
		t.notify(true)
	}
}

// Stop lowers the flag immediately and cancels the pending deactivation.
func (t *Trigger) Stop() {
	t.mu.Lock()
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	wasActive := t.active
	t.active = false
	t.mu.Unlock()

	if wasActive {
		slog.Info(config.MsgCelebrateStop, config.LogKeyComponent, config.CompCelebration)
		t.notify(false)
	}
}

// Active reports whether the animation should currently be shown.
func (t *Trigger) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Trigger) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		slog.Debug(config.MsgStaleTimer,
			config.LogKeyComponent, config.CompCelebration,
			config.LogKeyGen, gen)
		return
	}
	t.timer = nil
	t.active = false
	t.mu.Unlock()

	slog.Info(config.MsgCelebrateStop, config.LogKeyComponent, config.CompCelebration)
	t.notify(false)
}

func (t *Trigger) notify(active bool) {
	if t.onChange != nil {
		t.onChange(active)
	}
}
