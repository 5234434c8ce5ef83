// Package clock drives the engine tick on a wall-clock cadence.
package clock

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultInterval is the reference period between two ticks.
const DefaultInterval = 500 * time.Millisecond

// Ticker is the subset of time.Ticker used by the driver.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Tickable is implemented by the engine.
type Tickable interface {
	Tick()
}

// TickableFunc adapts a function to Tickable.
type TickableFunc func()

func (f TickableFunc) Tick() { f() }

// Driver calls Tick on every ticker event while running. A stopped driver
// keeps draining its ticker so restarting it does not replay missed events.
type Driver struct {
	target    Tickable
	interval  time.Duration
	newTicker TickerFunc
	running   atomic.Bool
}

// NewDriver creates a paused driver. A non-positive interval selects
// DefaultInterval and a nil newTicker selects NewTimeTicker.
func NewDriver(target Tickable, interval time.Duration, newTicker TickerFunc) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	return &Driver{target: target, interval: interval, newTicker: newTicker}
}

// Run blocks until ctx is done.
func (d *Driver) Run(ctx context.Context) {
	t := d.newTicker(d.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			if d.running.Load() {
				d.target.Tick()
			}
		}
	}
}

// Start resumes ticking.
func (d *Driver) Start() { d.running.Store(true) }

// Stop pauses ticking.
func (d *Driver) Stop() { d.running.Store(false) }

// Running reports whether the driver is ticking.
func (d *Driver) Running() bool { return d.running.Load() }

// Interval returns the tick period.
func (d *Driver) Interval() time.Duration { return d.interval }
