package engine

import (
	"time"

	"github.com/kilianp07/fleetsim/core/events"
	"github.com/kilianp07/fleetsim/core/logger"
	"github.com/kilianp07/fleetsim/core/metrics"
	"github.com/kilianp07/fleetsim/core/priority"
	"github.com/kilianp07/fleetsim/core/state"
	"github.com/kilianp07/fleetsim/internal/eventbus"
)

// Option customizes an Engine.
type Option func(*Engine)

// WithStateStore persists every new state to s.
func WithStateStore(s state.Store) Option {
	return func(e *Engine) { e.state = s }
}

// WithMetrics records engine activity on sink.
func WithMetrics(sink metrics.MetricsSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithBus publishes engine events on bus.
func WithBus(bus *eventbus.Bus[events.Event]) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPolicy replaces the queue ordering.
func WithPolicy(p priority.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithIDFunc sets the job identifier generator.
func WithIDFunc(f func() string) Option {
	return func(e *Engine) {
		if f != nil {
			e.newID = f
		}
	}
}

// WithClock sets the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
