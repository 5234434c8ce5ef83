package clock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

// runFake runs d against a fake ticker, delivers n events and waits for Run
// to return.
func runFake(t *testing.T, d *Driver, ft *fakeTicker, n int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	for i := 0; i < n; i++ {
		ft.ch <- time.Now()
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("driver did not stop")
	}
}

func TestDriverTicksWhileRunning(t *testing.T) {
	ft := &fakeTicker{ch: make(chan time.Time)}
	var ticks atomic.Int32
	var gotInterval time.Duration
	d := NewDriver(TickableFunc(func() { ticks.Add(1) }), 0, func(iv time.Duration) Ticker {
		gotInterval = iv
		return ft
	})
	d.Start()
	assert.True(t, d.Running())
	runFake(t, d, ft, 3)

	assert.Equal(t, int32(3), ticks.Load())
	assert.True(t, ft.stopped.Load())
	assert.Equal(t, DefaultInterval, gotInterval)
	assert.Equal(t, DefaultInterval, d.Interval())
}

func TestPausedDriverDrainsWithoutTicking(t *testing.T) {
	ft := &fakeTicker{ch: make(chan time.Time)}
	var ticks atomic.Int32
	d := NewDriver(TickableFunc(func() { ticks.Add(1) }), time.Second, func(time.Duration) Ticker { return ft })
	d.Start()
	d.Stop()
	assert.False(t, d.Running())
	runFake(t, d, ft, 3)
	assert.Zero(t, ticks.Load())
}

func TestDriverWithTimeTicker(t *testing.T) {
	var ticks atomic.Int32
	d := NewDriver(TickableFunc(func() { ticks.Add(1) }), 5*time.Millisecond, nil)
	d.Start()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)
	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
