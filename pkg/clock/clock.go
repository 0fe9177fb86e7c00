package clock

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultPeriod is the tick period of the timer interrupt.
const DefaultPeriod = 100 * time.Millisecond

// Clock is a free-running millisecond counter advanced only by Tick.
// Now may be called from any goroutine; the counter is a single atomic word,
// so readers never observe a torn value.
type Clock struct {
	ms     atomic.Uint64
	period time.Duration
	step   uint64 // ms added per tick
}

// Option configures a Clock.
type Option func(*Clock)

// WithSpeedup makes every tick advance the counter by n periods.
// Used by the simulator to fast-forward the statistics.
func WithSpeedup(n int) Option {
	return func(c *Clock) {
		if n > 1 {
			c.step *= uint64(n)
		}
	}
}

// New creates a clock with the given tick period, rounded down to whole
// milliseconds. Periods under 1ms fall back to DefaultPeriod.
func New(period time.Duration, opts ...Option) *Clock {
	if period < time.Millisecond {
		period = DefaultPeriod
	}
	c := &Clock{
		period: period,
		step:   uint64(period / time.Millisecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tick advances the counter by one step. This is the interrupt handler.
func (c *Clock) Tick() {
	c.ms.Add(c.step)
}

// Now returns the current counter value in milliseconds.
func (c *Clock) Now() uint64 {
	return c.ms.Load()
}

// Period returns the real-time tick period.
func (c *Clock) Period() time.Duration {
	return c.period
}

// Step returns the number of milliseconds added per tick.
func (c *Clock) Step() uint64 {
	return c.step
}

// Ticker drives a Clock from a time.Ticker, standing in for the hardware
// timer compare interrupt.
type Ticker struct {
	clock *Clock
}

// NewTicker creates a ticker service for c.
func NewTicker(c *Clock) *Ticker {
	return &Ticker{clock: c}
}

// Run ticks the clock every period until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.clock.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.clock.Tick()
		}
	}
}
