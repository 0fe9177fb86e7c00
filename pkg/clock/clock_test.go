package clock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		period   time.Duration
		opts     []Option
		wantStep uint64
	}{
		{name: "default period", period: DefaultPeriod, wantStep: 100},
		{name: "sub-millisecond falls back", period: 10 * time.Microsecond, wantStep: 100},
		{name: "one second", period: time.Second, wantStep: 1000},
		{name: "speedup", period: DefaultPeriod, opts: []Option{WithSpeedup(60)}, wantStep: 6000},
		{name: "speedup of one is ignored", period: DefaultPeriod, opts: []Option{WithSpeedup(1)}, wantStep: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.period, tt.opts...)
			assert.Equal(t, tt.wantStep, c.Step())
			assert.Equal(t, uint64(0), c.Now())
		})
	}
}

func TestTick(t *testing.T) {
	c := New(DefaultPeriod)

	for i := 1; i <= 10; i++ {
		c.Tick()
		assert.Equal(t, uint64(i*100), c.Now())
	}
}

func TestTick_Concurrent(t *testing.T) {
	c := New(DefaultPeriod)

	var wg sync.WaitGroup
	done := make(chan struct{})

	// Reader checks the counter never goes backwards while ticks happen.
	wg.Add(1)
	go func() {
		defer wg.Done()
		var last uint64
		for {
			select {
			case <-done:
				return
			default:
			}
			now := c.Now()
			assert.GreaterOrEqual(t, now, last)
			assert.Zero(t, now%100)
			last = now
		}
	}()

	for i := 0; i < 10000; i++ {
		c.Tick()
	}
	close(done)
	wg.Wait()

	assert.Equal(t, uint64(1000000), c.Now())
}

func TestTicker_Run(t *testing.T) {
	c := New(time.Millisecond)
	ticker := NewTicker(c)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- ticker.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return c.Now() >= 5
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop after cancel")
	}
}
