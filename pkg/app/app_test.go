package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApp_FirstExitStopsAll(t *testing.T) {
	errBoom := errors.New("boom")
	var stopped atomic.Int32

	blocking := ServiceFunc(func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Add(1)
		return ctx.Err()
	})

	err := New().
		WithService(blocking).
		WithService(blocking).
		WithService(ServiceFunc(func(context.Context) error { return errBoom })).
		Run(context.Background())

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, int32(2), stopped.Load())
}

func TestApp_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- New().WithService(Interrupter{}).Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("app did not stop")
	}
}

func TestInterrupter_Signal(t *testing.T) {
	// Keep SIGTERM from killing the test binary whatever the timing.
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGTERM)
	defer signal.Stop(guard)

	done := make(chan error, 1)
	go func() {
		done <- Interrupter{}.Run(context.Background())
	}()

	// Give signal.Notify time to install the handler.
	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrInterrupted)
	case <-time.After(time.Second):
		t.Fatal("interrupter did not return")
	}
}
