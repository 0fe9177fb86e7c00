package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// ErrInterrupted is returned by Interrupter when a signal arrives.
var ErrInterrupted = errors.New("got interrupt signal")

// Interrupter returns when the process receives SIGINT or SIGTERM.
type Interrupter struct{}

// Run waits for SIGINT, SIGTERM or cancellation of ctx.
func (Interrupter) Run(ctx context.Context) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case sig := <-stop:
		return fmt.Errorf("%w: %s", ErrInterrupted, sig.String())
	case <-ctx.Done():
		return fmt.Errorf("interrupter: %w", ctx.Err())
	}
}
