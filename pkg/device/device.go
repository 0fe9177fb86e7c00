package device

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/itohio/goacm/pkg/command"
	"github.com/itohio/goacm/pkg/stats"
)

// DefaultIdle is the pause between two loop iterations.
const DefaultIdle = time.Millisecond

// Clock supplies the millisecond counter advanced by the timer tick.
type Clock interface {
	Now() uint64
}

// Input supplies completed command tokens from the receive side.
type Input interface {
	Take() (string, bool)
}

// Device is the cooperative main loop of the meter. Only the goroutine
// calling Start, Step or Run touches the state and writes the output.
type Device struct {
	state    *State
	clock    Clock
	input    Input
	out      io.Writer
	observer Observer
	idle     time.Duration

	lastLoop uint64
}

// Option configures a Device.
type Option func(*Device)

// WithObserver registers an observer for acquisitions, buckets and commands.
func WithObserver(o Observer) Option {
	return func(d *Device) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithIdle sets the pause between loop iterations in Run.
func WithIdle(idle time.Duration) Option {
	return func(d *Device) {
		if idle > 0 {
			d.idle = idle
		}
	}
}

// New creates the main loop over state. Responses and on-line readings are
// written to out.
func New(state *State, clock Clock, input Input, out io.Writer, opts ...Option) *Device {
	d := &Device{
		state:    state,
		clock:    clock,
		input:    input,
		out:      out,
		observer: nopObserver{},
		idle:     DefaultIdle,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.lastLoop = clock.Now()
	return d
}

// State returns the state owned by the loop.
func (d *Device) State() *State {
	return d.state
}

// Start prints the banner and seeds the sampler calibration with one
// discarded acquisition.
func (d *Device) Start() {
	d.printf("%s%s", Banner, Help)

	res := d.state.sampler.Calibrate()
	d.observer.Sampled(SourceCalibration, res, d.state.sampler.Offset())
}

// Step runs one loop iteration.
func (d *Device) Step() {
	now := d.clock.Now()
	s := d.state

	if s.pollDue(now) {
		res := s.acquire()
		d.observer.Sampled(SourceOnline, res, s.sampler.Offset())
		d.printf("on-line mode: current is now %dmA\n", res.Milliamps)
		s.lastPoll = now
	}

	s.stats.Advance(now - d.lastLoop)
	d.lastLoop = now

	if s.stats.Due() {
		res := s.acquire()
		d.observer.Sampled(SourceBucket, res, s.sampler.Offset())
		top := s.stats.Record(res.Milliamps)
		for _, l := range stats.Levels {
			if l > top {
				break
			}
			d.observer.Recorded(l)
		}
	}

	d.dispatch()
}

// dispatch executes at most one pending command.
func (d *Device) dispatch() {
	token, ok := d.input.Take()
	if !ok {
		return
	}

	err := d.execute(token)
	d.observer.Executed(token, err)
	if err != nil {
		d.printf("ERROR: %s\n", errorText(err))
	}
}

func (d *Device) execute(token string) error {
	cmd, err := command.Parse(token)
	if err != nil {
		return err
	}
	return d.state.Execute(d, cmd)
}

// Write sends p to the output, logging failures. The device never stops on
// a broken link.
func (d *Device) Write(p []byte) (int, error) {
	n, err := d.out.Write(p)
	if err != nil {
		log.Printf("Error writing to serial link: %v", err)
	}
	return n, nil
}

func (d *Device) printf(format string, args ...any) {
	fmt.Fprintf(d, format, args...)
}

// Run starts the device and loops until ctx is cancelled.
func (d *Device) Run(ctx context.Context) error {
	d.Start()

	ticker := time.NewTicker(d.idle)
	defer ticker.Stop()

	for {
		d.Step()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
