package uart

import (
	"context"
	"errors"
	"io"
	"log"
)

// receiveChunk mirrors the small receive FIFO of the MCU UART.
const receiveChunk = 16

// Receiver pumps bytes from a link into a sink, standing in for the
// serial receive interrupt.
type Receiver struct {
	r    io.Reader
	sink io.Writer
}

// NewReceiver creates a pump from r into sink.
func NewReceiver(r io.Reader, sink io.Writer) *Receiver {
	return &Receiver{r: r, sink: sink}
}

// Run pumps until ctx is cancelled. End of input is logged and the pump
// idles until cancellation so the meter keeps running without a host.
func (rc *Receiver) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	// A reader blocked in Read (stdin) keeps pump alive after cancellation
	// until the process exits.
	go func() {
		errCh <- rc.pump(ctx)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, io.EOF) {
			log.Printf("Serial input closed")
			<-ctx.Done()
			return ctx.Err()
		}
		return err
	}
}

func (rc *Receiver) pump(ctx context.Context) error {
	var buf [receiveChunk]byte
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, err := rc.r.Read(buf[:])
		if n > 0 {
			rc.sink.Write(buf[:n])
		}
		if err != nil {
			return err
		}
	}
}
