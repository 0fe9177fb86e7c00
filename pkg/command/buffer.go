package command

import "sync"

// DefaultBufferSize is the command buffer capacity in bytes.
const DefaultBufferSize = 64

// Buffer collects received bytes into one pending command. It is filled by
// the receive side (Feed) and drained by the main loop (Take).
//
// A carriage return, line feed or NUL completes the command. Terminators on
// an empty buffer are ignored so CRLF line endings do not yield an empty
// command. While a command waits to be taken further bytes are dropped, as
// are bytes beyond the capacity.
type Buffer struct {
	mu      sync.Mutex
	data    []byte
	ready   bool
	dropped int
}

// NewBuffer creates a buffer holding up to size bytes.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{
		data: make([]byte, 0, size),
	}
}

// Feed appends one received byte.
func (b *Buffer) Feed(c byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ready {
		b.dropped++
		return
	}

	switch c {
	case '\r', '\n', 0:
		if len(b.data) > 0 {
			b.ready = true
		}
	default:
		if len(b.data) < cap(b.data) {
			b.data = append(b.data, c)
		} else {
			b.dropped++
		}
	}
}

// Write feeds every byte of p. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	for _, c := range p {
		b.Feed(c)
	}
	return len(p), nil
}

// Ready reports whether a complete command is waiting.
func (b *Buffer) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// Take returns the pending command and empties the buffer.
// ok is false when no command is complete.
func (b *Buffer) Take() (cmd string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready {
		return "", false
	}

	cmd = string(b.data)
	b.data = b.data[:0]
	b.ready = false
	return cmd, true
}

// Dropped returns how many bytes were discarded so far.
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
