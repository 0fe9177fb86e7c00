// Package adc provides raw conversion sources for the sampler: fixed code
// sequences and a simulated current sensor.
package adc

import "github.com/itohio/goacm/pkg/sampler"

// ReaderFunc adapts a function to the sampler.Reader interface.
type ReaderFunc func() uint16

// Read calls f.
func (f ReaderFunc) Read() uint16 {
	return f()
}

// Sequence replays a fixed list of codes, wrapping around at the end.
type Sequence struct {
	codes []uint16
	pos   int
}

var _ sampler.Reader = (*Sequence)(nil)

// NewSequence creates a Sequence over codes. An empty list reads as zero.
func NewSequence(codes ...uint16) *Sequence {
	return &Sequence{codes: codes}
}

// Repeat builds a list by repeating pattern n times.
func Repeat(n int, pattern ...uint16) []uint16 {
	out := make([]uint16, 0, n*len(pattern))
	for i := 0; i < n; i++ {
		out = append(out, pattern...)
	}
	return out
}

// Read returns the next code.
func (s *Sequence) Read() uint16 {
	if len(s.codes) == 0 {
		return 0
	}
	v := s.codes[s.pos]
	s.pos++
	if s.pos >= len(s.codes) {
		s.pos = 0
	}
	return v
}

// Position returns how many codes have been read since the last wrap.
func (s *Sequence) Position() int {
	return s.pos
}
