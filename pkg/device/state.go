package device

import (
	"github.com/itohio/goacm/pkg/sampler"
	"github.com/itohio/goacm/pkg/stats"
)

// State is everything the main loop owns: the sampler with its calibration,
// the statistics, the highest reading and the on-line mode settings.
// It is not safe for concurrent use.
type State struct {
	sampler *sampler.Sampler
	stats   *stats.Aggregator

	max uint16

	online   bool
	interval uint64 // ms between on-line readings
	lastPoll uint64 // clock value of the last on-line reading
}

// NewState creates the state around s with empty statistics.
func NewState(s *sampler.Sampler) *State {
	return &State{
		sampler: s,
		stats:   stats.NewAggregator(),
	}
}

// Max returns the highest current sampled so far in milliamps.
func (s *State) Max() uint16 {
	return s.max
}

// Online reports whether on-line mode is enabled and its interval in ms.
func (s *State) Online() (bool, uint64) {
	return s.online, s.interval
}

// Stats returns the aggregator.
func (s *State) Stats() *stats.Aggregator {
	return s.stats
}

// acquire takes one reading and tracks the maximum.
func (s *State) acquire() sampler.Result {
	res := s.sampler.Measure()
	if res.Milliamps > s.max {
		s.max = res.Milliamps
	}
	return res
}

// pollDue reports whether an on-line reading is due at now.
func (s *State) pollDue(now uint64) bool {
	return s.online && now-s.lastPoll >= s.interval
}
