package stats

import "fmt"

// Level identifies one bucket granularity.
type Level int

const (
	// None means no bucket was written.
	None Level = iota - 1
	Minute
	Hour
	Day
	Month
)

// Levels lists every level, finest first.
var Levels = [...]Level{Minute, Hour, Day, Month}

// Bucket durations in milliseconds. A month is 30 days.
const (
	MsMinute uint64 = 60_000
	MsHour   uint64 = 60 * MsMinute
	MsDay    uint64 = 24 * MsHour
	MsMonth  uint64 = 30 * MsDay
)

var levelInfo = [...]struct {
	name      string
	slots     int
	threshold uint64
}{
	Minute: {"minute", 60, MsMinute},
	Hour:   {"hour", 24, MsHour},
	Day:    {"day", 30, MsDay},
	Month:  {"month", 12, MsMonth},
}

func (l Level) valid() bool {
	return l >= Minute && l <= Month
}

// String returns the lower case level name.
func (l Level) String() string {
	if !l.valid() {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelInfo[l].name
}

// Slots returns the ring capacity for the level.
func (l Level) Slots() int {
	return levelInfo[l].slots
}

// Threshold returns the bucket duration for the level in milliseconds.
func (l Level) Threshold() uint64 {
	return levelInfo[l].threshold
}

// Aggregator keeps four cascading rings of current readings: minutes of the
// last hour, hours of the last day, days of the last month and months of the
// last year. It is owned by the main loop and is not safe for concurrent use.
type Aggregator struct {
	rings   [4]*Ring[uint16]
	elapsed [4]uint64 // ms since the level's last bucket
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	a := &Aggregator{}
	for _, l := range Levels {
		a.rings[l] = NewRing[uint16](l.Slots())
	}
	return a
}

// Advance adds elapsed milliseconds to every level.
func (a *Aggregator) Advance(elapsed uint64) {
	for i := range a.elapsed {
		a.elapsed[i] += elapsed
	}
}

// Due reports whether a minute bucket has completed.
func (a *Aggregator) Due() bool {
	return a.elapsed[Minute] >= MsMinute
}

// Record stores a reading for the completed minute and cascades it into the
// coarser levels whose buckets completed too. A coarser level is only written
// when every finer level was written in the same call. Each written level has
// its threshold subtracted so any overrun carries into the next bucket.
// Returns the coarsest level written.
func (a *Aggregator) Record(sample uint16) Level {
	written := None
	for _, l := range Levels {
		if l != Minute && a.elapsed[l] < l.Threshold() {
			break
		}
		a.rings[l].Push(sample)
		a.elapsed[l] -= min(a.elapsed[l], l.Threshold())
		written = l
	}
	return written
}

// Clear zeroes every ring and rewinds the cursors. Elapsed time is kept.
func (a *Aggregator) Clear() {
	for _, r := range a.rings {
		r.Reset()
	}
}

// Buckets copies a level's ring in array order.
func (a *Aggregator) Buckets(l Level) []uint16 {
	if !l.valid() {
		return nil
	}
	return a.rings[l].Values()
}

// Cursor returns the next write slot of a level.
func (a *Aggregator) Cursor(l Level) int {
	return a.rings[l].Cursor()
}

// Elapsed returns the time accumulated towards a level's next bucket.
func (a *Aggregator) Elapsed(l Level) uint64 {
	return a.elapsed[l]
}
