package device

import (
	"github.com/itohio/goacm/pkg/sampler"
	"github.com/itohio/goacm/pkg/stats"
)

// Source tells why an acquisition was made.
type Source string

const (
	SourceCalibration Source = "calibration"
	SourceOnline      Source = "online"
	SourceBucket      Source = "bucket"
)

// Observer is notified from the main loop goroutine. Implementations must
// return quickly.
type Observer interface {
	Sampled(src Source, res sampler.Result, offset int)
	Recorded(level stats.Level)
	Executed(token string, err error)
}

type nopObserver struct{}

func (nopObserver) Sampled(Source, sampler.Result, int) {}
func (nopObserver) Recorded(stats.Level)                {}
func (nopObserver) Executed(string, error)              {}
