// Package metrics exports meter readings as Prometheus metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/itohio/goacm/pkg/command"
	"github.com/itohio/goacm/pkg/device"
	"github.com/itohio/goacm/pkg/sampler"
	"github.com/itohio/goacm/pkg/stats"
)

// Metrics implements device.Observer on a Prometheus registry. Its methods
// are called from the device loop only.
type Metrics struct {
	Current      prometheus.Gauge
	MaxCurrent   prometheus.Gauge
	Offset       prometheus.Gauge
	Acquisitions *prometheus.CounterVec
	DriftGuard   prometheus.Counter
	Buckets      *prometheus.CounterVec
	Commands     *prometheus.CounterVec

	max uint16
}

var _ device.Observer = (*Metrics)(nil)

// New registers the meter metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Current: f.NewGauge(prometheus.GaugeOpts{
			Name: "acm_current_milliamps",
			Help: "Last RMS current reading in milliamps",
		}),
		MaxCurrent: f.NewGauge(prometheus.GaugeOpts{
			Name: "acm_current_max_milliamps",
			Help: "Highest RMS current reading in milliamps",
		}),
		Offset: f.NewGauge(prometheus.GaugeOpts{
			Name: "acm_calibration_offset_codes",
			Help: "ADC offset applied to every raw conversion",
		}),
		Acquisitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "acm_acquisitions_total",
			Help: "Acquisition bursts by reason",
		}, []string{"source"}),
		DriftGuard: f.NewCounter(prometheus.CounterOpts{
			Name: "acm_drift_guard_total",
			Help: "Bursts treated as no signal and used to recalibrate",
		}),
		Buckets: f.NewCounterVec(prometheus.CounterOpts{
			Name: "acm_buckets_total",
			Help: "Statistic buckets written by level",
		}, []string{"level"}),
		Commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "acm_commands_total",
			Help: "Commands received by result",
		}, []string{"result"}),
	}
}

// Sampled records an acquisition.
func (m *Metrics) Sampled(src device.Source, res sampler.Result, offset int) {
	m.Acquisitions.WithLabelValues(string(src)).Inc()
	m.Offset.Set(float64(offset))
	if res.Calibrated {
		m.DriftGuard.Inc()
	}
	if src == device.SourceCalibration {
		return
	}

	m.Current.Set(float64(res.Milliamps))
	if res.Milliamps > m.max {
		m.max = res.Milliamps
		m.MaxCurrent.Set(float64(m.max))
	}
}

// Recorded counts a written bucket.
func (m *Metrics) Recorded(level stats.Level) {
	m.Buckets.WithLabelValues(level.String()).Inc()
}

// Executed counts a command by outcome.
func (m *Metrics) Executed(_ string, err error) {
	m.Commands.WithLabelValues(commandResult(err)).Inc()
}

func commandResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, command.ErrUnknown):
		return "unknown"
	case errors.Is(err, command.ErrOnlineInterval):
		return "bad_interval"
	case errors.Is(err, device.ErrNotOnline):
		return "wrong_mode"
	default:
		return "error"
	}
}
