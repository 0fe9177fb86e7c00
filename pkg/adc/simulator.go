package adc

import (
	"math"
	"time"

	"github.com/chewxy/math32"

	"github.com/itohio/goacm/pkg/sampler"
)

// SimulatorConfig contains simulated sensor configuration.
type SimulatorConfig struct {
	LoadMilliamps float64       `yaml:"load_ma"`       // RMS current while the load is on
	Frequency     float64       `yaml:"frequency"`     // Mains frequency (Hz)
	SampleRate    float64       `yaml:"sample_rate"`   // Conversions per second
	Noise         float64       `yaml:"noise"`         // Noise amplitude (ADC codes)
	OffsetCodes   float64       `yaml:"offset_codes"`  // DC bias error of the sensor (ADC codes)
	LoadPeriod    time.Duration `yaml:"load_period"`   // Time between load switch-ons (0 = always on)
	LoadDuration  time.Duration `yaml:"load_duration"` // Time the load stays on each period
}

// DefaultSimulatorConfig switches a 1.5A load on for 4 minutes every 10.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		LoadMilliamps: 1500,
		Frequency:     50,
		SampleRate:    9615, // 125kHz ADC clock / 13 cycles per conversion
		Noise:         2,
		OffsetCodes:   3,
		LoadPeriod:    10 * time.Minute,
		LoadDuration:  4 * time.Minute,
	}
}

// Simulator produces the codes a hall-effect current sensor would present to
// the ADC while a switched AC load runs through it.
type Simulator struct {
	cfg       SimulatorConfig
	fullScale float32
	biasCode  float32
	ampCodes  float32 // peak code swing at full load
	now       func() uint64

	conversions uint64
}

var _ sampler.Reader = (*Simulator)(nil)

// NewSimulator creates a simulated sensor. now supplies the device clock in
// milliseconds and decides whether the load is switched on.
func NewSimulator(cfg SimulatorConfig, sensor sampler.Config, now func() uint64) *Simulator {
	if now == nil {
		now = func() uint64 { return 0 }
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 9615
	}

	// I_rms -> peak volts at the sensor output -> ADC codes
	peakVolts := cfg.LoadMilliamps / 1000 * math.Sqrt2 * sensor.Sensitivity
	ampCodes := peakVolts / sensor.VRef * sensor.FullScale

	return &Simulator{
		cfg:       cfg,
		fullScale: float32(sensor.FullScale),
		biasCode:  float32(sensor.BiasCode),
		ampCodes:  float32(ampCodes),
		now:       now,
	}
}

// LoadOn reports whether the simulated load is switched on at ms.
func (s *Simulator) LoadOn(ms uint64) bool {
	period := uint64(s.cfg.LoadPeriod.Milliseconds())
	if period == 0 {
		return true
	}
	return ms%period < uint64(s.cfg.LoadDuration.Milliseconds())
}

// Read returns the next simulated conversion.
func (s *Simulator) Read() uint16 {
	t := float32(s.conversions) / float32(s.cfg.SampleRate)
	s.conversions++

	v := s.biasCode + float32(s.cfg.OffsetCodes)
	if s.LoadOn(s.now()) {
		v += s.ampCodes * math32.Sin(2*math32.Pi*float32(s.cfg.Frequency)*t)
	}

	// Deterministic noise, two incommensurate tones.
	noise := (math32.Sin(t*7919) + math32.Cos(t*104729)) * float32(s.cfg.Noise) * 0.5
	v += noise

	if v < 0 {
		v = 0
	} else if v > s.fullScale {
		v = s.fullScale
	}
	return uint16(math32.Round(v))
}
