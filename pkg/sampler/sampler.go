package sampler

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Reader performs one blocking raw conversion and returns the code.
type Reader interface {
	Read() uint16
}

// Config describes the ADC and the current sensor transfer function.
type Config struct {
	Conversions    int     `yaml:"conversions"`     // Raw conversions per acquisition
	FullScale      float64 `yaml:"full_scale"`      // Highest ADC code (1023 for 10-bit)
	VRef           float64 `yaml:"vref"`            // ADC reference voltage (V)
	VBias          float64 `yaml:"vbias"`           // Sensor output at zero current (V)
	BiasCode       int     `yaml:"bias_code"`       // ADC code expected at zero current
	Sensitivity    float64 `yaml:"sensitivity"`     // Sensor transfer constant (V/A)
	NoiseThreshold int     `yaml:"noise_threshold"` // Raw swing below which the burst counts as no signal
}

// DefaultConfig is a 10-bit converter on a 5V reference reading a 5A
// hall-effect sensor biased at half supply.
func DefaultConfig() Config {
	return Config{
		Conversions:    1024,
		FullScale:      1023,
		VRef:           5.0,
		VBias:          2.5,
		BiasCode:       512,
		Sensitivity:    0.185,
		NoiseThreshold: 10,
	}
}

// Sampler turns bursts of raw conversions into an RMS current reading and
// keeps the DC offset of the sensor calibrated.
type Sampler struct {
	adc Reader

	conversions    int
	fullScale      float32
	vref           float32
	vbias          float32
	biasCode       int
	sensitivity    float32
	noiseThreshold int

	offset int // added to every raw code before conversion
}

// Result describes one acquisition.
type Result struct {
	Milliamps  uint16
	Min, Max   uint16 // raw code range of the burst
	Calibrated bool   // drift guard tripped and offset was recomputed
}

// New creates a Sampler reading from r.
func New(r Reader, cfg Config) (*Sampler, error) {
	if r == nil {
		return nil, fmt.Errorf("adc reader is nil")
	}
	if cfg.Conversions <= 0 {
		return nil, fmt.Errorf("invalid conversions per acquisition: %d", cfg.Conversions)
	}
	if cfg.FullScale <= 0 || cfg.FullScale > 65535 {
		return nil, fmt.Errorf("invalid ADC full scale: %v", cfg.FullScale)
	}
	if cfg.Sensitivity <= 0 {
		return nil, fmt.Errorf("invalid sensor sensitivity: %v", cfg.Sensitivity)
	}

	return &Sampler{
		adc:            r,
		conversions:    cfg.Conversions,
		fullScale:      float32(cfg.FullScale),
		vref:           float32(cfg.VRef),
		vbias:          float32(cfg.VBias),
		biasCode:       cfg.BiasCode,
		sensitivity:    float32(cfg.Sensitivity),
		noiseThreshold: cfg.NoiseThreshold,
	}, nil
}

// Offset returns the current calibration offset in ADC codes.
func (s *Sampler) Offset() int {
	return s.offset
}

// Acquire performs one burst and returns the current in milliamps.
// A burst whose raw swing is below the noise threshold is treated as no
// current flowing: the offset is recalibrated and zero is returned.
func (s *Sampler) Acquire() uint16 {
	return s.Measure().Milliamps
}

// Calibrate runs one acquisition whose reading is not meant to be used. It
// seeds the offset before the first real measurement.
func (s *Sampler) Calibrate() Result {
	return s.Measure()
}

// Measure is Acquire with the burst details.
func (s *Sampler) Measure() Result {
	var (
		sum    float32
		lo, hi = uint16(0xffff), uint16(0)
	)

	for i := 0; i < s.conversions; i++ {
		raw := s.adc.Read()
		if raw > hi {
			hi = raw
		}
		if raw < lo {
			lo = raw
		}
		v := s.toVolts(raw)
		sum += v * v
	}

	if int(hi)-int(lo) < s.noiseThreshold {
		s.offset = s.biasCode - (int(hi)+int(lo))/2
		return Result{Min: lo, Max: hi, Calibrated: true}
	}

	rms := math32.Sqrt(sum / float32(s.conversions))
	return Result{
		Milliamps: toMilliamps(rms, s.sensitivity),
		Min:       lo,
		Max:       hi,
	}
}

// toVolts converts a raw code to the AC-coupled sensor voltage.
func (s *Sampler) toVolts(raw uint16) float32 {
	return float32(int(raw)+s.offset)/s.fullScale*s.vref - s.vbias
}

// toMilliamps converts an RMS voltage to a rounded current.
func toMilliamps(rms, sensitivity float32) uint16 {
	ma := math32.Round(rms / sensitivity * 1000)
	if ma < 0 {
		return 0
	}
	if ma > 65535 {
		return 65535
	}
	return uint16(ma)
}
