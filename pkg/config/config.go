package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/goacm/pkg/adc"
	"github.com/itohio/goacm/pkg/sampler"
)

// Config represents the application configuration.
type Config struct {
	Serial    SerialConfig        `yaml:"serial"`
	Clock     ClockConfig         `yaml:"clock"`
	Sampler   sampler.Config      `yaml:"sampler"`
	Simulator adc.SimulatorConfig `yaml:"simulator"`
	Command   CommandConfig       `yaml:"command"`
	Metrics   MetricsConfig       `yaml:"metrics"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// ClockConfig contains timer tick configuration.
type ClockConfig struct {
	Tick    time.Duration `yaml:"tick"`
	Speedup int           `yaml:"speedup"` // Clock periods added per real tick (simulator only)
}

// CommandConfig contains command interface configuration.
type CommandConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// MetricsConfig contains Prometheus exposition configuration.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // Listen address, empty disables the endpoint
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: 19200,
		},
		Clock: ClockConfig{
			Tick:    100 * time.Millisecond,
			Speedup: 1,
		},
		Sampler:   sampler.DefaultConfig(),
		Simulator: adc.DefaultSimulatorConfig(),
		Command: CommandConfig{
			BufferSize: 64,
		},
		Metrics: MetricsConfig{
			Addr: "",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Clock.Tick == 0 {
		c.Clock.Tick = def.Clock.Tick
	}
	if c.Clock.Speedup < 1 {
		c.Clock.Speedup = def.Clock.Speedup
	}

	if c.Sampler.Conversions == 0 {
		c.Sampler.Conversions = def.Sampler.Conversions
	}
	if c.Sampler.FullScale == 0 {
		c.Sampler.FullScale = def.Sampler.FullScale
	}
	if c.Sampler.VRef == 0 {
		c.Sampler.VRef = def.Sampler.VRef
	}
	if c.Sampler.VBias == 0 {
		c.Sampler.VBias = def.Sampler.VBias
	}
	if c.Sampler.BiasCode == 0 {
		c.Sampler.BiasCode = def.Sampler.BiasCode
	}
	if c.Sampler.Sensitivity == 0 {
		c.Sampler.Sensitivity = def.Sampler.Sensitivity
	}
	if c.Sampler.NoiseThreshold == 0 {
		c.Sampler.NoiseThreshold = def.Sampler.NoiseThreshold
	}

	if c.Simulator.Frequency == 0 {
		c.Simulator.Frequency = def.Simulator.Frequency
	}
	if c.Simulator.SampleRate == 0 {
		c.Simulator.SampleRate = def.Simulator.SampleRate
	}

	if c.Command.BufferSize == 0 {
		c.Command.BufferSize = def.Command.BufferSize
	}
}
