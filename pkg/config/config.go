// Package config loads the on-disk daemon configuration.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level settings tree, mirroring the tabular
// key/value-with-sections file described by the wire spec.
type Config struct {
	AudioDevice     string `toml:"audio_device"`
	ConsoleOutput   bool   `toml:"console_output"`
	SerializeOnsets string `toml:"serialize_onsets"`

	Audio    AudioConfig    `toml:"audio"`
	Detector DetectorConfig `toml:"onset_detector"`
	Hue      []HueConfig    `toml:"hue"`
	WLED     []WLEDConfig   `toml:"wled"`
	Logging  LoggingConfig  `toml:"logging"`
	Storage  StorageConfig  `toml:"storage"`
}

// AudioConfig holds the immutable processing settings (§3 of the spec).
type AudioConfig struct {
	SampleRate int    `toml:"sample_rate"`
	HopSize    int    `toml:"hop_size"`
	BufferSize int    `toml:"buffer_size"`
	FFTSize    int    `toml:"fft_size"`
	WindowType string `toml:"window_type"`
}

// DetectorConfig selects and tunes one of the two onset-detection algorithms.
type DetectorConfig struct {
	Algorithm string `toml:"algorithm"` // "hfc" or "spec_flux"
	MelBands  int    `toml:"mel_bands"`
	MaxFreqHz int    `toml:"max_frequency_hz"`
}

// HueConfig describes one Entertainment-API bridge endpoint.
type HueConfig struct {
	IP            string `toml:"ip"`
	Area          string `toml:"area"`
	AuthFile      string `toml:"auth_file"`
	Channels      int    `toml:"channels"`
	ColorEnvelope bool   `toml:"color_envelope"` // render every channel from the fullband colour envelope instead of the drum/hihat/note composite
}

// WLEDConfig describes one LED-strip endpoint.
type WLEDConfig struct {
	Effect        string  `toml:"effect"` // "onset" or "spectrum"
	IP            string  `toml:"ip"`
	RGBW          bool    `toml:"rgbw"`
	TimeoutSec    int     `toml:"timeout_sec"`
	LEDsPerSecond float64 `toml:"leds_per_second"`
	Centered      bool    `toml:"centered"`
}

// LoggingConfig mirrors the teacher's ambient logging knobs.
type LoggingConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
	Console    bool   `toml:"console"`
	Structured bool   `toml:"structured"`
}

// StorageConfig points at the bridge-credential database.
type StorageConfig struct {
	DatabasePath string `toml:"database_path"`
}

// LoadConfig reads and parses the TOML configuration file, applying defaults
// for anything left unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 48000
	}
	if c.Audio.HopSize == 0 {
		c.Audio.HopSize = 480
	}
	if c.Audio.BufferSize == 0 {
		c.Audio.BufferSize = 1024
	}
	if c.Audio.FFTSize == 0 {
		c.Audio.FFTSize = nextPowerOfTwo(c.Audio.BufferSize)
	}
	if c.Audio.WindowType == "" {
		c.Audio.WindowType = "hann"
	}
	if c.Detector.Algorithm == "" {
		c.Detector.Algorithm = "hfc"
	}
	if c.Detector.MelBands == 0 {
		c.Detector.MelBands = 40
	}
	if c.Detector.MaxFreqHz == 0 {
		c.Detector.MaxFreqHz = c.Audio.SampleRate / 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 100
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 30
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "musicsyncd.db"
	}
	for i := range c.Hue {
		if c.Hue[i].Channels == 0 {
			c.Hue[i].Channels = 1
		}
	}
	for i := range c.WLED {
		if c.WLED[i].Effect == "" {
			c.WLED[i].Effect = "onset"
		}
		if c.WLED[i].TimeoutSec == 0 {
			c.WLED[i].TimeoutSec = 2
		}
		if c.WLED[i].LEDsPerSecond == 0 {
			c.WLED[i].LEDsPerSecond = 60
		}
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Validate checks cross-field invariants the spec requires
// (hop_size <= buffer_size <= fft_size) and returns a descriptive error
// otherwise.
func (c *Config) Validate() error {
	a := c.Audio
	if a.SampleRate <= 0 || a.HopSize <= 0 || a.BufferSize <= 0 || a.FFTSize <= 0 {
		return fmt.Errorf("audio sample/hop/buffer/fft sizes must be positive")
	}
	if a.HopSize > a.BufferSize {
		return fmt.Errorf("hop_size (%d) must be <= buffer_size (%d)", a.HopSize, a.BufferSize)
	}
	if a.BufferSize > a.FFTSize {
		return fmt.Errorf("buffer_size (%d) must be <= fft_size (%d)", a.BufferSize, a.FFTSize)
	}
	switch c.Detector.Algorithm {
	case "hfc", "spec_flux":
	default:
		return fmt.Errorf("unknown onset_detector algorithm %q", c.Detector.Algorithm)
	}
	return nil
}
