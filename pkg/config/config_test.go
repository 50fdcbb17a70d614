package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("Valid Config", func(t *testing.T) {
		configContent := `
audio_device = "default"
console_output = true

[audio]
sample_rate = 48000
hop_size = 480
buffer_size = 1024
fft_size = 2048
window_type = "hann"

[onset_detector]
algorithm = "spec_flux"
mel_bands = 40

[[hue]]
ip = "192.168.1.50"
area = "living-room"
channels = 5

[[wled]]
effect = "onset"
ip = "192.168.1.60"

[logging]
level = "debug"
console = true
`
		configPath := filepath.Join(tempDir, "valid.toml")
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if cfg.Audio.SampleRate != 48000 {
			t.Errorf("expected sample_rate 48000, got %d", cfg.Audio.SampleRate)
		}
		if cfg.Audio.HopSize != 480 {
			t.Errorf("expected hop_size 480, got %d", cfg.Audio.HopSize)
		}
		if cfg.Detector.Algorithm != "spec_flux" {
			t.Errorf("expected algorithm spec_flux, got %q", cfg.Detector.Algorithm)
		}
		if len(cfg.Hue) != 1 || cfg.Hue[0].IP != "192.168.1.50" {
			t.Fatalf("expected one hue endpoint, got %+v", cfg.Hue)
		}
		if cfg.Hue[0].ColorEnvelope {
			t.Errorf("expected color_envelope to default false, got %+v", cfg.Hue[0])
		}
		if len(cfg.WLED) != 1 || cfg.WLED[0].Effect != "onset" {
			t.Fatalf("expected one wled endpoint, got %+v", cfg.WLED)
		}

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid config, got error: %v", err)
		}
	})

	t.Run("Defaults applied", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "empty.toml")
		if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if cfg.Audio.SampleRate != 48000 {
			t.Errorf("expected default sample_rate 48000, got %d", cfg.Audio.SampleRate)
		}
		if cfg.Detector.Algorithm != "hfc" {
			t.Errorf("expected default algorithm hfc, got %q", cfg.Detector.Algorithm)
		}
	})

	t.Run("WLED defaults and overrides", func(t *testing.T) {
		configContent := `
[[wled]]
ip = "192.168.1.61"

[[wled]]
ip = "192.168.1.62"
effect = "spectrum"
rgbw = true
timeout_sec = 10
leds_per_second = 120
centered = true
`
		configPath := filepath.Join(tempDir, "wled.toml")
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(cfg.WLED) != 2 {
			t.Fatalf("expected two wled endpoints, got %d", len(cfg.WLED))
		}

		defaulted := cfg.WLED[0]
		if defaulted.Effect != "onset" || defaulted.TimeoutSec != 2 || defaulted.LEDsPerSecond != 60 {
			t.Errorf("expected default effect/timeout/leds_per_second, got %+v", defaulted)
		}

		explicit := cfg.WLED[1]
		if explicit.Effect != "spectrum" || !explicit.RGBW || explicit.TimeoutSec != 10 || explicit.LEDsPerSecond != 120 || !explicit.Centered {
			t.Errorf("expected every explicit wled field to survive parsing, got %+v", explicit)
		}
	})

	t.Run("Hue color_envelope override", func(t *testing.T) {
		configContent := `
[[hue]]
ip = "192.168.1.50"
area = "living-room"
channels = 5
color_envelope = true
`
		configPath := filepath.Join(tempDir, "hue_color_envelope.toml")
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(cfg.Hue) != 1 || !cfg.Hue[0].ColorEnvelope {
			t.Fatalf("expected color_envelope to parse true, got %+v", cfg.Hue)
		}
	})

	t.Run("Invalid hop/buffer ordering", func(t *testing.T) {
		cfg := &Config{Audio: AudioConfig{SampleRate: 48000, HopSize: 2048, BufferSize: 1024, FFTSize: 2048}, Detector: DetectorConfig{Algorithm: "hfc"}}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected validation error for hop_size > buffer_size")
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(tempDir, "does-not-exist.toml"))
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
	})
}
