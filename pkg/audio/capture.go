// Package audio binds the pipeline to a live capture device via PortAudio.
// It owns the only goroutine in the system that must never block: the
// capture callback hands each interleaved block straight to the
// orchestrator's Assembler and returns.
package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Capture wraps a single PortAudio input stream delivering interleaved
// float32 samples to a caller-supplied callback.
type Capture struct {
	stream     *portaudio.Stream
	channels   int
	sampleRate float64
}

// Config describes the capture device binding.
type Config struct {
	DeviceName      string // empty selects the host default input device
	SampleRate      float64
	Channels        int
	FramesPerBuffer int
}

// Open initializes PortAudio and binds a stream for cfg, delivering each
// captured block to onSamples on PortAudio's own callback thread. onSamples
// must not block: it is expected to hand the block to a pipeline.Assembler
// and return immediately.
func Open(cfg Config, onSamples func([]float32)) (*Capture, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: portaudio init: %w", err)
	}

	device, err := resolveDevice(cfg.DeviceName)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      cfg.SampleRate,
		FramesPerBuffer: cfg.FramesPerBuffer,
	}

	callback := func(in []float32) {
		onSamples(in)
	}

	stream, err := portaudio.OpenStream(params, callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audio: open stream: %w", err)
	}

	return &Capture{stream: stream, channels: cfg.Channels, sampleRate: cfg.SampleRate}, nil
}

func resolveDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("audio: no default input device: %w", err)
		}
		return dev, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: enumerate devices: %w", err)
	}
	for _, d := range devices {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("audio: capture device %q not found", name)
}

// Start begins streaming; the callback given to Open starts firing.
func (c *Capture) Start() error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("audio: start stream: %w", err)
	}
	return nil
}

// Close stops the stream and releases PortAudio resources.
func (c *Capture) Close() error {
	if err := c.stream.Stop(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: stop stream: %w", err)
	}
	if err := c.stream.Close(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: close stream: %w", err)
	}
	return portaudio.Terminate()
}

// Channels reports the channel count the stream was opened with.
func (c *Capture) Channels() int {
	return c.channels
}
