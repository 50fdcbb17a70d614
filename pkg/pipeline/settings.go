// Package pipeline implements the real-time audio analysis chain: frame
// assembly, channel reduction, windowed FFT, and mel-band reduction
// (components C1-C4 of the design).
package pipeline

import "fmt"

// WindowType selects the analysis window applied before the FFT.
type WindowType int

const (
	Hann WindowType = iota
	FlatTop
	Triangular
)

// ParseWindowType maps a configuration string to a WindowType, defaulting
// to Hann for anything unrecognised.
func ParseWindowType(s string) WindowType {
	switch s {
	case "flattop", "flat_top":
		return FlatTop
	case "triangular", "triangle":
		return Triangular
	default:
		return Hann
	}
}

// Settings are the immutable processing parameters shared by every stage.
// Invariant: HopSize <= BufferSize <= FFTSize.
type Settings struct {
	SampleRate int
	HopSize    int
	BufferSize int
	FFTSize    int
	Window     WindowType
	Channels   int
}

// Validate checks the ordering invariant the rest of the pipeline relies on.
func (s Settings) Validate() error {
	if s.HopSize <= 0 || s.BufferSize <= 0 || s.FFTSize <= 0 {
		return fmt.Errorf("pipeline: hop/buffer/fft sizes must be positive")
	}
	if s.HopSize > s.BufferSize {
		return fmt.Errorf("pipeline: hop_size (%d) must be <= buffer_size (%d)", s.HopSize, s.BufferSize)
	}
	if s.BufferSize > s.FFTSize {
		return fmt.Errorf("pipeline: buffer_size (%d) must be <= fft_size (%d)", s.BufferSize, s.FFTSize)
	}
	if s.Channels <= 0 {
		return fmt.Errorf("pipeline: channel count must be positive")
	}
	return nil
}

// SpectrumLen is the number of non-negative-frequency bins a real FFT of
// size FFTSize produces.
func (s Settings) SpectrumLen() int {
	return s.FFTSize/2 + 1
}

// BinResolution is the frequency width, in Hz, of one FFT bin.
func (s Settings) BinResolution() float64 {
	return float64(s.SampleRate) / float64(s.FFTSize)
}
