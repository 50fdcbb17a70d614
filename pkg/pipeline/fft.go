package pipeline

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// applyFFT runs C3: window each channel's time-domain samples, zero-pad to
// FFTSize (already zeroed by ProcessRaw), run a real-input forward FFT, and
// reduce to a magnitude spectrum. per_channel[c] is then averaged into the
// channel-summary Spectrum.
func (ab *AnalysisBuffer) applyFFT() {
	s := ab.Settings
	normalize := 1.0 / math.Sqrt(float64(s.BufferSize))

	for i := range ab.Spectrum {
		ab.Spectrum[i] = 0
	}

	for ch := 0; ch < s.Channels; ch++ {
		windowed := make([]float64, s.FFTSize)
		for i := 0; i < s.BufferSize; i++ {
			windowed[i] = ab.raw[ch][i] * ab.window[i]
		}
		// samples beyond BufferSize are already zero (the analysis window
		// only covers the buffer; the remainder is zero-padding for the FFT)

		spectrum := fft.FFTReal(windowed)
		mag := ab.PerChannel[ch]
		for k := range mag {
			mag[k] = cmplx.Abs(spectrum[k]) * normalize
		}
		for k, v := range mag {
			ab.Spectrum[k] += v
		}
	}

	inv := 1.0 / float64(s.Channels)
	for k := range ab.Spectrum {
		ab.Spectrum[k] *= inv
	}
}
