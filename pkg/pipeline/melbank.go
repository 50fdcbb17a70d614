package pipeline

import "math"

// MelBank is C4: a bank of overlapping triangular filters spaced evenly on
// the mel scale, used to collapse a linear-frequency magnitude spectrum
// down to a small number of perceptually-spaced bands before onset
// detection. No library in the retrieval pack implements mel filter banks
// (the DSP libraries present only cover raw FFTs), so this is hand-rolled
// stdlib math rather than a wired dependency.
type MelBank struct {
	bands   int
	weights [][]float64 // bands x SpectrumLen
}

// NewMelBank builds a mel filter bank covering 0Hz to maxFreqHz over the
// spectrum produced by s, with the given number of triangular bands.
func NewMelBank(s Settings, bands int, maxFreqHz int) *MelBank {
	specLen := s.SpectrumLen()
	nyquist := s.SampleRate / 2
	if maxFreqHz <= 0 || maxFreqHz > nyquist {
		maxFreqHz = nyquist
	}

	melMin := hzToMel(0)
	melMax := hzToMel(float64(maxFreqHz))

	// bands+2 equally spaced points on the mel scale give `bands` triangles.
	points := make([]float64, bands+2)
	for i := range points {
		points[i] = melMin + (melMax-melMin)*float64(i)/float64(bands+1)
	}

	binOf := func(hz float64) int {
		bin := int(math.Round(hz / s.BinResolution()))
		if bin < 0 {
			bin = 0
		}
		if bin > specLen-1 {
			bin = specLen - 1
		}
		return bin
	}

	bins := make([]int, len(points))
	for i, m := range points {
		bins[i] = binOf(melToHz(m))
	}

	mb := &MelBank{bands: bands, weights: make([][]float64, bands)}
	for b := 0; b < bands; b++ {
		left, center, right := bins[b], bins[b+1], bins[b+2]
		row := make([]float64, specLen)
		for k := left; k < center && k < specLen; k++ {
			if center != left {
				row[k] = float64(k-left) / float64(center-left)
			}
		}
		for k := center; k < right && k < specLen; k++ {
			if right != center {
				row[k] = float64(right-k) / float64(right-center)
			}
		}
		mb.weights[b] = row
	}
	return mb
}

// Bands reports the number of mel bands this bank produces.
func (mb *MelBank) Bands() int {
	return mb.bands
}

// Apply collapses a linear-frequency magnitude spectrum into mel-band
// energies, writing into dst (which must have length Bands()).
func (mb *MelBank) Apply(spectrum []float64, dst []float64) {
	for b, row := range mb.weights {
		var sum float64
		n := len(row)
		if n > len(spectrum) {
			n = len(spectrum)
		}
		for k := 0; k < n; k++ {
			sum += row[k] * spectrum[k]
		}
		dst[b] = sum
	}
}

func hzToMel(hz float64) float64 {
	return 1127 * math.Log1p(hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Exp(mel/1127) - 1)
}
