package onset

// HFCConfig carries the per-band defaults recommended by the spec.
type HFCConfig struct {
	SampleRate int
	FFTSize    int

	LowCutoffHz  float64
	HighCutoffHz float64
	MidLowHz     float64
	MidHighHz    float64

	DrumClickWeight float64
	NoteClickWeight float64
}

// DefaultHFCConfig returns the recommended defaults from the spec's HFC
// table, parameterised only by the spectrum's sample rate and FFT size.
func DefaultHFCConfig(sampleRate, fftSize int) HFCConfig {
	return HFCConfig{
		SampleRate:      sampleRate,
		FFTSize:         fftSize,
		LowCutoffHz:     300,
		HighCutoffHz:    2000,
		MidLowHz:        200,
		MidHighHz:       3000,
		DrumClickWeight: 0.005,
		NoteClickWeight: 0.1,
	}
}

// HFC is the high-frequency-content onset detector: four weighted,
// bin-index-scaled sums over contiguous frequency ranges, each feeding its
// own dynamic threshold.
type HFC struct {
	cfg HFCConfig

	lowBin, highBin, midLowBin, midHighBin int
	binRes                                 float64

	drums    *DynamicThreshold
	hihat    *DynamicThreshold
	notes    *DynamicThreshold
	fullband *DynamicThreshold
}

// NewHFC builds an HFC detector with the recommended per-band threshold
// defaults (buffer/min_intensity/delta_intensity from the spec's table).
func NewHFC(cfg HFCConfig) *HFC {
	h := &HFC{
		cfg:    cfg,
		binRes: float64(cfg.SampleRate) / float64(cfg.FFTSize),

		drums:    NewDynamicThreshold(30, 0.3, 0.18),
		hihat:    NewDynamicThreshold(20, 0.3, 0.18),
		notes:    NewDynamicThreshold(20, 0.2, 0.15),
		fullband: NewDynamicThreshold(20, 0.2, 0.15),
	}
	h.lowBin = int(cfg.LowCutoffHz / h.binRes)
	h.highBin = int(cfg.HighCutoffHz / h.binRes)
	h.midLowBin = int(cfg.MidLowHz / h.binRes)
	h.midHighBin = int(cfg.MidHighHz / h.binRes)
	return h
}

// weightedSum computes Σ spectrum[k]*k over [lo, hi), clamped to the
// spectrum's bounds — the detector's "high-frequency content" weighting.
func weightedSum(spectrum []float64, lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}
	if hi > len(spectrum) {
		hi = len(spectrum)
	}
	var sum float64
	for k := lo; k < hi; k++ {
		sum += spectrum[k] * float64(k)
	}
	return sum
}

func argmax(spectrum []float64, lo, hi int) int {
	if lo < 0 {
		lo = 0
	}
	if hi > len(spectrum) {
		hi = len(spectrum)
	}
	best := lo
	bestVal := -1.0
	for k := lo; k < hi; k++ {
		if spectrum[k] > bestVal {
			bestVal = spectrum[k]
			best = k
		}
	}
	return best
}

// Detect implements the Detector contract.
func (h *HFC) Detect(spectrum []float64, peak, rms float64) []Onset {
	low := weightedSum(spectrum, h.lowBin, h.highBin)
	mid := weightedSum(spectrum, h.midLowBin, h.midHighBin)
	high := weightedSum(spectrum, h.highBin, len(spectrum))
	all := weightedSum(spectrum, 0, len(spectrum))

	var onsets []Onset
	onsets = append(onsets, event(Raw, all))

	if h.fullband.Exceeded(all) {
		onsets = append(onsets, event(Full, rms))
	} else {
		onsets = append(onsets, eventWithBin(Atmosphere, rms, argmax(spectrum, 0, len(spectrum))))
	}

	drumsWeight := low * h.cfg.DrumClickWeight * high
	if h.drums.Exceeded(drumsWeight) {
		onsets = append(onsets, event(Drum, rms))
	}

	notesWeight := mid + h.cfg.NoteClickWeight*high
	if h.notes.Exceeded(notesWeight) {
		onsets = append(onsets, eventWithBin(Note, rms, argmax(spectrum, h.midLowBin, h.midHighBin)))
	}

	if h.hihat.Exceeded(high) {
		onsets = append(onsets, event(Hihat, peak))
	}

	return onsets
}
