package onset

import "math"

// DynamicThreshold is a normalised sliding-max adaptive threshold: a
// fixed-capacity ring of past inputs, weighted by a precomputed window of
// the same length, normalised against the ring's current maximum.
type DynamicThreshold struct {
	ring           []float64
	weights        []float64
	pos            int
	filled         int
	minIntensity   float64
	deltaIntensity float64
}

// NewDynamicThreshold builds a threshold with the given ring capacity and
// intensity parameters, using a Hann window as the weight sequence (the
// default recipe used throughout the reference detector configurations).
func NewDynamicThreshold(capacity int, minIntensity, deltaIntensity float64) *DynamicThreshold {
	return &DynamicThreshold{
		ring:           make([]float64, capacity),
		weights:        hannWeights(capacity),
		minIntensity:   minIntensity,
		deltaIntensity: deltaIntensity,
	}
}

func hannWeights(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// Push records v and returns the current threshold value.
func (d *DynamicThreshold) Push(v float64) float64 {
	d.ring[d.pos] = v
	d.pos = (d.pos + 1) % len(d.ring)
	if d.filled < len(d.ring) {
		d.filled++
	}

	max := 0.0
	for i := 0; i < d.filled; i++ {
		if d.ring[i] > max {
			max = d.ring[i]
		}
	}
	if max == 0 {
		return 0
	}

	var weighted float64
	for i := 0; i < d.filled; i++ {
		norm := d.ring[i] / max
		weighted += d.weights[i%len(d.weights)] * norm * norm
	}
	return (d.minIntensity + d.deltaIntensity*weighted) * max
}

// Exceeded reports whether v crossed its own threshold, pushing v in the
// same call (HFC calls Push once per band per frame via this method). An
// all-zero ring has threshold 0 and never counts as exceeded.
func (d *DynamicThreshold) Exceeded(v float64) bool {
	threshold := d.Push(v)
	return threshold > 0 && v >= threshold
}

// AdvancedThreshold implements the mean/max/noise-floor threshold with a
// refractory window and an emission delay expressed as a shift register,
// preventing a single transient straddling several frames from firing twice
// and surfacing each accepted onset exactly `delay` hops after it is
// detected.
type AdvancedThreshold struct {
	ring       []float64
	pos        int
	meanRange  int
	maxRange   int
	noiseRange int
	fixed      float64
	dynamic    float64
	delay      int
	cooldown   int
	pending    []bool
	pendingPos int
}

// AdvancedThresholdConfig carries the six tunable parameters named in the
// spec's refractory-threshold description.
type AdvancedThresholdConfig struct {
	MeanRange      int
	MaxRange       int
	ThresholdRange int
	Fixed          float64
	Dynamic        float64
	Delay          int
}

// NewAdvancedThreshold builds an advanced threshold per cfg.
func NewAdvancedThreshold(cfg AdvancedThresholdConfig) *AdvancedThreshold {
	l := cfg.MeanRange
	if cfg.MaxRange > l {
		l = cfg.MaxRange
	}
	if cfg.ThresholdRange > l {
		l = cfg.ThresholdRange
	}
	if l < 1 {
		l = 1
	}
	return &AdvancedThreshold{
		ring:       make([]float64, l),
		meanRange:  cfg.MeanRange,
		maxRange:   cfg.MaxRange,
		noiseRange: cfg.ThresholdRange,
		fixed:      cfg.Fixed,
		dynamic:    cfg.Dynamic,
		delay:      cfg.Delay,
		pending:    make([]bool, cfg.Delay),
	}
}

// Push records v and reports whether an onset is emitted THIS call — which
// corresponds to a candidate accepted exactly `delay` hops ago. A candidate
// is accepted only when it clears both the max and mean/noise-floor
// conjuncts AND no earlier accepted candidate is still within its
// refractory window, so two transients that straddle consecutive frames
// collapse into a single accepted onset.
func (a *AdvancedThreshold) Push(v float64) bool {
	maxPrev := a.windowMax(a.maxRange)
	meanPrev := a.windowMean(a.meanRange)
	normPrev := a.windowMean(a.noiseRange)

	a.ring[a.pos] = v
	a.pos = (a.pos + 1) % len(a.ring)

	var candidate bool
	if a.cooldown > 0 {
		a.cooldown--
	} else {
		candidate = v >= maxPrev && v >= meanPrev+normPrev*a.dynamic+a.fixed
		if candidate {
			a.cooldown = a.delay
		}
	}

	if len(a.pending) == 0 {
		return candidate
	}

	emit := a.pending[a.pendingPos]
	a.pending[a.pendingPos] = candidate
	a.pendingPos = (a.pendingPos + 1) % len(a.pending)
	return emit
}

// windowMax/windowMean read the oldest `n` entries of the ring, i.e. the
// entries about to be overwritten — matching the spec's "compute over the
// first mean_range/max_range/threshold_range ring entries" before the
// shift, read here before Push overwrites a.pos.
func (a *AdvancedThreshold) windowMax(n int) float64 {
	if n <= 0 {
		return 0
	}
	max := 0.0
	for i := 0; i < n && i < len(a.ring); i++ {
		idx := (a.pos + i) % len(a.ring)
		if a.ring[idx] > max {
			max = a.ring[idx]
		}
	}
	return max
}

func (a *AdvancedThreshold) windowMean(n int) float64 {
	if n <= 0 {
		return 0
	}
	var sum float64
	count := 0
	for i := 0; i < n && i < len(a.ring); i++ {
		idx := (a.pos + i) % len(a.ring)
		sum += a.ring[idx]
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
