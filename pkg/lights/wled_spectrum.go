package lights

import (
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dougsko/musicsyncd/pkg/onset"
)

// onePoleFilter is a first-order (single real pole) low-pass or high-pass
// IIR filter. No DSP filter library appears anywhere in the retrieval
// pack (the one FFT library present is spectral, not a filter design
// toolkit), so the Butterworth-class low/high split the spec calls for is
// approximated here with the standard one-pole RC recurrence rather than
// a wired dependency.
type onePoleFilter struct {
	alpha   float64
	prevIn  float64
	prevOut float64
	lowpass bool
}

func newOnePole(cutoffHz, sampleRate float64, lowpass bool) *onePoleFilter {
	rc := 1 / (2 * math.Pi * cutoffHz)
	dt := 1 / sampleRate
	alpha := dt / (rc + dt)
	return &onePoleFilter{alpha: alpha, lowpass: lowpass}
}

func (f *onePoleFilter) process(x float64) float64 {
	if f.lowpass {
		f.prevOut += f.alpha * (x - f.prevOut)
		return f.prevOut
	}
	out := f.alpha * (f.prevOut + x - f.prevIn)
	f.prevIn = x
	f.prevOut = out
	return out
}

func rms(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum / float64(len(v)))
}

// SpectrumLEDSink is the spectrum LED-strip sink: it splits incoming
// mono samples into low/mid/high band energies every samples_per_led
// samples and pushes a colour into a ring buffer the length of the strip.
type SpectrumLEDSink struct {
	BaseSink

	mu            sync.Mutex
	ledCount      int
	samplesPerLED int
	centered      bool
	timeoutSec    byte

	pending []float64
	ring    [][3]byte // head = most recent

	low, high *onePoleFilter
	brightness *DynamicDecayEnvelope
}

// NewSpectrumLEDSink builds a spectrum-mode LED strip sink. sampleRate and
// ledsPerSecond determine samples_per_led = ceil(sampleRate/ledsPerSecond).
func NewSpectrumLEDSink(ledCount int, sampleRate float64, ledsPerSecond float64, centered bool, timeoutSec byte) *SpectrumLEDSink {
	samplesPerLED := int(math.Ceil(sampleRate / ledsPerSecond))
	if samplesPerLED < 1 {
		samplesPerLED = 1
	}
	ring := make([][3]byte, ledCount)
	return &SpectrumLEDSink{
		ledCount:      ledCount,
		samplesPerLED: samplesPerLED,
		centered:      centered,
		timeoutSec:    timeoutSec,
		ring:          ring,
		low:           newOnePole(240, sampleRate, true),
		high:          newOnePole(2400, sampleRate, false),
		brightness:    NewDynamicDecayEnvelope(1.0),
	}
}

func (s *SpectrumLEDSink) ProcessOnset(o onset.Onset) {
	if o.Kind == onset.Full {
		s.mu.Lock()
		s.brightness.TriggerIfLouder(o.Strength)
		s.mu.Unlock()
	}
}

func (s *SpectrumLEDSink) ProcessOnsets(list []onset.Onset) {
	for _, o := range list {
		s.ProcessOnset(o)
	}
}

// ProcessSamples appends mono samples, rendering a new head pixel for
// every complete samples_per_led sub-window.
func (s *SpectrumLEDSink) ProcessSamples(mono []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, mono...)
	for len(s.pending) >= s.samplesPerLED {
		window := s.pending[:s.samplesPerLED]
		s.pushPixel(s.renderPixel(window))
		s.pending = s.pending[s.samplesPerLED:]
	}
}

func (s *SpectrumLEDSink) renderPixel(window []float64) [3]byte {
	lowVals := make([]float64, len(window))
	highVals := make([]float64, len(window))
	for i, x := range window {
		lowVals[i] = s.low.process(x)
		highVals[i] = s.high.process(x)
	}

	total := rms(window)
	low := rms(lowVals)
	high := rms(highVals)
	mid := total - low - high
	if mid < 0 {
		mid = 0
	}

	max := low
	if mid > max {
		max = mid
	}
	if high > max {
		max = high
	}
	if max == 0 {
		return [3]byte{}
	}

	r := low / max
	g := mid / max
	b := high / max

	col := colorful.Color{R: r, G: g, B: b}
	h, _, _ := col.Hsv()
	value := s.brightness.Value()
	out := colorful.Hsv(h, 1, value)

	return [3]byte{
		byte(clamp01(out.R) * 255),
		byte(clamp01(out.G) * 255),
		byte(clamp01(out.B) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (s *SpectrumLEDSink) pushPixel(pixel [3]byte) {
	copy(s.ring[1:], s.ring[:len(s.ring)-1])
	s.ring[0] = pixel
}

func (s *SpectrumLEDSink) Update() {}

// Poll implements Pollable: 2-byte prefix, then the ring contents in strip
// order (or split outward from the middle when centered).
func (s *SpectrumLEDSink) Poll() []byte {
	s.mu.Lock()
	ring := make([][3]byte, len(s.ring))
	copy(ring, s.ring)
	s.mu.Unlock()

	out := make([]byte, 2+len(ring)*3)
	out[0] = wledModeRGB
	out[1] = s.timeoutSec

	if !s.centered {
		for i, px := range ring {
			off := 2 + i*3
			out[off], out[off+1], out[off+2] = px[0], px[1], px[2]
		}
		return out
	}

	center := len(ring) / 2
	for i := 0; i < len(ring); i++ {
		dist := i - center
		if dist < 0 {
			dist = -dist
		}
		src := ring[dist]
		off := 2 + i*3
		out[off], out[off+1], out[off+2] = src[0], src[1], src[2]
	}
	return out
}
