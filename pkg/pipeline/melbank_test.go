package pipeline

import (
	"math"
	"testing"
)

func TestMelBankBandsAndWeights(t *testing.T) {
	s := Settings{SampleRate: 48000, FFTSize: 1024}
	mb := NewMelBank(s, 10, 24000)

	if mb.Bands() != 10 {
		t.Fatalf("expected 10 bands, got %d", mb.Bands())
	}
	if len(mb.weights) != 10 {
		t.Fatalf("expected 10 weight rows, got %d", len(mb.weights))
	}
	for i, row := range mb.weights {
		if len(row) != s.SpectrumLen() {
			t.Fatalf("band %d: expected row length %d, got %d", i, s.SpectrumLen(), len(row))
		}
	}
}

func TestMelBankApplyAggregatesEnergy(t *testing.T) {
	s := Settings{SampleRate: 48000, FFTSize: 1024}
	mb := NewMelBank(s, 8, 24000)

	spectrum := make([]float64, s.SpectrumLen())
	for i := range spectrum {
		spectrum[i] = 1.0
	}
	dst := make([]float64, mb.Bands())
	mb.Apply(spectrum, dst)

	for i, v := range dst {
		if v <= 0 {
			t.Errorf("band %d: expected positive energy for flat unit spectrum, got %f", i, v)
		}
	}
}

func TestHzMelRoundTrip(t *testing.T) {
	for _, hz := range []float64{0, 100, 1000, 8000, 20000} {
		mel := hzToMel(hz)
		back := melToHz(mel)
		if math.Abs(back-hz) > 1e-6 {
			t.Errorf("hz->mel->hz round trip failed for %f: got %f", hz, back)
		}
	}
}

func TestMelBankClampsMaxFreqToNyquist(t *testing.T) {
	s := Settings{SampleRate: 8000, FFTSize: 256}
	mb := NewMelBank(s, 4, 100000) // way above nyquist
	if mb.Bands() != 4 {
		t.Fatalf("expected 4 bands even with out-of-range max freq, got %d", mb.Bands())
	}
}
