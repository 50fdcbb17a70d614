package pipeline

import "testing"

func testReduceSettings() Settings {
	return Settings{SampleRate: 48000, HopSize: 4, BufferSize: 4, FFTSize: 8, Window: Hann, Channels: 2}
}

func TestProcessRawSilenceIsZero(t *testing.T) {
	ab := NewAnalysisBuffer(testReduceSettings())
	ab.ProcessRaw(make([]float32, 8)) // 4 samples * 2 channels

	if ab.Peak != 0 || ab.RMS != 0 {
		t.Errorf("expected zero peak/rms for silence, got peak=%f rms=%f", ab.Peak, ab.RMS)
	}
	for _, v := range ab.Spectrum {
		if v != 0 {
			t.Fatalf("expected zero spectrum for silence, got %v", ab.Spectrum)
		}
	}
}

func TestProcessRawComputesPeakAndMono(t *testing.T) {
	ab := NewAnalysisBuffer(testReduceSettings())
	// 4 frames, 2 channels interleaved: L,R pairs
	interleaved := []float32{1.0, -1.0, 0.5, -0.5, 0.25, -0.25, 0.1, -0.1}
	ab.ProcessRaw(interleaved)

	if ab.Peak != 1.0 {
		t.Errorf("expected peak 1.0, got %f", ab.Peak)
	}
	if ab.Mono[0] != 0 {
		t.Errorf("expected mono[0] to average to 0 for +1/-1, got %f", ab.Mono[0])
	}
	if ab.RMS <= 0 {
		t.Errorf("expected positive RMS for non-silent input, got %f", ab.RMS)
	}
}

func TestProcessRawProducesNonZeroSpectrumForTone(t *testing.T) {
	ab := NewAnalysisBuffer(testReduceSettings())
	interleaved := []float32{1, 1, -1, -1, 1, 1, -1, -1}
	ab.ProcessRaw(interleaved)

	var total float64
	for _, v := range ab.Spectrum {
		total += v
	}
	if total <= 0 {
		t.Errorf("expected non-zero spectral energy for alternating tone, got total=%f", total)
	}
}
