package pipeline

import "testing"

func testAssemblerSettings() Settings {
	return Settings{SampleRate: 48000, HopSize: 4, BufferSize: 8, FFTSize: 8, Channels: 1}
}

func TestAssemblerPushEmitsHopAlignedFrames(t *testing.T) {
	a := NewAssembler(testAssemblerSettings())

	// 6 samples: not enough for a full frame yet (frameSamples = 8*1 = 8)
	frames := a.Push(make([]float32, 6))
	if len(frames) != 0 {
		t.Fatalf("expected no frames yet, got %d", len(frames))
	}
	if a.Pending() != 6 {
		t.Errorf("expected 6 pending samples, got %d", a.Pending())
	}

	frames = a.Push(make([]float32, 2))
	if len(frames) != 1 {
		t.Fatalf("expected exactly one complete frame, got %d", len(frames))
	}
	if len(frames[0]) != 8 {
		t.Errorf("expected frame length 8, got %d", len(frames[0]))
	}
	if a.Pending() != 4 {
		t.Errorf("expected 4 samples pending after hop advance, got %d", a.Pending())
	}
}

func TestAssemblerMultipleFramesInOneBlock(t *testing.T) {
	a := NewAssembler(testAssemblerSettings())
	frames := a.Push(make([]float32, 20))
	// frameSamples=8, hopSamples=4: frames available at queue length 8,12,16,20 -> 4 frames? let's check: (20-8)/4+1 = 4
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
}

func TestAssemblerResetDiscardsPending(t *testing.T) {
	a := NewAssembler(testAssemblerSettings())
	a.Push(make([]float32, 5))
	a.Reset()
	if a.Pending() != 0 {
		t.Errorf("expected 0 pending samples after Reset, got %d", a.Pending())
	}
}
