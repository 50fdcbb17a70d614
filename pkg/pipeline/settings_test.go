package pipeline

import "testing"

func TestSettingsValidate(t *testing.T) {
	t.Run("Valid Settings", func(t *testing.T) {
		s := Settings{SampleRate: 48000, HopSize: 480, BufferSize: 1024, FFTSize: 1024, Channels: 2}
		if err := s.Validate(); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
	})

	t.Run("Hop Larger Than Buffer", func(t *testing.T) {
		s := Settings{SampleRate: 48000, HopSize: 2048, BufferSize: 1024, FFTSize: 1024, Channels: 2}
		if err := s.Validate(); err == nil {
			t.Fatal("expected error for hop_size > buffer_size")
		}
	})

	t.Run("Buffer Larger Than FFT", func(t *testing.T) {
		s := Settings{SampleRate: 48000, HopSize: 480, BufferSize: 2048, FFTSize: 1024, Channels: 2}
		if err := s.Validate(); err == nil {
			t.Fatal("expected error for buffer_size > fft_size")
		}
	})

	t.Run("Zero Channels", func(t *testing.T) {
		s := Settings{SampleRate: 48000, HopSize: 480, BufferSize: 1024, FFTSize: 1024, Channels: 0}
		if err := s.Validate(); err == nil {
			t.Fatal("expected error for zero channels")
		}
	})
}

func TestSpectrumLenAndBinResolution(t *testing.T) {
	s := Settings{SampleRate: 48000, FFTSize: 1024}
	if got := s.SpectrumLen(); got != 513 {
		t.Errorf("expected spectrum length 513, got %d", got)
	}
	if got := s.BinResolution(); got < 46.8 || got > 46.9 {
		t.Errorf("expected bin resolution ~46.875Hz, got %f", got)
	}
}

func TestParseWindowType(t *testing.T) {
	cases := map[string]WindowType{
		"hann":       Hann,
		"":           Hann,
		"flattop":    FlatTop,
		"flat_top":   FlatTop,
		"triangular": Triangular,
		"triangle":   Triangular,
		"bogus":      Hann,
	}
	for input, want := range cases {
		if got := ParseWindowType(input); got != want {
			t.Errorf("ParseWindowType(%q) = %v, want %v", input, got, want)
		}
	}
}
