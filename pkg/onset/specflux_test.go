package onset

import "testing"

func TestSpecFluxRequiresApplyMelBankFirst(t *testing.T) {
	sf := NewSpecFlux(DefaultSpecFluxConfig(10))
	spectrum := make([]float64, 513)

	sf.ApplyMelBank(make([]float64, 10))
	events := sf.Detect(spectrum, 0, 0)

	var sawRaw bool
	for _, ev := range events {
		if ev.Kind == Raw {
			sawRaw = true
		}
	}
	if !sawRaw {
		t.Error("expected a Raw diagnostic onset on every Detect call")
	}
}

func TestSpecFluxRisingEnergyEventuallyFires(t *testing.T) {
	sf := NewSpecFlux(DefaultSpecFluxConfig(10))
	spectrum := make([]float64, 513)

	quiet := make([]float64, 10)
	for i := 0; i < 15; i++ {
		sf.ApplyMelBank(quiet)
		sf.Detect(spectrum, 0, 0)
	}

	loud := make([]float64, 10)
	for i := range loud {
		loud[i] = 50.0
	}

	var sawFull bool
	for i := 0; i < 5; i++ {
		sf.ApplyMelBank(loud)
		events := sf.Detect(spectrum, 1.0, 1.0)
		for _, ev := range events {
			if ev.Kind == Full {
				sawFull = true
			}
		}
	}
	if !sawFull {
		t.Error("expected a sudden jump in mel energy to eventually fire a Full onset")
	}
}

func TestTriangularMaskShape(t *testing.T) {
	mask := triangularMask(20, 0.0, 0.15)
	var total float64
	for _, v := range mask {
		total += v
		if v < 0 || v > 1 {
			t.Errorf("mask weight out of [0,1]: %f", v)
		}
	}
	if total <= 0 {
		t.Error("expected a non-zero kick mask over the low-band range")
	}
}
