package lights

import (
	"testing"
	"time"
)

func TestFixedDecayEnvelopeDecaysToZero(t *testing.T) {
	e := NewFixedDecayEnvelope(20 * time.Millisecond)
	if v := e.Value(); v != 0 {
		t.Fatalf("expected zero value before any trigger, got %f", v)
	}

	e.Trigger(1.0)
	if v := e.Value(); v <= 0.5 {
		t.Errorf("expected value near 1.0 right after trigger, got %f", v)
	}

	time.Sleep(25 * time.Millisecond)
	if v := e.Value(); v != 0 {
		t.Errorf("expected envelope to reach zero after its decay length, got %f", v)
	}
}

func TestFixedDecayTriggerIfLouderIgnoresQuieterHits(t *testing.T) {
	e := NewFixedDecayEnvelope(100 * time.Millisecond)
	e.Trigger(0.8)
	e.TriggerIfLouder(0.2)
	if v := e.Value(); v < 0.7 {
		t.Errorf("expected a quieter hit not to override the louder envelope, got %f", v)
	}
	e.TriggerIfLouder(1.0)
	if v := e.Value(); v < 0.9 {
		t.Errorf("expected a louder hit to override, got %f", v)
	}
}

func TestDynamicDecayEnvelopeRatePerSecond(t *testing.T) {
	e := NewDynamicDecayEnvelope(10.0) // loses 10x strength per second -- decays fast
	e.Trigger(1.0)
	time.Sleep(150 * time.Millisecond)
	if v := e.Value(); v != 0 {
		t.Errorf("expected a fast decay rate to reach zero within 150ms, got %f", v)
	}
}

func TestColorEnvelopeInterpolatesTowardTarget(t *testing.T) {
	from := RGB16{R: 0, G: 0, B: 0}
	to := RGB16{R: 65535, G: 65535, B: 65535}
	ce := NewColorEnvelope(50*time.Millisecond, from, to)

	ce.Trigger(1.0)
	c := ce.Color()
	if c.R > 10000 {
		t.Errorf("expected colour to start near `from` immediately after trigger, got R=%d", c.R)
	}

	time.Sleep(60 * time.Millisecond)
	c = ce.Color()
	if c.R < 50000 {
		t.Errorf("expected colour to approach `to` once the envelope decays, got R=%d", c.R)
	}
}
