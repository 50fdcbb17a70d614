package lights

import (
	"sync"
	"time"
)

// Envelope is a stateful decaying value in [0, 1], triggered by an onset
// and read asynchronously by a polling goroutine. Time is always wall
// clock via time.Now()/time.Since, never derived from frame counts.
type Envelope interface {
	Trigger(strength float64)
	Value() float64
}

// FixedDecayEnvelope decays linearly to zero over a fixed length.
type FixedDecayEnvelope struct {
	mu          sync.Mutex
	triggeredAt time.Time
	length      time.Duration
	strength    float64
}

// NewFixedDecayEnvelope builds an envelope that reaches zero `length`
// after being triggered.
func NewFixedDecayEnvelope(length time.Duration) *FixedDecayEnvelope {
	return &FixedDecayEnvelope{length: length}
}

// Trigger sets the envelope's strength and resets its decay clock.
func (e *FixedDecayEnvelope) Trigger(strength float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.triggeredAt = time.Now()
	e.strength = strength
}

// TriggerIfLouder triggers only if strength exceeds the envelope's current
// value, so louder events override a still-decaying envelope but softer
// ones do not.
func (e *FixedDecayEnvelope) TriggerIfLouder(strength float64) {
	if strength > e.Value() {
		e.Trigger(strength)
	}
}

// Value returns max(0, strength*(1-elapsed/length)).
func (e *FixedDecayEnvelope) Value() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.triggeredAt.IsZero() || e.length <= 0 {
		return 0
	}
	elapsed := time.Since(e.triggeredAt)
	if elapsed >= e.length {
		return 0
	}
	frac := 1 - float64(elapsed)/float64(e.length)
	v := e.strength * frac
	if v < 0 {
		return 0
	}
	return v
}

// DynamicDecayEnvelope decays at a fixed rate per second rather than over
// a fixed total length.
type DynamicDecayEnvelope struct {
	mu          sync.Mutex
	triggeredAt time.Time
	ratePerSec  float64
	strength    float64
}

// NewDynamicDecayEnvelope builds an envelope that loses ratePerSec of its
// initial strength every second.
func NewDynamicDecayEnvelope(ratePerSec float64) *DynamicDecayEnvelope {
	return &DynamicDecayEnvelope{ratePerSec: ratePerSec}
}

func (e *DynamicDecayEnvelope) Trigger(strength float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.triggeredAt = time.Now()
	e.strength = strength
}

// TriggerIfLouder triggers only if strength exceeds the envelope's current
// value.
func (e *DynamicDecayEnvelope) TriggerIfLouder(strength float64) {
	if strength > e.Value() {
		e.Trigger(strength)
	}
}

// Value returns max(0, s - s*elapsed*rate).
func (e *DynamicDecayEnvelope) Value() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.triggeredAt.IsZero() {
		return 0
	}
	elapsed := time.Since(e.triggeredAt).Seconds()
	v := e.strength - e.strength*elapsed*e.ratePerSec
	if v < 0 {
		return 0
	}
	return v
}

// ColorEnvelope embeds a fixed-decay envelope and interpolates between two
// HSV colours as the envelope decays, so the displayed colour drifts from
// `from` to `to` over the envelope's life.
type ColorEnvelope struct {
	env        *FixedDecayEnvelope
	fromH, fromS, fromV float64
	toH, toS, toV       float64
}

// NewColorEnvelope builds a colour envelope that decays over `length`,
// interpolating from `from` toward `to` in HSV space.
func NewColorEnvelope(length time.Duration, from, to RGB16) *ColorEnvelope {
	fh, fs, fv := RGBToHSV(from)
	th, ts, tv := RGBToHSV(to)
	return &ColorEnvelope{
		env:   NewFixedDecayEnvelope(length),
		fromH: fh, fromS: fs, fromV: fv,
		toH: th, toS: ts, toV: tv,
	}
}

func (c *ColorEnvelope) Trigger(strength float64) {
	c.env.Trigger(strength)
}

// TriggerIfLouder triggers only if strength exceeds the embedded
// envelope's current value.
func (c *ColorEnvelope) TriggerIfLouder(strength float64) {
	c.env.TriggerIfLouder(strength)
}

func (c *ColorEnvelope) Value() float64 {
	return c.env.Value()
}

// Color computes t = s - Value() (so t moves 0 -> s over the envelope's
// life) and interpolates component-wise in HSV, returning 16-bit RGB.
func (c *ColorEnvelope) Color() RGB16 {
	c.env.mu.Lock()
	s := c.env.strength
	c.env.mu.Unlock()

	v := c.Value()
	t := s - v
	if s == 0 {
		t = 0
	} else {
		t /= s
	}

	h := lerp(c.fromH, c.toH, t)
	sat := lerp(c.fromS, c.toS, t)
	val := lerp(c.fromV, c.toV, t)
	return HSVToRGB(h, sat, val)
}
