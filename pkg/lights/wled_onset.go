package lights

import (
	"time"

	"github.com/dougsko/musicsyncd/pkg/onset"
)

const (
	wledModeRGB  = 0x02
	wledModeRGBW = 0x03
)

// OnsetLEDSink is the onset LED-strip sink: a symmetric mirror display
// where kick (red), note (blue) and hihat (white) pixels extend outward
// from the strip's centre proportional to their envelopes.
type OnsetLEDSink struct {
	BaseSink

	ledCount   int
	rgbw       bool
	timeoutSec byte

	kick  *DynamicDecayEnvelope
	note  *DynamicDecayEnvelope
	hihat *FixedDecayEnvelope
}

// NewOnsetLEDSink builds an onset-mode LED strip sink for ledCount pixels.
func NewOnsetLEDSink(ledCount int, rgbw bool, timeoutSec byte) *OnsetLEDSink {
	return &OnsetLEDSink{
		ledCount:   ledCount,
		rgbw:       rgbw,
		timeoutSec: timeoutSec,
		kick:       NewDynamicDecayEnvelope(2.0),
		note:       NewDynamicDecayEnvelope(4.0),
		hihat:      NewFixedDecayEnvelope(200 * time.Millisecond),
	}
}

func (o *OnsetLEDSink) ProcessOnset(ev onset.Onset) {
	switch ev.Kind {
	case onset.Drum:
		o.kick.TriggerIfLouder(ev.Strength)
	case onset.Note:
		o.note.TriggerIfLouder(ev.Strength)
	case onset.Hihat:
		o.hihat.TriggerIfLouder(ev.Strength)
	}
}

func (o *OnsetLEDSink) ProcessOnsets(list []onset.Onset) {
	for _, ev := range list {
		o.ProcessOnset(ev)
	}
}

func extent(value float64, half int) int {
	n := int(value * float64(half))
	if n > half {
		n = half
	}
	if n < 0 {
		n = 0
	}
	return n
}

// Poll implements Pollable: 1-byte mode, 1-byte timeout, then per-LED
// colour bytes, mirrored outward from the strip centre.
func (o *OnsetLEDSink) Poll() []byte {
	kickVal := o.kick.Value()
	noteVal := o.note.Value()
	hihatVal := o.hihat.Value()

	half := o.ledCount / 2
	kickExtent := extent(kickVal, half)
	noteExtent := extent(noteVal, half)
	whiteExtent := extent(hihatVal, half)

	bpp := 3
	if o.rgbw {
		bpp = 4
	}
	out := make([]byte, 2+o.ledCount*bpp)
	out[0] = wledModeRGB
	if o.rgbw {
		out[0] = wledModeRGBW
	}
	out[1] = o.timeoutSec

	center := half
	for i := 0; i < o.ledCount; i++ {
		dist := i - center
		if dist < 0 {
			dist = -dist
		}
		var r, g, b, w byte
		if dist < kickExtent {
			r = 255
		}
		if dist < noteExtent {
			b = 255
		}
		if o.rgbw {
			if dist < whiteExtent {
				w = 255
			}
		} else if dist < whiteExtent {
			g = 255
		}

		off := 2 + i*bpp
		out[off] = r
		out[off+1] = g
		out[off+2] = b
		if o.rgbw {
			out[off+3] = w
		}
	}
	return out
}
