package lights

import (
	"testing"

	"github.com/dougsko/musicsyncd/pkg/onset"
)

func TestOnsetLEDSinkDatagramHeader(t *testing.T) {
	s := NewOnsetLEDSink(30, false, 2)
	d := s.Poll()

	if d[0] != wledModeRGB {
		t.Errorf("expected RGB mode byte, got 0x%02x", d[0])
	}
	if d[1] != 2 {
		t.Errorf("expected timeout byte 2, got %d", d[1])
	}
	if len(d) != 2+30*3 {
		t.Fatalf("expected RGB datagram length %d, got %d", 2+30*3, len(d))
	}
}

func TestOnsetLEDSinkRGBWMode(t *testing.T) {
	s := NewOnsetLEDSink(10, true, 1)
	d := s.Poll()
	if d[0] != wledModeRGBW {
		t.Errorf("expected RGBW mode byte, got 0x%02x", d[0])
	}
	if len(d) != 2+10*4 {
		t.Fatalf("expected RGBW datagram length %d, got %d", 2+10*4, len(d))
	}
}

func TestOnsetLEDSinkKickLightsCenterPixelRed(t *testing.T) {
	s := NewOnsetLEDSink(20, false, 2)
	s.ProcessOnset(onset.Onset{Kind: onset.Drum, Strength: 1.0})
	d := s.Poll()

	center := 20 / 2
	off := 2 + center*3
	if d[off] != 255 {
		t.Errorf("expected the center pixel's red channel lit after a full-strength kick, got %d", d[off])
	}
}

func TestExtentClampsToHalf(t *testing.T) {
	if got := extent(2.0, 10); got != 10 {
		t.Errorf("expected extent to clamp to half=10, got %d", got)
	}
	if got := extent(-1.0, 10); got != 0 {
		t.Errorf("expected extent to clamp negative values to 0, got %d", got)
	}
}
