package lights

import "testing"

func TestRGBHSVRoundTrip(t *testing.T) {
	cases := []RGB16{
		{R: 65535, G: 0, B: 0},
		{R: 0, G: 65535, B: 0},
		{R: 0, G: 0, B: 65535},
		{R: 32768, G: 16384, B: 8192},
	}
	for _, c := range cases {
		h, s, v := RGBToHSV(c)
		back := HSVToRGB(h, s, v)
		if absDiff16(c.R, back.R) > 500 || absDiff16(c.G, back.G) > 500 || absDiff16(c.B, back.B) > 500 {
			t.Errorf("RGB->HSV->RGB round trip drifted too far: %+v -> %+v", c, back)
		}
	}
}

func absDiff16(a, b uint16) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestLerp(t *testing.T) {
	if got := lerp(0, 10, 0.5); got != 5 {
		t.Errorf("lerp(0,10,0.5) = %f, want 5", got)
	}
	if got := lerp(2, 2, 0.7); got != 2 {
		t.Errorf("lerp with equal endpoints should return that value, got %f", got)
	}
}
