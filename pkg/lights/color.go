// Package lights implements the onset consumers (C7), their envelopes
// (C8), and the background polling helper (C9) that turns sink state into
// network datagrams for Hue Entertainment bridges and WLED LED strips.
package lights

import "github.com/lucasb-eyer/go-colorful"

// RGB16 is a 16-bit-per-channel colour, the resolution the Hue
// Entertainment wire format and the envelope maths operate in.
type RGB16 struct {
	R, G, B uint16
}

// RGBToHSV converts a 16-bit RGB colour to HSV via go-colorful's standard
// cylindrical conversion (colorful operates in 8-bit-equivalent float
// space internally; the 16-to-1.0 scaling below is the "RGB 8/16-bit is
// linear scaling by 65535/255" rule from the spec, generalised to floats).
func RGBToHSV(c RGB16) (h, s, v float64) {
	col := colorful.Color{
		R: float64(c.R) / 65535,
		G: float64(c.G) / 65535,
		B: float64(c.B) / 65535,
	}
	return col.Hsv()
}

// HSVToRGB converts HSV back to a 16-bit RGB colour.
func HSVToRGB(h, s, v float64) RGB16 {
	col := colorful.Hsv(h, s, v)
	clamp := func(f float64) uint16 {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		return uint16(f * 65535)
	}
	return RGB16{R: clamp(col.R), G: clamp(col.G), B: clamp(col.B)}
}

// lerp linearly interpolates between a and b at t in [0, 1].
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
