package pipeline

import "math"

// flatTopCoeffs are the fixed FlatTop window coefficients (A0..A4), as given
// by the reference implementation.
var flatTopCoeffs = [5]float64{0.21557895, 0.41663158, 0.27726316, 0.083578947, 0.006947368}

// Coefficients returns the length-L window function sampled at n=0..L-1.
func Coefficients(w WindowType, length int) []float64 {
	out := make([]float64, length)
	l := float64(length)

	switch w {
	case Hann:
		for n := range out {
			out[n] = 0.5 * (1 - math.Cos(2*math.Pi*float64(n)/l))
		}
	case FlatTop:
		a := flatTopCoeffs
		for n := range out {
			x := float64(n)
			out[n] = a[0] -
				a[1]*math.Cos(2*math.Pi*x/l) +
				a[2]*math.Cos(4*math.Pi*x/l) -
				a[3]*math.Cos(6*math.Pi*x/l) +
				a[4]*math.Cos(8*math.Pi*x/l)
		}
	case Triangular:
		for n := range out {
			out[n] = 1 - math.Abs(2*float64(n)/l-1)
		}
	default:
		for n := range out {
			out[n] = 0.5 * (1 - math.Cos(2*math.Pi*float64(n)/l))
		}
	}
	return out
}
