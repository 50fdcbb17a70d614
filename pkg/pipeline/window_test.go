package pipeline

import "testing"

func TestCoefficientsHannEdges(t *testing.T) {
	coeffs := Coefficients(Hann, 1024)
	if len(coeffs) != 1024 {
		t.Fatalf("expected 1024 coefficients, got %d", len(coeffs))
	}
	if coeffs[0] != 0 {
		t.Errorf("expected Hann window to start at 0, got %f", coeffs[0])
	}
	for _, v := range coeffs {
		if v < -1e-9 || v > 1+1e-9 {
			t.Errorf("Hann coefficient out of [0,1] range: %f", v)
		}
	}
}

func TestCoefficientsTriangularPeak(t *testing.T) {
	coeffs := Coefficients(Triangular, 100)
	mid := coeffs[50]
	for i, v := range coeffs {
		if v > mid+1e-9 && i != 50 {
			t.Errorf("expected peak near center, index %d had larger value %f than center %f", i, v, mid)
		}
	}
}

func TestCoefficientsFlatTopLength(t *testing.T) {
	coeffs := Coefficients(FlatTop, 256)
	if len(coeffs) != 256 {
		t.Fatalf("expected 256 coefficients, got %d", len(coeffs))
	}
}
