package core

import (
	"math"
	"testing"
)

func TestNormalizeSafeZeroVector(t *testing.T) {
	got := NormalizeSafe(Vector3{0, 0, 0})
	if got != (Vector3{0, 0, 0}) {
		t.Errorf("NormalizeSafe(zero) = %v, want zero vector", got)
	}
}

func TestNormalizeSafeUnitLength(t *testing.T) {
	got := NormalizeSafe(Vector3{3, 0, 4})
	if math.Abs(float64(got.Len()-1.0)) > 1e-6 {
		t.Errorf("NormalizeSafe(3,0,4).Len() = %f, want 1.0", got.Len())
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	cases := []Spherical{
		{R: 1, Theta: 0.5, Phi: 0.5},
		{R: 10, Theta: math.Pi / 2, Phi: -1.2},
		{R: 5, Theta: 0.01, Phi: 3.0},
	}
	for _, s := range cases {
		p := s.ToCartesian()
		back := ToSpherical(p)
		if math.Abs(float64(back.R-s.R)) > 1e-3 {
			t.Errorf("R round-trip: got %f want %f", back.R, s.R)
		}
		if math.Abs(float64(back.Theta-s.Theta)) > 1e-3 {
			t.Errorf("Theta round-trip: got %f want %f", back.Theta, s.Theta)
		}
		if math.Abs(float64(back.Phi-s.Phi)) > 1e-3 {
			t.Errorf("Phi round-trip: got %f want %f", back.Phi, s.Phi)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 {
		t.Error("Clamp should pass through in-range values")
	}
	if Clamp(-5, 0, 10) != 0 {
		t.Error("Clamp should floor to lo")
	}
	if Clamp(15, 0, 10) != 10 {
		t.Error("Clamp should ceiling to hi")
	}
}
