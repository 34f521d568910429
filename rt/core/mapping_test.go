package core

import (
	"math"
	"testing"
)

func TestDiskUVOutOfRangeReturnsZeroOne(t *testing.T) {
	u, v := DiskUV(1.0, 0, 2.6, 12.0)
	if u != 0 || v != 1 {
		t.Errorf("DiskUV(below inner) = (%f, %f), want (0, 1)", u, v)
	}
	u, v = DiskUV(20.0, 0, 2.6, 12.0)
	if u != 0 || v != 1 {
		t.Errorf("DiskUV(beyond outer) = (%f, %f), want (0, 1)", u, v)
	}
}

func TestDiskUVSnapsToMirroredColumns(t *testing.T) {
	u, _ := DiskUV(5, 0, 2.6, 12.0)
	if u != 0.49 {
		t.Errorf("DiskUV(phi=0) u = %f, want 0.49", u)
	}
	u, _ = DiskUV(5, float32(math.Pi), 2.6, 12.0)
	if u != 0.51 {
		t.Errorf("DiskUV(phi=pi) u = %f, want 0.51", u)
	}
}

func TestSkyUVWrapsIntoUnitRange(t *testing.T) {
	cases := []struct{ theta, phi float32 }{
		{0, 0},
		{float32(math.Pi), float32(2 * math.Pi)},
		{-1.0, -7.0},
		{100.0, 100.0},
	}
	for _, c := range cases {
		u, v := SkyUV(c.theta, c.phi)
		if u < 0 || u >= 1 {
			t.Errorf("SkyUV(%f,%f) u = %f, want in [0,1)", c.theta, c.phi, u)
		}
		if v < 0 || v >= 1 {
			t.Errorf("SkyUV(%f,%f) v = %f, want in [0,1)", c.theta, c.phi, v)
		}
	}
}

func TestSampleDiskOutOfRangeSamplesZeroOne(t *testing.T) {
	called := false
	sampler := func(u, v float32) Color {
		called = true
		if u != 0 || v != 1 {
			t.Errorf("sampler called with (%f,%f), want (0,1)", u, v)
		}
		return Color{}
	}
	SampleDisk(sampler, 1.0, 0, 2.6, 12.0)
	if !called {
		t.Error("sampler was never called")
	}
}

func TestSampleDiskBlendsWithinSeamBand(t *testing.T) {
	left := Color{255, 0, 0, 255}
	right := Color{0, 0, 255, 255}
	sampler := func(u, v float32) Color {
		if u == seamLeftU {
			return left
		}
		if u == seamRightU {
			return right
		}
		t.Fatalf("unexpected u = %f", u)
		return Color{}
	}

	// rawU at the band midpoint -> middle third -> even blend.
	midPhi := (seamBandLo + (seamBandHi-seamBandLo)*0.5) * twoPi
	got := SampleDisk(sampler, 5, midPhi, 2.6, 12.0)
	if got.R == left.R || got.B == right.B {
		t.Errorf("expected a blended color, got %+v", got)
	}

	// rawU near the left edge -> left third -> pure left sample.
	leftPhi := (seamBandLo + (seamBandHi-seamBandLo)*0.01) * twoPi
	gotLeft := SampleDisk(sampler, 5, leftPhi, 2.6, 12.0)
	if gotLeft != left {
		t.Errorf("SampleDisk near left seam edge = %+v, want %+v", gotLeft, left)
	}

	// rawU near the right edge -> right third -> pure right sample.
	rightPhi := (seamBandLo + (seamBandHi-seamBandLo)*0.99) * twoPi
	gotRight := SampleDisk(sampler, 5, rightPhi, 2.6, 12.0)
	if gotRight != right {
		t.Errorf("SampleDisk near right seam edge = %+v, want %+v", gotRight, right)
	}
}

func TestBlendColorHalfway(t *testing.T) {
	a := Color{0, 0, 0, 0}
	b := Color{255, 255, 255, 255}
	got := blendColor(a, b, 0.5)
	want := Color{127, 127, 127, 127}
	if got != want {
		t.Errorf("blendColor halfway = %+v, want %+v", got, want)
	}
}
