package core

import (
	"math"
	"testing"
)

func TestAccumulateFirstFrameIsDirectWrite(t *testing.T) {
	sample := Color{10, 20, 30, 255}
	got := Accumulate(AccumulatedColor{R: 200, G: 200, B: 200, A: 200}, sample, 0)
	want := FromColor(sample)
	if got != want {
		t.Errorf("Accumulate at frame 0 = %+v, want direct write %+v", got, want)
	}
}

func TestAccumulateConvergesToArithmeticMean(t *testing.T) {
	samples := []Color{
		{100, 0, 0, 255},
		{0, 200, 0, 255},
		{0, 0, 50, 255},
		{40, 40, 40, 255},
	}
	var acc AccumulatedColor
	for f, s := range samples {
		acc = Accumulate(acc, s, uint32(f))
	}

	var wantR, wantG, wantB float32
	for _, s := range samples {
		wantR += float32(s.R)
		wantG += float32(s.G)
		wantB += float32(s.B)
	}
	n := float32(len(samples))
	wantR, wantG, wantB = wantR/n, wantG/n, wantB/n

	tol := 1e-3
	if math.Abs(float64(acc.R-wantR)) > tol || math.Abs(float64(acc.G-wantG)) > tol || math.Abs(float64(acc.B-wantB)) > tol {
		t.Errorf("Accumulate result %+v, want mean (%f,%f,%f)", acc, wantR, wantG, wantB)
	}
}

func TestAccumulationWeightAtZeroIsZero(t *testing.T) {
	if AccumulationWeight(0) != 0 {
		t.Errorf("AccumulationWeight(0) = %f, want 0", AccumulationWeight(0))
	}
}

func TestAccumulationWeightApproachesOne(t *testing.T) {
	w := AccumulationWeight(999)
	if w < 0.99 {
		t.Errorf("AccumulationWeight(999) = %f, want close to 1", w)
	}
}

func TestResetForcesDirectWriteOverStaleAccumulator(t *testing.T) {
	stale := AccumulatedColor{R: 9000, G: 9000, B: 9000, A: 9000}
	fresh := Accumulate(stale, Color{1, 2, 3, 255}, 0)
	if fresh.R != 1 || fresh.G != 2 || fresh.B != 3 {
		t.Errorf("reset (frame=0) should discard stale accumulator, got %+v", fresh)
	}
}

func TestToColorRoundsAndClamps(t *testing.T) {
	a := AccumulatedColor{R: 254.6, G: -10, B: 300, A: 255}
	got := a.ToColor()
	if got.R != 255 {
		t.Errorf("R = %d, want rounded to 255", got.R)
	}
	if got.G != 0 {
		t.Errorf("G = %d, want clamped to 0", got.G)
	}
	if got.B != 255 {
		t.Errorf("B = %d, want clamped to 255", got.B)
	}
}
