package core

import (
	"math"
	"testing"
)

func TestStepFlatSpaceIsStraightLine(t *testing.T) {
	origin := Vector3{10, 0, 0}
	dir := Vector3{0, 1, 0}
	state := NewRayState(origin, dir)

	s := float32(0.1)
	for i := 0; i < 50; i++ {
		state = Step(state, 0, s)
	}

	if math.Abs(float64(state.Direction[0])) > 1e-6 {
		t.Errorf("k=0 should not deflect direction, got Direction.X = %f", state.Direction[0])
	}
	if math.Abs(float64(state.Direction[2])) > 1e-6 {
		t.Errorf("k=0 should not deflect direction, got Direction.Z = %f", state.Direction[2])
	}
	wantY := float32(50) * s
	if math.Abs(float64(state.Position[1]-wantY)) > 1e-3 {
		t.Errorf("Position.Y = %f, want %f", state.Position[1], wantY)
	}
}

func TestStepDeflectsTowardOrigin(t *testing.T) {
	origin := Vector3{10, 0, 0}
	dir := Vector3{0, 1, 0}
	state := NewRayState(origin, dir)

	s := float32(0.1)
	for i := 0; i < 50; i++ {
		state = Step(state, DefaultPotentialCoefficient, s)
	}

	if state.Direction[0] >= 0 {
		t.Errorf("negative k should bend the ray toward the origin, Direction.X = %f", state.Direction[0])
	}
}

func TestStepDegenerateAtSingularity(t *testing.T) {
	state := RayState{Position: Vector3{0, 0, 0}, Direction: Vector3{0, 0, 0}, HSquared: 1}
	got := Step(state, -1.5, 0.1)
	if got.Position != (Vector3{0, 0, 0}) {
		t.Errorf("Position should stay at origin, got %v", got.Position)
	}
}

func TestAdaptiveStepSizeScalesWithDistance(t *testing.T) {
	near := AdaptiveStepSize(Vector3{3, 0, 0}, 0.16)
	far := AdaptiveStepSize(Vector3{30, 0, 0}, 0.16)
	if !(near < far) {
		t.Errorf("adaptive step should grow with distance: near=%f far=%f", near, far)
	}
	want := float32(30.0/30.0) * 0.16
	if math.Abs(float64(far-want)) > 1e-6 {
		t.Errorf("AdaptiveStepSize(30, 0.16) = %f, want %f", far, want)
	}
}

func TestRefineHorizonCrossingConverges(t *testing.T) {
	// A ray aimed straight at the origin from just outside the horizon,
	// with a full substep (2.5 -> 1.5) that crosses rH=2, should bisect
	// to a crossing point within 2^-10 of the substep from rH.
	prev := NewRayState(Vector3{2.5, 0, 0}, Vector3{-1, 0, 0})
	k := DefaultPotentialCoefficient
	s := float32(1.0)
	rH := float32(DefaultHorizonRadius)

	refined := RefineHorizonCrossing(prev, k, s, rH)
	r := refined.Position.Len()

	if r > 2.5 {
		t.Errorf("refined crossing radius %f should not exceed the pre-step radius 2.5", r)
	}
	if math.Abs(float64(r-rH)) > float64(s)/1024 {
		t.Errorf("refined crossing radius %f is farther than 2^-10*s from rH %f", r, rH)
	}
}

func TestSetPotentialCoefficientClamped(t *testing.T) {
	var p ODEParams
	p.SetPotentialCoefficient(100)
	if p.PotentialCoefficient != MaxPotentialCoefficient {
		t.Errorf("got %f, want clamped to %f", p.PotentialCoefficient, MaxPotentialCoefficient)
	}
	p.SetPotentialCoefficient(-100)
	if p.PotentialCoefficient != MinPotentialCoefficient {
		t.Errorf("got %f, want clamped to %f", p.PotentialCoefficient, MinPotentialCoefficient)
	}
}

func TestSetStepSizeClamped(t *testing.T) {
	var p ODEParams
	p.SetStepSize(10)
	if p.StepSize != MaxStepSize {
		t.Errorf("got %f, want clamped to %f", p.StepSize, MaxStepSize)
	}
	p.SetStepSize(-1)
	if p.StepSize != MinStepSize {
		t.Errorf("got %f, want clamped to %f", p.StepSize, MinStepSize)
	}
}
