package core

import (
	"math"
)

// Field-of-view and spherical parametrization bounds from spec.md §6.
const (
	MinFOVDegrees = 30.0
	MaxFOVDegrees = 150.0

	MinDistance = 5.0
	MaxDistance = 50.0

	MinVerticalAngle = 0.1
	MaxVerticalAngle = float32(math.Pi) - 0.1
)

// CameraPose holds the camera's Cartesian pose plus its spherical
// parametrization. Position is redundant with the spherical fields;
// spherical is authoritative once any spherical mutator has been
// called, per spec.md §3 and §9 ("shared mutable camera state").
// Callers should prefer the spherical mutators (SetDistance,
// SetHorizontalAngle, SetVerticalAngle, Orbit) over writing Position
// directly; orbit controls mutate the spherical fields and
// recomputeCartesian derives Position from them. LookAt and Up are
// not derived and keep whatever values were last assigned.
type CameraPose struct {
	Position Vector3
	LookAt   Vector3
	Up       Vector3
	FOVDeg   float32

	Distance         float32
	HorizontalAngle  float32 // phi, [0, 2pi]
	VerticalAngle    float32 // theta, [0.1, pi-0.1]
	Tilt             float32
}

// NewCameraPose returns the default camera: 20 units out, looking at
// the origin, 80 degree field of view.
func NewCameraPose() *CameraPose {
	c := &CameraPose{
		LookAt:          Vector3{0, 0, 0},
		Up:              Vector3{0, 1, 0},
		FOVDeg:          80.0,
		Distance:        20.0,
		HorizontalAngle: float32(math.Pi) / 2,
		VerticalAngle:   float32(math.Pi) / 2,
	}
	c.recomputeCartesian()
	return c
}

// recomputeCartesian derives Position from the spherical fields per
// spec.md §3's invariant: pos = (d*sinθ*cosφ, d*cosθ, d*sinθ*sinφ).
func (c *CameraPose) recomputeCartesian() {
	c.Position = Spherical{R: c.Distance, Theta: c.VerticalAngle, Phi: c.HorizontalAngle}.ToCartesian()
}

// SetDistance clamps and applies a new orbit distance, recomputing
// Position before returning.
func (c *CameraPose) SetDistance(d float32) {
	c.Distance = Clamp(d, MinDistance, MaxDistance)
	c.recomputeCartesian()
}

// SetHorizontalAngle sets phi, wrapping into [0, 2pi).
func (c *CameraPose) SetHorizontalAngle(phi float32) {
	twoPi := float32(2 * math.Pi)
	phi = float32(math.Mod(float64(phi), float64(twoPi)))
	if phi < 0 {
		phi += twoPi
	}
	c.HorizontalAngle = phi
	c.recomputeCartesian()
}

// SetVerticalAngle clamps and applies theta.
func (c *CameraPose) SetVerticalAngle(theta float32) {
	c.VerticalAngle = Clamp(theta, MinVerticalAngle, MaxVerticalAngle)
	c.recomputeCartesian()
}

// SetTilt stores the tilt value. Neither Basis nor the frame driver's
// uniforms read Tilt, so it does not roll the rendered view.
func (c *CameraPose) SetTilt(tilt float32) {
	c.Tilt = tilt
}

// Orbit applies deltas to the horizontal and vertical angles in one
// step, useful for drag-to-orbit input handling.
func (c *CameraPose) Orbit(deltaPhi, deltaTheta float32) {
	c.SetHorizontalAngle(c.HorizontalAngle + deltaPhi)
	c.SetVerticalAngle(c.VerticalAngle + deltaTheta)
}

// SetFOV clamps and applies the field of view in degrees.
func (c *CameraPose) SetFOV(deg float32) {
	c.FOVDeg = Clamp(deg, MinFOVDegrees, MaxFOVDegrees)
}

// FOVRadians returns the field of view in radians.
func (c *CameraPose) FOVRadians() float32 {
	return c.FOVDeg * float32(math.Pi) / 180.0
}

// TanHalfFOV returns tan(fov/2), precomputed once per frame by the
// frame driver and written into the uniform buffer (spec.md §4.2 step 1
// and §6's uniform layout).
func (c *CameraPose) TanHalfFOV() float32 {
	return float32(math.Tan(float64(c.FOVRadians() / 2)))
}

// Basis returns the right-handed camera basis (front, left, up') used
// by the ray-tracing kernel to build a per-pixel ray direction, per
// spec.md §4.2 step 2.
func (c *CameraPose) Basis() (front, left, up Vector3) {
	front = NormalizeSafe(c.LookAt.Sub(c.Position))
	left = NormalizeSafe(c.Up.Cross(front))
	up = front.Cross(left)
	return
}
