// Package core implements the physics, geometry, and scene model shared
// by the ray-tracing kernel and the frame driver: vector/matrix
// primitives, the black-hole ODE, hitable variants, coordinate
// mappings, compositing, and accumulation math.
package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vector3 is the module's 3-vector type. It is a direct alias of
// mgl32.Vec3 so scene math composes with mgl32's matrix and quaternion
// types without conversion at every call site.
type Vector3 = mgl32.Vec3

// Matrix4 is the module's row-major-composed 4x4 affine matrix type.
// mgl32.Mat4 stores columns internally but composes with Mul4 in the
// same right-to-left, column-vector convention this module documents.
type Matrix4 = mgl32.Mat4

// NormalizeSafe returns v scaled to unit length, or the zero vector if
// v has zero length. mgl32.Vec3.Normalize divides by zero and produces
// NaNs in that case; every caller in this module needs the zero-vector
// convention instead so a degenerate ray direction quietly stops
// contributing rather than poisoning the accumulator with NaNs.
func NormalizeSafe(v Vector3) Vector3 {
	l := v.Len()
	if l == 0 {
		return Vector3{}
	}
	return v.Mul(1.0 / l)
}

// LookAt builds a right-handed view matrix, delegating to mgl32.
func LookAt(eye, center, up Vector3) Matrix4 {
	return mgl32.LookAtV(eye, center, up)
}

// PerspectiveProjection builds a projection matrix for the given
// vertical field of view (radians), aspect ratio, and near/far planes.
func PerspectiveProjection(fovyRadians, aspect, near, far float32) Matrix4 {
	return mgl32.Perspective(fovyRadians, aspect, near, far)
}

// TransformPoint applies m's affine transform to the point p (w=1).
func TransformPoint(m Matrix4, p Vector3) Vector3 {
	return m.Mul4x1(p.Vec4(1.0)).Vec3()
}

// TransformDirection applies m's linear part to the direction d (w=0).
func TransformDirection(m Matrix4, d Vector3) Vector3 {
	return m.Mul4x1(d.Vec4(0.0)).Vec3()
}

// Spherical is a (r, theta, phi) triple using the physics convention:
// theta is the polar angle from +Y in [0, pi], phi is the azimuth in
// the XZ plane measured from +X.
type Spherical struct {
	R, Theta, Phi float32
}

// ToCartesian converts a Spherical to a Vector3 using the same
// convention the black-hole ODE and the camera pose use:
// x = r*sin(theta)*cos(phi), y = r*cos(theta), z = r*sin(theta)*sin(phi).
func (s Spherical) ToCartesian() Vector3 {
	sinT, cosT := math.Sincos(float64(s.Theta))
	sinP, cosP := math.Sincos(float64(s.Phi))
	return Vector3{
		s.R * float32(sinT) * float32(cosP),
		s.R * float32(cosT),
		s.R * float32(sinT) * float32(sinP),
	}
}

// ToSpherical converts a Cartesian point to Spherical using the
// inverse of ToCartesian's convention. Undefined (returns R=0) at the
// origin.
func ToSpherical(p Vector3) Spherical {
	r := p.Len()
	if r == 0 {
		return Spherical{}
	}
	theta := float32(math.Acos(clamp64(float64(p.Y()/r), -1, 1)))
	phi := float32(math.Atan2(float64(p.Z()), float64(p.X())))
	return Spherical{R: r, Theta: theta, Phi: phi}
}

func clamp64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp returns v restricted to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Color is a four-channel 0..255 integer color, matching the module's
// wire format for texture samples and additive-compositing output.
type Color struct {
	R, G, B, A uint8
}

// Transparent is the sentinel fully-transparent color; compositing
// against it is a no-op (see AddColor).
var Transparent = Color{0, 0, 0, 0}
