package core

import "math"

const twoPi = float32(2 * math.Pi)

// wrap01 wraps x into [0, 1).
func wrap01(x float32) float32 {
	x = float32(math.Mod(float64(x), 1.0))
	if x < 0 {
		x += 1.0
	}
	return x
}

// TextureSampler samples a color at normalized UV coordinates. This
// package's CPU-side test simulation supplies samplers of this shape;
// the GPU kernel samples its textures directly and does not use it.
type TextureSampler func(u, v float32) Color

// DiskUV maps a hit point's radius and azimuth to the quantized disk
// UV named in spec.md §4.2: u snaps to 0.49 for the near half of the
// angular range and 0.51 for the far half, matching the mirrored 2x2
// atlas the frame driver uploads (§4.3). Out-of-range radii return
// (0, 1) per spec.md §8. This is the direct single-sample mapping used
// outside the seam-mitigation band; see SampleDisk for the full
// blended lookup used by the ray-tracing kernel.
func DiskUV(r, phi, rInner, rOuter float32) (u, v float32) {
	if r < rInner || r > rOuter {
		return 0, 1
	}
	rawU := wrap01(phi / twoPi)
	if rawU < 0.5 {
		u = 0.49
	} else {
		u = 0.51
	}
	v = Clamp((r-rInner)/(rOuter-rInner), 0, 1)
	return u, v
}

// Seam-mitigation band bounds from spec.md §4.2.
const (
	seamBandLo   = 0.52
	seamBandHi   = 0.99
	seamLeftU    = 0.52
	seamRightU   = 0.99
)

// SampleDisk performs the full disk texture lookup described in
// spec.md §4.2: outside the seam band it snaps to one of the two
// mirrored-atlas columns (DiskUV); inside the band [0.52, 0.99] it
// blends the u=0.52 and u=0.99 columns across three equal sub-bands —
// left third toward the left sample, middle third an even blend, right
// third toward the right sample. Out-of-range radii sample (0, 1).
func SampleDisk(sample TextureSampler, r, phi, rInner, rOuter float32) Color {
	if r < rInner || r > rOuter {
		return sample(0, 1)
	}
	v := Clamp((r-rInner)/(rOuter-rInner), 0, 1)
	rawU := wrap01(phi / twoPi)

	if rawU < seamBandLo || rawU > seamBandHi {
		var u float32
		if rawU < 0.5 {
			u = 0.49
		} else {
			u = 0.51
		}
		return sample(u, v)
	}

	left := sample(seamLeftU, v)
	right := sample(seamRightU, v)
	t := (rawU - seamBandLo) / (seamBandHi - seamBandLo)

	switch {
	case t < 1.0/3.0:
		return left
	case t < 2.0/3.0:
		return blendColor(left, right, 0.5)
	default:
		return right
	}
}

func blendColor(a, b Color, t float32) Color {
	lerp := func(x, y uint8) uint8 {
		return uint8(Clamp(float32(x)*(1-t)+float32(y)*t, 0, 255))
	}
	return Color{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), lerp(a.A, b.A)}
}

// SkyUV maps a spherical direction to sky texture coordinates. Both
// components wrap to [0, 1) for any finite (theta, phi), per spec.md
// §4.2 and §8.
func SkyUV(theta, phi float32) (u, v float32) {
	u = wrap01(phi / twoPi)
	v = wrap01(theta / float32(math.Pi))
	return u, v
}
