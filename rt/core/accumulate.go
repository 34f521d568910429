package core

// AccumulatedColor is the per-pixel RGBA float accumulator entry
// (spec.md §3). Stored as float32 rather than Color's uint8 channels
// so the running mean doesn't lose precision to repeated rounding
// across thousands of frames.
type AccumulatedColor struct {
	R, G, B, A float32
}

// FromColor widens a Color sample into float accumulator space.
func FromColor(c Color) AccumulatedColor {
	return AccumulatedColor{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// ToColor narrows an accumulator entry back to a displayable Color,
// clamping and rounding each channel into [0, 255].
func (a AccumulatedColor) ToColor() Color {
	clampByte := func(v float32) uint8 {
		return uint8(Clamp(v+0.5, 0, 255))
	}
	return Color{clampByte(a.R), clampByte(a.G), clampByte(a.B), clampByte(a.A)}
}

// AccumulationWeight returns w = F/(F+1), the weight applied to the
// prior accumulator value when blending in a new per-frame sample
// (spec.md §4.2). At F=0 this is 0, so the new sample fully replaces
// whatever was in the accumulator — the reset-then-first-frame case.
func AccumulationWeight(frame uint32) float32 {
	return float32(frame) / float32(frame+1)
}

// Accumulate folds a new per-frame ray color R into the running
// accumulator A at frame count F, returning the updated accumulator.
// At F=0 this returns R unchanged (direct write); otherwise it returns
// the weighted blend A*w + R*(1-w). After F+1 calls with F=0..F this
// equals the arithmetic mean of the F+1 sampled colors (spec.md §3, §8).
func Accumulate(prior AccumulatedColor, sample Color, frame uint32) AccumulatedColor {
	s := FromColor(sample)
	if frame == 0 {
		return s
	}
	w := AccumulationWeight(frame)
	return AccumulatedColor{
		R: prior.R*w + s.R*(1-w),
		G: prior.G*w + s.G*(1-w),
		B: prior.B*w + s.B*(1-w),
		A: prior.A*w + s.A*(1-w),
	}
}
