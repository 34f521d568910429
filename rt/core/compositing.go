package core

// AddColor implements the module's only compositing operator (spec.md
// §4.2). Given a new sample S and the existing accumulated color C: if
// S is fully transparent, C passes through unchanged; otherwise
// b = (max(S.rgb)+min(S.rgb))/2 and each output channel is
// clamp((1-b)*C.channel + max(S.channel,0)*255/205, 0, 255), with
// alpha forced to 255. The 255/205 gain is not obviously physical and
// is preserved bit-exact as an original visual signature (spec.md §9).
func AddColor(existing, sample Color) Color {
	if sample.A == 0 {
		return existing
	}

	maxCh := sample.R
	if sample.G > maxCh {
		maxCh = sample.G
	}
	if sample.B > maxCh {
		maxCh = sample.B
	}
	minCh := sample.R
	if sample.G < minCh {
		minCh = sample.G
	}
	if sample.B < minCh {
		minCh = sample.B
	}
	b := (float32(maxCh) + float32(minCh)) / 2.0 / 255.0

	blend := func(existingCh, sampleCh uint8) uint8 {
		s := float32(sampleCh)
		if s < 0 {
			s = 0
		}
		out := (1-b)*float32(existingCh) + s*255.0/205.0
		return uint8(Clamp(out, 0, 255))
	}

	return Color{
		R: blend(existing.R, sample.R),
		G: blend(existing.G, sample.G),
		B: blend(existing.B, sample.B),
		A: 255,
	}
}
