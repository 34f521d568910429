package core

// HitableKind tags the closed set of hitable variants the ray-tracing
// kernel understands. Spec.md §9 pins this as a closed tagged variant
// rather than an interface so the GPU kernel — and this CPU-side
// mirror of its intersection order — can switch on a fixed set with no
// virtual dispatch on the hot path.
type HitableKind uint8

const (
	HitableDisk HitableKind = iota
	HitableHorizon
	HitableSky
)

// Fixed radii from spec.md §3/§6's supported configuration.
const (
	DefaultHorizonRadius = 2.0
	DefaultDiskInner     = 2.6
	DefaultDiskOuter     = 12.0
	DefaultSkyRadius     = 30.0
)

// Hitable is one entry in a Scene's ordered hitable list. Exactly one
// of the variant-specific fields is meaningful, selected by Kind. The
// GPU kernel does not receive Hitable records: the frame driver reads
// the first disk, horizon and sky through the Scene accessors and
// writes their radii into the flat uniform layout.
type Hitable struct {
	Kind HitableKind

	// TexturedDisk fields.
	DiskInner float32
	DiskOuter float32

	// Horizon fields.
	HorizonRadius float32

	// Sky fields.
	SkyRadius  float32
	PhiOffset  float32
}

// NewTexturedDisk validates 0 < rInner < rOuter and returns a disk
// hitable, panicking on violation since this is a scene-construction
// invariant, not a runtime InvalidParameter (spec.md §3).
func NewTexturedDisk(rInner, rOuter float32) Hitable {
	if !(0 < rInner && rInner < rOuter) {
		panic("core: TexturedDisk requires 0 < rInner < rOuter")
	}
	return Hitable{Kind: HitableDisk, DiskInner: rInner, DiskOuter: rOuter}
}

// NewHorizon returns a horizon hitable with the given event-horizon
// radius (2.0 in natural units per spec.md §3).
func NewHorizon(rH float32) Hitable {
	return Hitable{Kind: HitableHorizon, HorizonRadius: rH}
}

// NewSky returns a sky hitable with the given radius and azimuth
// offset. It performs no validation: it takes no disk radius, so
// rSky > rOuter is not checked here.
func NewSky(rSky float32, phiOffset float32) Hitable {
	return Hitable{Kind: HitableSky, SkyRadius: rSky, PhiOffset: phiOffset}
}

// DefaultHitables returns the one supported configuration named in
// spec.md §6: one TexturedDisk, one Horizon, one Sky.
func DefaultHitables() []Hitable {
	return []Hitable{
		NewTexturedDisk(DefaultDiskInner, DefaultDiskOuter),
		NewHorizon(DefaultHorizonRadius),
		NewSky(DefaultSkyRadius, float32(1.5707963267948966)), // pi/2
	}
}

// HorizonBisectionRounds is the number of bisection refinement rounds
// used to find the horizon-crossing point (spec.md §4.2).
const HorizonBisectionRounds = 10

// RefineHorizonCrossing bisects the substep size between [0, s] to
// find the approximate point where the ray crosses radius rH, given
// the pre-step state (prev) and the ODE parameters. It re-runs the ODE
// substep from prev at each trial substep, exactly as spec.md §4.2
// describes, and returns the refined crossing state after
// HorizonBisectionRounds rounds.
func RefineHorizonCrossing(prev RayState, k, s, rH float32) RayState {
	lo, hi := float32(0), s
	rH2 := rH * rH

	var mid float32
	var candidate RayState
	for i := 0; i < HorizonBisectionRounds; i++ {
		mid = (lo + hi) / 2
		candidate = Step(prev, k, mid)
		r2 := candidate.Position.Dot(candidate.Position)
		if r2 < rH2 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return candidate
}
