package core

// Scene holds everything the ray-tracing kernel needs to trace one
// frame: the camera pose, field of view, an ordered list of hitables
// (iteration order determines color-layering priority for overlapping
// regions, spec.md §3), and the ODE parameters.
type Scene struct {
	Camera    *CameraPose
	Hitables  []Hitable
	ODE       ODEParams
}

// NewScene returns a scene in the one supported configuration named in
// spec.md §6: one TexturedDisk, one Horizon, one Sky.
func NewScene() *Scene {
	return &Scene{
		Camera:   NewCameraPose(),
		Hitables: DefaultHitables(),
		ODE:      NewODEParams(),
	}
}

// Disk returns the scene's first TexturedDisk hitable and true, or the
// zero value and false if none is present.
func (s *Scene) Disk() (Hitable, bool) {
	for _, h := range s.Hitables {
		if h.Kind == HitableDisk {
			return h, true
		}
	}
	return Hitable{}, false
}

// Horizon returns the scene's first Horizon hitable and true, or the
// zero value and false if none is present.
func (s *Scene) Horizon() (Hitable, bool) {
	for _, h := range s.Hitables {
		if h.Kind == HitableHorizon {
			return h, true
		}
	}
	return Hitable{}, false
}

// Sky returns the scene's first Sky hitable and true, or the zero
// value and false if none is present.
func (s *Scene) Sky() (Hitable, bool) {
	for _, h := range s.Hitables {
		if h.Kind == HitableSky {
			return h, true
		}
	}
	return Hitable{}, false
}
