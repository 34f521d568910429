package blackholelens

import (
	"image"

	"github.com/blackholelens/renderer/rt/app"
	"github.com/blackholelens/renderer/rt/core"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Lens is the external surface named in SPEC_FULL.md §2: a thin
// wrapper around rt/app.App exposing the operations spec.md §6 names,
// plus structured logging. Lens.Logger() never returns nil.
type Lens struct {
	app    *app.App
	logger Logger
}

// NewLens wraps window in a Lens, installing logger as the ambient
// Logger (a no-op logger if logger is nil).
func NewLens(window *glfw.Window, logger Logger) *Lens {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Lens{
		app:    app.NewApp(window, logger),
		logger: logger,
	}
}

// Init brings up the GPU device and pipelines. See rt/app.RendererError
// for the failure taxonomy.
func (l *Lens) Init() error {
	if err := l.app.Init(); err != nil {
		l.logger.Errorf("lens init failed: %v", err)
		return err
	}
	l.logger.Infof("lens initialized (%dx%d)", l.app.Width, l.app.Height)
	return nil
}

// Resize destroys and recreates GPU-resident images sized to the
// window, resetting the accumulator.
func (l *Lens) Resize(width, height int) error {
	if err := l.app.Resize(width, height); err != nil {
		l.logger.Errorf("lens resize failed: %v", err)
		return err
	}
	return nil
}

// SetCameraSpherical applies the orbit-camera spherical parametrization
// (distance, horizontal angle phi, vertical angle theta), each clamped
// or wrapped per spec.md §3, and resets the accumulator.
func (l *Lens) SetCameraSpherical(distance, phi, theta float32) {
	cam := l.app.Scene.Camera
	cam.SetDistance(distance)
	cam.SetHorizontalAngle(phi)
	cam.SetVerticalAngle(theta)
	l.app.Reset()
}

// SetFOV applies the field of view in degrees, clamped to
// [core.MinFOVDegrees, core.MaxFOVDegrees], and resets the accumulator.
func (l *Lens) SetFOV(degrees float32) {
	l.app.Scene.Camera.SetFOV(degrees)
	l.app.Reset()
}

// SetODEParams applies the potential coefficient k and base step size
// h, each clamped per spec.md §6, and resets the accumulator.
func (l *Lens) SetODEParams(k, h float32) {
	l.app.Scene.ODE.SetPotentialCoefficient(k)
	l.app.Scene.ODE.SetStepSize(h)
	l.app.Reset()
}

// SetQuality maps the 1..20 quality dial to raysPerFrame and
// maxIterations and resets the accumulator.
func (l *Lens) SetQuality(q int) {
	l.app.SetQuality(q)
}

// LoadDiskTexture preprocesses and uploads a new accretion-disk
// texture. A nil image is rejected with a TextureLoadFailed
// RendererError; the previous texture is retained.
func (l *Lens) LoadDiskTexture(img image.Image) error {
	if err := l.app.LoadDiskTexture(img); err != nil {
		l.logger.Warnf("load disk texture failed: %v", err)
		return err
	}
	return nil
}

// LoadSkyTexture uploads a new background-sky texture unmodified.
func (l *Lens) LoadSkyTexture(img image.Image) error {
	if err := l.app.LoadSkyTexture(img); err != nil {
		l.logger.Warnf("load sky texture failed: %v", err)
		return err
	}
	return nil
}

// StepFrame dispatches one compute pass and presentation blit,
// returning the number of rays traced (W*H).
func (l *Lens) StepFrame() (uint32, error) {
	return l.app.StepFrame()
}

// Reset forces the next StepFrame to write samples directly rather
// than blend into the accumulator.
func (l *Lens) Reset() {
	l.app.Reset()
}

// GetImageData returns the current output image as contiguous
// W*H*4 RGBA bytes.
func (l *Lens) GetImageData() ([]byte, error) {
	data, err := l.app.GetImageData()
	if err != nil {
		l.logger.Errorf("get image data failed: %v", err)
		return nil, err
	}
	return data, nil
}

// ProfilerStats returns the last frame's per-phase timing breakdown.
func (l *Lens) ProfilerStats() string {
	return l.app.ProfilerStats()
}

// SetDebugOverlay toggles the one-line HUD string StepFrame writes.
func (l *Lens) SetDebugOverlay(enabled bool) {
	l.app.SetDebugOverlay(enabled)
}

// DebugText returns the last HUD string written by StepFrame, or the
// empty string if the overlay is disabled.
func (l *Lens) DebugText() string {
	return l.app.DebugText()
}

// DeviceLost registers the callback invoked when StepFrame fails to
// acquire the surface's current texture. No uncaptured-error handler
// is installed on the device, so errors reported only through that
// channel do not reach the callback.
func (l *Lens) DeviceLost(callback func(reason string)) {
	l.app.DeviceLost(callback)
}

// Scene exposes the current scene for callers that need direct access
// to hitable geometry (e.g. to change disk/horizon/sky radii).
func (l *Lens) Scene() *core.Scene {
	return l.app.Scene
}

// SetScene installs a new scene and resets the accumulator.
func (l *Lens) SetScene(scene *core.Scene) {
	l.app.SetScene(scene)
}

// Logger returns the Lens's ambient logger. Never returns nil.
func (l *Lens) Logger() Logger {
	return l.logger
}
