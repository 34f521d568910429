// Package app is the frame driver: it owns the GPU device, the
// compute and presentation pipelines, and drives the per-frame
// sequence of uniform write, compute dispatch, and presentation blit
// described in spec.md §4.3 and §5.
package app

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/blackholelens/renderer/rt/core"
	"github.com/blackholelens/renderer/rt/gpu"
	"github.com/blackholelens/renderer/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Logger is the logging subset of the root package's Logger interface,
// so a *blackholelens.DefaultLogger can be handed to an App without
// rt/app importing the root package.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Quality bounds from spec.md §6.
const (
	MinQuality = 1
	MaxQuality = 20

	DefaultJitterScale = 20.0
)

// App is the single-window frame driver named in SPEC_FULL.md §2. It
// is the type the root package's Lens wraps.
type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	ComputePipeline *wgpu.ComputePipeline
	PresentPipeline *wgpu.RenderPipeline

	Manager *gpu.Manager
	Scene   *core.Scene

	Width, Height uint32
	FrameCount    uint32

	Quality       int
	MaxIterations uint32
	RaysPerFrame  uint32
	JitterScale   float32

	DebugOverlay bool
	debugText    string

	Profiler *Profiler
	Logger   Logger

	deviceLostCallback func(reason string)
}

// NewApp constructs a driver bound to window, with logger as its
// ambient Logger (a nop logger is installed if logger is nil).
func NewApp(window *glfw.Window, logger Logger) *App {
	if logger == nil {
		logger = nopLogger{}
	}
	return &App{
		Window:        window,
		Scene:         core.NewScene(),
		MaxIterations: 20000 + 5000*10,
		RaysPerFrame:  500 + 500*10,
		Quality:       10,
		JitterScale:   DefaultJitterScale,
		Profiler:      NewProfiler(),
		Logger:        logger,
	}
}

// Init brings up the device, pipelines, and default GPU resources. An
// UnsupportedDevice error is fatal to the outer driver; a
// ShaderCompilationFailed error means no frames can be produced.
func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	surface := a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))
	a.Surface = surface

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		a.Logger.Errorf("request adapter: %v", err)
		return newError(UnsupportedDevice, err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		a.Logger.Errorf("request device: %v", err)
		return newError(UnsupportedDevice, err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	a.Width, a.Height = uint32(width), uint32(height)

	caps := surface.GetCapabilities(adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       a.Width,
		Height:      a.Height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, a.Device, a.Config)

	csModule, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Raytrace CS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.RaytraceWGSL},
	})
	if err != nil {
		a.Logger.Errorf("compile raytrace shader: %v", err)
		return newError(ShaderCompilationFailed, err)
	}
	a.ComputePipeline, err = a.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   "Raytrace Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{Module: csModule, EntryPoint: "main"},
	})
	if err != nil {
		a.Logger.Errorf("create raytrace pipeline: %v", err)
		return newError(ResourceCreationFailed, err)
	}

	fsModule, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Fullscreen VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.FullscreenWGSL},
	})
	if err != nil {
		a.Logger.Errorf("compile fullscreen shader: %v", err)
		return newError(ShaderCompilationFailed, err)
	}
	a.PresentPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Blit Pipeline",
		Vertex: wgpu.VertexState{
			Module:     fsModule,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     fsModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    a.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{Topology: wgpu.PrimitiveTopologyTriangleList},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		a.Logger.Errorf("create present pipeline: %v", err)
		return newError(ResourceCreationFailed, err)
	}

	a.Manager = gpu.NewManager(a.Device)
	a.Manager.EnsureSampler()
	a.Manager.EnsureOutputImage(a.Width, a.Height)
	a.Manager.EnsureAccumulationBuffer(a.Width, a.Height)

	// A 1x1 white texture default for both disk and sky, so bind
	// group creation never has to special-case nil textures.
	white := solidImage(1, 1, [4]uint8{255, 255, 255, 255})
	a.Manager.LoadDiskTexture(white)
	a.Manager.LoadSkyTexture(white)

	a.Manager.CreateBindGroups(a.ComputePipeline, a.PresentPipeline)
	return nil
}

func solidImage(w, h int, rgba [4]uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := color.RGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Reset sets the frame counter F back to zero, forcing the next
// stepFrame to write its samples directly rather than blend
// (spec.md §4.2, §8).
func (a *App) Reset() {
	a.FrameCount = 0
}

// Resize recreates the output image when the size changed, rebuilds
// bind groups, and resets F. The accumulation buffer is recreated only
// when the new size needs more bytes than it holds; a larger existing
// buffer is kept.
func (a *App) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	a.Width, a.Height = uint32(width), uint32(height)
	a.Config.Width, a.Config.Height = a.Width, a.Height
	a.Surface.Configure(a.Adapter, a.Device, a.Config)

	a.Manager.EnsureOutputImage(a.Width, a.Height)
	a.Manager.EnsureAccumulationBuffer(a.Width, a.Height)
	a.Manager.CreateBindGroups(a.ComputePipeline, a.PresentPipeline)
	a.Reset()
	return nil
}

// SetScene installs a new scene and resets F.
func (a *App) SetScene(scene *core.Scene) {
	a.Scene = scene
	a.Reset()
}

// SetQuality maps the 1..20 quality dial to raysPerFrame and
// maxIterations per spec.md §6, and resets F.
func (a *App) SetQuality(q int) {
	q = int(core.Clamp(float32(q), MinQuality, MaxQuality))
	a.Quality = q
	a.RaysPerFrame = uint32(500 + 500*q)
	a.MaxIterations = uint32(20000 + 5000*q)
	a.Reset()
}

// SetMaxIterations overrides the derived quality's iteration cap and
// resets F.
func (a *App) SetMaxIterations(n uint32) {
	a.MaxIterations = n
	a.Reset()
}

// SetJitterScale sets J and resets F.
func (a *App) SetJitterScale(j float32) {
	a.JitterScale = j
	a.Reset()
}

// LoadDiskTexture preprocesses and uploads a new disk texture,
// rebuilds the bind group that references it, and resets F. A nil
// image is rejected as TextureLoadFailed; the previous texture is
// retained.
func (a *App) LoadDiskTexture(img image.Image) error {
	if img == nil {
		err := fmt.Errorf("nil image")
		a.Logger.Warnf("load disk texture: %v", err)
		return newError(TextureLoadFailed, err)
	}
	a.Manager.LoadDiskTexture(img)
	a.Manager.CreateBindGroups(a.ComputePipeline, a.PresentPipeline)
	a.Reset()
	return nil
}

// LoadSkyTexture uploads a new sky texture unmodified, rebuilds bind
// groups, and resets F.
func (a *App) LoadSkyTexture(img image.Image) error {
	if img == nil {
		err := fmt.Errorf("nil image")
		a.Logger.Warnf("load sky texture: %v", err)
		return newError(TextureLoadFailed, err)
	}
	a.Manager.LoadSkyTexture(img)
	a.Manager.CreateBindGroups(a.ComputePipeline, a.PresentPipeline)
	a.Reset()
	return nil
}

// DeviceLost registers the callback invoked when StepFrame fails to
// acquire the surface's current texture (spec.md §7's DeviceLost
// case) — the same signal the teacher's Render loop treats as fatal.
func (a *App) DeviceLost(callback func(reason string)) {
	a.deviceLostCallback = callback
}

// SetDebugOverlay toggles the one-line HUD string stepFrame writes.
func (a *App) SetDebugOverlay(enabled bool) {
	a.DebugOverlay = enabled
	if !enabled {
		a.debugText = ""
	}
}

// DebugText returns the last HUD string written by stepFrame, or the
// empty string if the overlay is disabled.
func (a *App) DebugText() string {
	return a.debugText
}

// ProfilerStats returns the per-phase timing breakdown of the last
// stepFrame call.
func (a *App) ProfilerStats() string {
	return a.Profiler.GetStatsString()
}

func (a *App) uniformParams() gpu.UniformParams {
	cam := a.Scene.Camera
	disk, _ := a.Scene.Disk()
	horizon, _ := a.Scene.Horizon()
	sky, _ := a.Scene.Sky()

	return gpu.UniformParams{
		CameraPosition:       cam.Position,
		LookAt:               cam.LookAt,
		Up:                   cam.Up,
		FOV:                  cam.FOVDeg,
		TanHalfFOV:           cam.TanHalfFOV(),
		PotentialCoefficient: a.Scene.ODE.PotentialCoefficient,
		StepSize:             a.Scene.ODE.StepSize,
		Width:                a.Width,
		Height:               a.Height,
		FrameCount:           a.FrameCount,
		RaysPerFrame:         a.RaysPerFrame,
		DiskInnerRadius:      disk.DiskInner,
		DiskOuterRadius:      disk.DiskOuter,
		SkyRadius:            sky.SkyRadius,
		HorizonRadius:        horizon.HorizonRadius,
		RandomSeed:           rand.Float32(),
		MaxIterations:        float32(a.MaxIterations),
		JitterScale:          a.JitterScale,
		SkyPhiOffset:         sky.PhiOffset,
	}
}

// StepFrame packs uniforms, dispatches the compute kernel, records
// the presentation blit, and increments F, per spec.md §4.3. It
// returns the ray count W*H.
func (a *App) StepFrame() (uint32, error) {
	a.Profiler.BeginScope("uniform_pack")
	a.Manager.WriteUniforms(a.uniformParams())
	a.Profiler.EndScope("uniform_pack")

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Logger.Errorf("get current surface texture: %v", err)
		if a.deviceLostCallback != nil {
			a.deviceLostCallback(err.Error())
		}
		return 0, newError(DeviceLost, err)
	}
	defer nextTexture.Release()
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return 0, newError(ResourceCreationFailed, err)
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		return 0, newError(ResourceCreationFailed, err)
	}

	a.Profiler.BeginScope("dispatch")
	cpass := encoder.BeginComputePass(nil)
	cpass.SetPipeline(a.ComputePipeline)
	cpass.SetBindGroup(0, a.Manager.ComputeBindGroup0, nil)
	cpass.SetBindGroup(1, a.Manager.ComputeBindGroup1, nil)
	cpass.SetBindGroup(2, a.Manager.ComputeBindGroup2, nil)
	wgX := (a.Width + 15) / 16
	wgY := (a.Height + 15) / 16
	cpass.DispatchWorkgroups(wgX, wgY, 1)
	if err := cpass.End(); err != nil {
		return 0, newError(ResourceCreationFailed, err)
	}
	a.Profiler.EndScope("dispatch")

	a.Profiler.BeginScope("blit")
	rpass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rpass.SetPipeline(a.PresentPipeline)
	rpass.SetBindGroup(0, a.Manager.PresentBindGroup, nil)
	rpass.Draw(6, 1, 0, 0)
	if err := rpass.End(); err != nil {
		return 0, newError(ResourceCreationFailed, err)
	}
	a.Profiler.EndScope("blit")

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return 0, newError(ResourceCreationFailed, err)
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	rayCount := a.Width * a.Height
	a.Profiler.SetCount("rays_per_frame", int(rayCount))
	a.FrameCount++

	if a.DebugOverlay {
		a.debugText = fmt.Sprintf("F=%d rays=%d", a.FrameCount, rayCount)
	}

	return rayCount, nil
}

// GetImageData copies the output image to a staging buffer, maps it
// for read, and returns a contiguous W*H*4 RGBA byte slice, per
// spec.md §4.3.
func (a *App) GetImageData() ([]byte, error) {
	a.Profiler.BeginScope("get_image_data")
	defer a.Profiler.EndScope("get_image_data")

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, newError(ResourceCreationFailed, err)
	}
	staging := a.Manager.CopyOutputToBuffer(encoder)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, newError(ResourceCreationFailed, err)
	}
	a.Queue.Submit(cmd)
	defer staging.Release()

	done := make(chan error, 1)
	staging.MapAsync(wgpu.MapModeRead, 0, staging.GetSize(), func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- fmt.Errorf("map staging buffer: status %v", status)
			return
		}
		done <- nil
	})
	a.Device.Poll(true, nil)
	if err := <-done; err != nil {
		return nil, newError(ResourceCreationFailed, err)
	}

	mapped := staging.GetMappedRange(0, uint(staging.GetSize()))
	bytesPerRow := a.Width * 4
	rowPitch := (bytesPerRow + 255) & ^uint32(255)

	out := make([]byte, a.Width*a.Height*4)
	for row := uint32(0); row < a.Height; row++ {
		src := mapped[row*rowPitch : row*rowPitch+bytesPerRow]
		copy(out[row*bytesPerRow:], src)
	}
	staging.Unmap()

	return out, nil
}
