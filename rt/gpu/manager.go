// Package gpu owns every device-resident resource the frame driver
// needs: the uniform and accumulation buffers, the output image, the
// disk/sky textures and their shared sampler, and the two bind groups
// that tie them to the compute and presentation pipelines.
package gpu

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/blackholelens/renderer/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
)

// UniformByteSize is the fixed 256-byte, 16-byte-aligned layout named
// in spec.md §6.
const UniformByteSize = 256

// AccumulationBytesPerPixel is the per-pixel size of the accumulation
// buffer's RGBA float quadruple (spec.md §4.3).
const AccumulationBytesPerPixel = 16

// TextureGeneration tags one successfully loaded texture with a stable
// identifier, independent of the underlying *wgpu.Texture pointer, so
// texture replacements can be logged and compared against something
// other than a pointer value.
type TextureGeneration struct {
	ID   uuid.UUID
	Name string
}

func newTextureGeneration(name string) TextureGeneration {
	return TextureGeneration{ID: uuid.New(), Name: name}
}

// Manager owns every GPU-resident resource of the frame driver.
type Manager struct {
	Device *wgpu.Device

	UniformBuf     *wgpu.Buffer
	AccumulationBuf *wgpu.Buffer

	OutputTexture *wgpu.Texture
	OutputView    *wgpu.TextureView

	DiskTexture *wgpu.Texture
	DiskView    *wgpu.TextureView
	DiskGen     TextureGeneration

	SkyTexture *wgpu.Texture
	SkyView    *wgpu.TextureView
	SkyGen     TextureGeneration

	Sampler *wgpu.Sampler

	ComputeBindGroup0 *wgpu.BindGroup // uniform + accumulation
	ComputeBindGroup1 *wgpu.BindGroup // output storage texture
	ComputeBindGroup2 *wgpu.BindGroup // disk/sky textures + sampler
	PresentBindGroup  *wgpu.BindGroup // output texture + sampler, for the blit

	Width, Height uint32
}

func NewManager(device *wgpu.Device) *Manager {
	return &Manager{Device: device}
}

// ensureBuffer grows-or-reuses a GPU buffer: a buffer is only recreated
// when the existing one is too small, and writes always happen through
// the queue rather than at creation time for already-sized buffers.
func (m *Manager) ensureBuffer(name string, buf **wgpu.Buffer, size uint64, usage wgpu.BufferUsage) bool {
	current := *buf
	if current != nil && current.GetSize() >= size {
		return false
	}
	if current != nil {
		current.Release()
	}
	newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            name,
		Size:             size,
		Usage:            usage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		panic(fmt.Errorf("gpu: create buffer %s: %w", name, err))
	}
	*buf = newBuf
	return true
}

// UniformParams is every value the compute kernel's uniform buffer
// layout needs, named exactly as spec.md §6 lists them.
type UniformParams struct {
	CameraPosition, LookAt, Up  core.Vector3
	FOV, TanHalfFOV             float32
	PotentialCoefficient, StepSize float32
	Width, Height               uint32
	FrameCount                  uint32
	RaysPerFrame                uint32
	DiskInnerRadius, DiskOuterRadius float32
	SkyRadius, HorizonRadius    float32
	RandomSeed                  float32
	MaxIterations               float32
	JitterScale                 float32
	SkyPhiOffset                float32
}

// packUniforms writes UniformParams into the byte-exact 256-byte
// layout named in spec.md §6: three padded vec3 slots, a padded
// fov/tanFov pair, a padded potentialCoefficient/stepSize pair, then
// the scalar tail.
func packUniforms(p UniformParams) []byte {
	buf := make([]byte, UniformByteSize)
	putF32 := func(offset int, v float32) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
	}
	putU32 := func(offset int, v uint32) {
		binary.LittleEndian.PutUint32(buf[offset:], v)
	}
	putVec3 := func(offset int, v core.Vector3) {
		putF32(offset, v[0])
		putF32(offset+4, v[1])
		putF32(offset+8, v[2])
	}

	putVec3(0, p.CameraPosition)
	putVec3(16, p.LookAt)
	putVec3(32, p.Up)
	putF32(48, p.FOV)
	putF32(52, p.TanHalfFOV)
	putF32(64, p.PotentialCoefficient)
	putF32(68, p.StepSize)
	putU32(80, p.Width)
	putU32(84, p.Height)
	putU32(88, p.FrameCount)
	putU32(92, p.RaysPerFrame)
	putF32(96, p.DiskInnerRadius)
	putF32(100, p.DiskOuterRadius)
	putF32(104, p.SkyRadius)
	putF32(108, p.HorizonRadius)
	putF32(112, p.RandomSeed)
	putF32(116, p.MaxIterations)
	putF32(120, p.JitterScale)
	putF32(124, p.SkyPhiOffset)
	return buf
}

// WriteUniforms packs and uploads the frame's uniform parameters,
// creating the uniform buffer on first use.
func (m *Manager) WriteUniforms(p UniformParams) {
	data := packUniforms(p)
	m.ensureBuffer("UniformBuf", &m.UniformBuf, UniformByteSize, wgpu.BufferUsageUniform)
	m.Device.GetQueue().WriteBuffer(m.UniformBuf, 0, data)
}

// EnsureAccumulationBuffer grows the WxH accumulation buffer if the
// new size needs more bytes than the current buffer holds (a larger
// buffer is reused as is); clearing it is the caller's responsibility via
// Reset (writing zero frame-0 samples naturally overwrites every
// pixel's stale contents on the next full frame).
func (m *Manager) EnsureAccumulationBuffer(width, height uint32) bool {
	size := uint64(width) * uint64(height) * AccumulationBytesPerPixel
	return m.ensureBuffer("AccumulationBuf", &m.AccumulationBuf, size, wgpu.BufferUsageStorage)
}

// EnsureOutputImage (re)creates the storage+sampled rgba8unorm output
// image sized WxH, per spec.md §4.3.
func (m *Manager) EnsureOutputImage(width, height uint32) {
	if m.OutputTexture != nil && m.Width == width && m.Height == height {
		return
	}
	if m.OutputTexture != nil {
		m.OutputTexture.Release()
	}
	m.Width, m.Height = width, height

	tex, err := m.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "OutputImage",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		panic(fmt.Errorf("gpu: create output image: %w", err))
	}
	m.OutputTexture = tex
	view, err := tex.CreateView(nil)
	if err != nil {
		panic(fmt.Errorf("gpu: create output image view: %w", err))
	}
	m.OutputView = view
}

// EnsureSampler creates the shared sampler: linear/linear filtering,
// mirror-repeat wrap, 16x anisotropy.
func (m *Manager) EnsureSampler() {
	if m.Sampler != nil {
		return
	}
	sampler, err := m.Device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeMirrorRepeat,
		AddressModeV:  wgpu.AddressModeMirrorRepeat,
		AddressModeW:  wgpu.AddressModeMirrorRepeat,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		MaxAnisotropy: 16,
	})
	if err != nil {
		panic(fmt.Errorf("gpu: create sampler: %w", err))
	}
	m.Sampler = sampler
}

// mirroredAtlas draws src into a 2Wx2H canvas in four quadrants —
// original top-left, horizontal mirror top-right, vertical mirror
// bottom-left, both-mirror bottom-right — per spec.md §4.3. This is
// the only supported disk preprocessing.
func mirroredAtlas(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	atlas := image.NewRGBA(image.Rect(0, 0, 2*w, 2*h))

	draw.Draw(atlas, image.Rect(0, 0, w, h), src, b.Min, draw.Src)

	flipH := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			flipH.Set(w-1-x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	draw.Draw(atlas, image.Rect(w, 0, 2*w, h), flipH, image.Point{}, draw.Src)

	flipV := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			flipV.Set(x, h-1-y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	draw.Draw(atlas, image.Rect(0, h, w, 2*h), flipV, image.Point{}, draw.Src)

	flipBoth := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			flipBoth.Set(w-1-x, h-1-y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	draw.Draw(atlas, image.Rect(w, h, 2*w, 2*h), flipBoth, image.Point{}, draw.Src)

	return atlas
}

func (m *Manager) uploadTexture(name string, img *image.RGBA) (*wgpu.Texture, *wgpu.TextureView) {
	b := img.Bounds()
	w, h := uint32(b.Dx()), uint32(b.Dy())

	tex, err := m.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         name,
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		panic(fmt.Errorf("gpu: create texture %s: %w", name, err))
	}

	m.Device.GetQueue().WriteTexture(
		tex.AsImageCopy(),
		img.Pix,
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		panic(fmt.Errorf("gpu: create texture view %s: %w", name, err))
	}
	return tex, view
}

// LoadDiskTexture preprocesses src into the 2x2 mirrored atlas and
// uploads it, then releases the previous disk texture. The release
// happens before the caller rebuilds ComputeBindGroup2, so until
// CreateBindGroups runs the installed bind group still references the
// previous texture's view.
func (m *Manager) LoadDiskTexture(src image.Image) TextureGeneration {
	atlas := mirroredAtlas(src)
	tex, view := m.uploadTexture("DiskTexture", atlas)

	old := m.DiskTexture
	m.DiskTexture, m.DiskView = tex, view
	m.DiskGen = newTextureGeneration("disk")
	if old != nil {
		old.Release()
	}
	return m.DiskGen
}

// LoadSkyTexture uploads src unmodified, per spec.md §4.3 ("the sky
// texture is uploaded unmodified").
func (m *Manager) LoadSkyTexture(src image.Image) TextureGeneration {
	rgba := toRGBA(src)
	tex, view := m.uploadTexture("SkyTexture", rgba)

	old := m.SkyTexture
	m.SkyTexture, m.SkyView = tex, view
	m.SkyGen = newTextureGeneration("sky")
	if old != nil {
		old.Release()
	}
	return m.SkyGen
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// CreateBindGroups (re)builds every bind group from the pipelines'
// layouts. Called after initial resource creation and whenever a
// buffer or texture had to be recreated at a different size.
func (m *Manager) CreateBindGroups(computePipeline *wgpu.ComputePipeline, presentPipeline *wgpu.RenderPipeline) {
	var err error

	m.ComputeBindGroup0, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: computePipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.UniformBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: m.AccumulationBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		panic(fmt.Errorf("gpu: create compute bind group 0: %w", err))
	}

	m.ComputeBindGroup1, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  computePipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{{Binding: 0, TextureView: m.OutputView}},
	})
	if err != nil {
		panic(fmt.Errorf("gpu: create compute bind group 1: %w", err))
	}

	if m.DiskView != nil && m.SkyView != nil {
		newBG, err := m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: computePipeline.GetBindGroupLayout(2),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: m.DiskView},
				{Binding: 1, TextureView: m.SkyView},
				{Binding: 2, Sampler: m.Sampler},
			},
		})
		if err != nil {
			panic(fmt.Errorf("gpu: create compute bind group 2: %w", err))
		}
		m.ComputeBindGroup2 = newBG
	}

	m.PresentBindGroup, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: presentPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: m.OutputView},
			{Binding: 1, Sampler: m.Sampler},
		},
	})
	if err != nil {
		panic(fmt.Errorf("gpu: create present bind group: %w", err))
	}
}

// CopyOutputToBuffer records a texture-to-buffer copy of the output
// image into a freshly created staging buffer, for getImageData.
func (m *Manager) CopyOutputToBuffer(encoder *wgpu.CommandEncoder) *wgpu.Buffer {
	bytesPerRow := m.Width * 4
	// WebGPU requires bytesPerRow to be a multiple of 256.
	if bytesPerRow%256 != 0 {
		bytesPerRow += 256 - bytesPerRow%256
	}
	size := uint64(bytesPerRow) * uint64(m.Height)

	staging, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "ImageStagingBuf",
		Size:             size,
		Usage:            wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		MappedAtCreation: false,
	})
	if err != nil {
		panic(fmt.Errorf("gpu: create staging buffer: %w", err))
	}

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  m.OutputTexture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{0, 0, 0},
		},
		&wgpu.ImageCopyBuffer{
			Buffer: staging,
			Layout: wgpu.TextureDataLayout{Offset: 0, BytesPerRow: bytesPerRow, RowsPerImage: m.Height},
		},
		&wgpu.Extent3D{Width: m.Width, Height: m.Height, DepthOrArrayLayers: 1},
	)
	return staging
}
