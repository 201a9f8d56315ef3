//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"log/slog"
	"sort"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/multiview"
	"github.com/gogpu/multiview/composite"
	"github.com/gogpu/multiview/render"
)

var _ multiview.FrameSink = (*Presenter)(nil)

// quadVertices is the vertex count of the composite quad.
const quadVertices = 6

// viewTexture is the GPU copy of one view buffer.
type viewTexture struct {
	tex    hal.Texture
	view   hal.TextureView
	bind   hal.BindGroup
	width  uint32
	height uint32
}

// quad is one draw recorded for the current frame.
type quad struct {
	index int
	rect  image.Rectangle
}

// Presenter mirrors view buffers into GPU textures and records the
// composite draws.
//
// Presenter is safe for concurrent use; uploads and recording are
// serialised by an internal mutex.
type Presenter struct {
	device hal.Device
	queue  hal.Queue
	opts   options

	mu     sync.Mutex
	log    *slog.Logger
	views  map[int]*viewTexture
	frame  []quad
	closed bool

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
}

// NewPresenter creates a presenter. GPU objects are created on the first
// upload.
func NewPresenter(device hal.Device, queue hal.Queue, opts ...Option) *Presenter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Presenter{
		device: device,
		queue:  queue,
		opts:   o,
		log:    slog.New(slog.DiscardHandler),
		views:  make(map[int]*viewTexture),
	}
}

// SetLogger sets the presenter logger. multiview.SetLogger calls it for
// presenters attached to a scheduler.
func (p *Presenter) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	p.mu.Lock()
	p.log = l
	p.mu.Unlock()
}

// BeginFrame forgets the draws of the previous frame.
func (p *Presenter) BeginFrame() {
	p.mu.Lock()
	p.frame = p.frame[:0]
	p.mu.Unlock()
}

// Upload copies tex into the view's GPU texture, reallocating it when the
// size changed, and queues a draw into rect.
func (p *Presenter) Upload(index int, tex *image.RGBA, rect image.Rectangle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPresenterClosed
	}
	if p.opts.binder == nil {
		return ErrNoBinder
	}
	if err := p.ensurePipeline(); err != nil {
		return err
	}

	b := tex.Bounds()
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // G115: image bounds are non-negative
	vt, err := p.ensureTexture(index, w, h)
	if err != nil {
		return err
	}

	err = p.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  vt.tex,
			MipLevel: 0,
		},
		tex.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(tex.Stride), //nolint:gosec // G115: stride is non-negative
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("upload view %d: %w", index, err)
	}
	p.frame = append(p.frame, quad{index: index, rect: rect})
	return nil
}

// Release destroys the GPU texture of view index.
func (p *Presenter) Release(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if vt, ok := p.views[index]; ok {
		p.destroyTexture(vt)
		delete(p.views, index)
		p.log.Debug("gpu: view texture released", "index", index)
	}
	kept := p.frame[:0]
	for _, q := range p.frame {
		if q.index != index {
			kept = append(kept, q)
		}
	}
	p.frame = kept
}

// Record draws this frame's views into rp, in upload order. Rectangles
// are clipped to the surface of size (width, height); fully clipped views
// are skipped. It returns the number of draws recorded.
func (p *Presenter) Record(rp PassEncoder, width, height uint32) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pipeline == nil || len(p.frame) == 0 {
		return 0
	}
	surface := image.Rect(0, 0, int(width), int(height))

	rp.SetPipeline(p.pipeline)
	n := 0
	for _, q := range p.frame {
		vt, ok := p.views[q.index]
		if !ok {
			continue
		}
		clip := q.rect.Intersect(surface)
		if clip.Empty() {
			continue
		}
		// The viewport spans the whole view rectangle so the quad maps
		// the full texture; the scissor clips it to the surface.
		rp.SetViewport(float32(q.rect.Min.X), float32(q.rect.Min.Y),
			float32(q.rect.Dx()), float32(q.rect.Dy()), 0, 1)
		rp.SetScissorRect(uint32(clip.Min.X), uint32(clip.Min.Y), //nolint:gosec // G115: clipped to the surface
			uint32(clip.Dx()), uint32(clip.Dy())) //nolint:gosec // G115: clipped to the surface
		rp.SetBindGroup(0, vt.bind, nil)
		rp.Draw(quadVertices, 1, 0, 0)
		n++
	}
	return n
}

// Views returns the indexes of views holding a GPU texture, sorted.
func (p *Presenter) Views() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, 0, len(p.views))
	for i := range p.views {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Pending returns the number of draws queued for the current frame.
func (p *Presenter) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frame)
}

// Destroy releases all GPU resources. The presenter refuses further
// uploads. Safe to call multiple times.
func (p *Presenter) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, vt := range p.views {
		p.destroyTexture(vt)
		delete(p.views, i)
	}
	p.frame = nil
	p.destroyPipeline()
	p.closed = true
}

// textureUsages maps render usage flags to their WebGPU counterparts.
var textureUsages = []struct {
	from render.TextureUsage
	to   gputypes.TextureUsage
}{
	{render.TextureUsageCopySrc, gputypes.TextureUsageCopySrc},
	{render.TextureUsageCopyDst, gputypes.TextureUsageCopyDst},
	{render.TextureUsageTextureBinding, gputypes.TextureUsageTextureBinding},
	{render.TextureUsageRenderAttachment, gputypes.TextureUsageRenderAttachment},
}

// halTextureDescriptor converts a render texture descriptor to a 2D hal one.
func halTextureDescriptor(d render.TextureDescriptor) *hal.TextureDescriptor {
	var usage gputypes.TextureUsage
	for _, u := range textureUsages {
		if d.Usage&u.from != 0 {
			usage |= u.to
		}
	}
	return &hal.TextureDescriptor{
		Label:         d.Label,
		Size:          hal.Extent3D{Width: d.Width, Height: d.Height, DepthOrArrayLayers: d.Depth},
		MipLevelCount: d.MipLevelCount,
		SampleCount:   d.SampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        d.Format,
		Usage:         usage,
	}
}

// ensureTexture returns the texture of view index, sized w x h.
func (p *Presenter) ensureTexture(index int, w, h uint32) (*viewTexture, error) {
	if vt, ok := p.views[index]; ok {
		if vt.width == w && vt.height == h {
			return vt, nil
		}
		p.destroyTexture(vt)
		delete(p.views, index)
	}

	desc := render.DefaultTextureDescriptor(w, h, gputypes.TextureFormatRGBA8Unorm)
	desc.Label = fmt.Sprintf("multiview_view_%d", index)
	label := desc.Label
	tex, err := p.device.CreateTexture(halTextureDescriptor(desc))
	if err != nil {
		return nil, fmt.Errorf("create view texture %d: %w", index, err)
	}
	vt := &viewTexture{tex: tex, width: w, height: h}

	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.destroyTexture(vt)
		return nil, fmt.Errorf("create view texture view %d: %w", index, err)
	}
	vt.view = view

	bind, err := p.opts.binder(p.bindLayout, view, p.sampler)
	if err != nil {
		p.destroyTexture(vt)
		return nil, fmt.Errorf("bind view texture %d: %w", index, err)
	}
	vt.bind = bind

	p.views[index] = vt
	p.log.Debug("gpu: view texture allocated", "index", index, "width", w, "height", h)
	return vt, nil
}

func (p *Presenter) destroyTexture(vt *viewTexture) {
	if vt.bind != nil {
		p.device.DestroyBindGroup(vt.bind)
		vt.bind = nil
	}
	if vt.view != nil {
		p.device.DestroyTextureView(vt.view)
		vt.view = nil
	}
	if vt.tex != nil {
		p.device.DestroyTexture(vt.tex)
		vt.tex = nil
	}
}

// ensurePipeline compiles the composite shader and creates the render
// pipeline with premultiplied alpha blending.
func (p *Presenter) ensurePipeline() error {
	if p.pipeline != nil {
		return nil
	}

	spirv, err := composite.CompileSPIRV()
	if err != nil {
		return err
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "multiview_composite_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create composite shader: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: view texture (texture_2d, fragment)
	//   Binding 1: sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "multiview_composite_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create composite bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "multiview_composite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create composite pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "multiview_composite_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create composite sampler: %w", err)
	}
	p.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "multiview_composite_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: composite.VertexEntryPoint,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: composite.FragmentEntryPoint(p.opts.colorSpace),
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.opts.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: p.opts.samples,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create composite pipeline: %w", err)
	}
	p.pipeline = pipeline

	p.log.Info("gpu: composite pipeline created", "format", p.opts.format, "colorSpace", p.opts.colorSpace.String())
	return nil
}

// destroyPipeline releases all pipeline resources in reverse creation order.
func (p *Presenter) destroyPipeline() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
