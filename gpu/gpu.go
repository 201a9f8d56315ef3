//go:build !nogpu

// Package gpu mirrors composited views into GPU textures and draws them
// with the composite render pipeline.
//
// A Presenter is a multiview.FrameSink: every frame the scheduler hands it
// each view's processed buffer and screen rectangle. The presenter keeps
// one sampled texture per view, uploads the buffer through the queue and
// records one quad draw per view into the host's render pass, with the
// viewport and scissor set to the view rectangle.
//
// Usage:
//
//	p := gpu.NewPresenter(device, queue, gpu.WithDeviceProvider(provider), gpu.WithBinder(bind))
//	sched := multiview.NewScheduler(cpu, surface, multiview.WithFrameSink(p))
//	...
//	sched.OnFrame(dt)
//	p.Record(renderPass, width, height)
package gpu

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/multiview/render"
)

// Presenter errors.
var (
	// ErrNoBinder is returned by Upload when the presenter was created
	// without a Binder.
	ErrNoBinder = errors.New("gpu: no bind group binder")

	// ErrPresenterClosed is returned after Destroy.
	ErrPresenterClosed = errors.New("gpu: presenter destroyed")
)

// Binder creates the bind group for one view texture: binding 0 is the
// texture view, binding 1 the sampler, both laid out by layout. The host
// supplies it because binding resources depend on the backend in use.
type Binder func(layout hal.BindGroupLayout, view hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error)

// PassEncoder is the part of a render pass encoder the presenter records
// into.
type PassEncoder interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
	SetViewport(x, y, width, height, minDepth, maxDepth float32)
	SetScissorRect(x, y, width, height uint32)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// Option configures a Presenter.
type Option func(*options)

type options struct {
	format     gputypes.TextureFormat
	colorSpace render.ColorSpace
	binder     Binder
	samples    uint32
}

func defaultOptions() options {
	return options{
		format:     gputypes.TextureFormatBGRA8Unorm,
		colorSpace: render.ColorSpaceSRGB,
		samples:    1,
	}
}

// WithSurfaceFormat sets the format of the render pass the presenter
// records into. Default BGRA8Unorm.
func WithSurfaceFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithDeviceProvider takes the surface format from the host's device
// provider. An undefined format keeps the default.
func WithDeviceProvider(p render.DeviceHandle) Option {
	return func(o *options) {
		if p == nil {
			return
		}
		if f := p.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
			o.format = f
		}
	}
}

// WithColorSpace selects the colour transform of the fragment stage.
// Default sRGB.
func WithColorSpace(cs render.ColorSpace) Option {
	return func(o *options) {
		o.colorSpace = cs
	}
}

// WithBinder sets the bind group factory. Required for Upload.
func WithBinder(b Binder) Option {
	return func(o *options) {
		o.binder = b
	}
}

// WithSampleCount sets the multisample count of the target render pass.
// Default 1. Counts above the device maximum are clamped.
func WithSampleCount(n uint32) Option {
	return func(o *options) {
		if n > 0 {
			o.samples = min(n, render.DefaultCapabilities().MaxSamples)
		}
	}
}
