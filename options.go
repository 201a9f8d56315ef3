package multiview

import (
	"image/color"
	"time"

	"github.com/gogpu/multiview/effect"
	"github.com/gogpu/multiview/pointer"
	"github.com/gogpu/multiview/portal"
	"github.com/gogpu/multiview/render"
)

// Option configures a Scheduler during creation.
//
// Example:
//
//	sched := multiview.NewScheduler(device, surface,
//	    multiview.WithSurfaceDPR(multiview.RangeDPR(1, 2)),
//	    multiview.WithPerformance(multiview.NewPerformance(0.1, 1, 200*time.Millisecond)),
//	)
type Option func(*options)

// options holds optional configuration for Scheduler creation.
type options struct {
	surfaceDPR       DPR
	devicePixelRatio float64
	performance      *Performance
	colorSpace       render.ColorSpace
	clearColor       color.Color
	sink             FrameSink
	pointerDefault   pointer.Element
	clock            func() time.Time
}

// defaultOptions returns the default scheduler options.
func defaultOptions() options {
	return options{
		surfaceDPR:       RangeDPR(1, 2),
		devicePixelRatio: 0, // undetected, resolved as DefaultDevicePixelRatio
		colorSpace:       render.ColorSpaceSRGB,
		clearColor:       color.Transparent,
		clock:            time.Now,
	}
}

// WithSurfaceDPR sets the pixel ratio policy of the surface. It is also
// the policy of views registered without WithDPR. Default [1, 2].
func WithSurfaceDPR(d DPR) Option {
	return func(o *options) {
		if !d.IsZero() {
			o.surfaceDPR = d
		}
	}
}

// WithDevicePixelRatio sets the initial device pixel ratio. Values <= 0
// mean the ratio could not be detected.
func WithDevicePixelRatio(r float64) Option {
	return func(o *options) {
		o.devicePixelRatio = r
	}
}

// WithPerformance attaches a performance governor. Without one the
// performance scalar is always 1.
func WithPerformance(p *Performance) Option {
	return func(o *options) {
		o.performance = p
	}
}

// WithColorSpace sets the surface colour space. Default sRGB.
func WithColorSpace(cs render.ColorSpace) Option {
	return func(o *options) {
		o.colorSpace = cs
	}
}

// WithClearColor sets the colour the surface is cleared to at the start
// of every frame. Default transparent.
func WithClearColor(c color.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithFrameSink mirrors every composited view into sink, for example a
// GPU presenter.
func WithFrameSink(sink FrameSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithDefaultPointerTarget sets the element receiving pointer events
// when no view is active, usually the page root.
func WithDefaultPointerTarget(e pointer.Element) Option {
	return func(o *options) {
		o.pointerDefault = e
	}
}

// WithClock replaces time.Now for the performance governor.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// ViewOption configures a View during registration.
type ViewOption func(*viewOptions)

type viewOptions struct {
	dpr     DPR
	chain   *effect.Chain
	passes  []effect.Pass
	content []portal.Node
	camera  render.Camera
	samples int
}

// WithDPR sets the view pixel ratio policy. Default: the surface policy.
func WithDPR(d DPR) ViewOption {
	return func(o *viewOptions) {
		o.dpr = d
	}
}

// WithEffects appends post-processing passes to the view's chain.
func WithEffects(passes ...effect.Pass) ViewOption {
	return func(o *viewOptions) {
		o.passes = append(o.passes, passes...)
	}
}

// WithChain uses an existing chain. Passes given with WithEffects are
// appended to it.
func WithChain(c *effect.Chain) ViewOption {
	return func(o *viewOptions) {
		o.chain = c
	}
}

// WithContent attaches scene nodes to the view's portal.
func WithContent(nodes ...portal.Node) ViewOption {
	return func(o *viewOptions) {
		o.content = append(o.content, nodes...)
	}
}

// WithCamera sets the view camera. Its aspect follows the element
// rectangle.
func WithCamera(cam render.Camera) ViewOption {
	return func(o *viewOptions) {
		o.camera = cam
	}
}

// WithSamples sets the multisample count of the view buffer. Default 1.
func WithSamples(n int) ViewOption {
	return func(o *viewOptions) {
		o.samples = n
	}
}
