package multiview

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/gogpu/multiview/composite"
	"github.com/gogpu/multiview/effect"
	"github.com/gogpu/multiview/layout"
	"github.com/gogpu/multiview/pointer"
	"github.com/gogpu/multiview/portal"
	"github.com/gogpu/multiview/render"
)

// FrameSink receives every composited view. A GPU presenter implements it
// to mirror view buffers into device textures.
type FrameSink interface {
	// BeginFrame is called once at the start of every frame.
	BeginFrame()

	// Upload hands over the processed buffer of view index and the
	// surface rectangle it was composited into.
	Upload(index int, tex *image.RGBA, rect image.Rectangle) error

	// Release frees the resources held for view index. It is called when
	// the view unregisters.
	Release(index int)
}

// FrameStats summarises one call to OnFrame.
type FrameStats struct {
	// Frame is the frame number, starting at 1.
	Frame uint64

	// Performance is the performance scalar used for the frame.
	Performance float64

	// Rendered counts views whose scene and effect chain succeeded.
	Rendered int

	// Composited counts views drawn to the surface.
	Composited int

	// Errors holds one entry per failed view.
	Errors []*ViewError
}

// Err joins the frame's errors, or returns nil.
func (s FrameStats) Err() error {
	errs := make([]error, len(s.Errors))
	for i, e := range s.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Scheduler drives all views from one frame clock.
//
// Scheduler is not safe for concurrent use. Call its methods from the
// frame loop.
type Scheduler struct {
	device     render.Device
	guard      *render.StateGuard
	compositor *composite.Compositor
	router     *pointer.Router
	opts       options

	views     []*View
	nextIndex int
	frame     uint64
}

// NewScheduler creates a scheduler rendering with device and compositing
// into surface.
func NewScheduler(device render.Device, surface *render.PixmapTarget, opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Scheduler{
		device: device,
		guard:  render.NewStateGuard(device),
		compositor: composite.New(surface,
			composite.WithColorSpace(o.colorSpace),
			composite.WithClearColor(o.clearColor),
		),
		router: pointer.NewRouter(o.pointerDefault),
		opts:   o,
	}
	if o.sink != nil {
		attachLogger(o.sink)
	}
	return s
}

// RegisterView creates a view tracking element. The view is rendered from
// the next frame on, after every view registered before it, and becomes
// the active pointer target.
func (s *Scheduler) RegisterView(element layout.Element, opts ...ViewOption) (*View, error) {
	if element == nil {
		return nil, ErrNilElement
	}
	var o viewOptions
	for _, opt := range opts {
		opt(&o)
	}

	index := s.nextIndex
	s.nextIndex++

	v := &View{
		index:   index,
		element: element,
		dpr:     o.dpr,
		camera:  o.camera,
		target:  render.NewViewTarget(fmt.Sprintf("view-%d", index), render.WithSamples(o.samples)),
		portal:  portal.New(element.ID()),
	}
	if v.dpr.IsZero() {
		v.dpr = s.opts.surfaceDPR
	}
	if err := v.portal.Attach(o.content...); err != nil {
		return nil, err
	}
	v.portal.SetCamera(o.camera)

	chain := o.chain
	if len(o.passes) > 0 {
		if chain == nil {
			chain = effect.NewChain()
		}
		chain.Add(o.passes...)
	}
	if chain != nil {
		v.adapter = effect.NewAdapter(chain)
	}

	v.token = s.router.Activate(element)
	s.views = append(s.views, v)

	Logger().Info("multiview: view registered",
		"index", index, "id", element.ID(), "dpr", v.dpr.String(), "effects", chain.Len())
	return v, nil
}

// UnregisterView removes v. Its buffer and frame-sink resources are
// released and its pointer activation dropped before the next frame.
func (s *Scheduler) UnregisterView(v *View) error {
	i := slices.Index(s.views, v)
	if v == nil || i < 0 {
		return ErrUnknownView
	}
	s.views = slices.Delete(s.views, i, i+1)

	v.target.Release()
	v.portal.Dispose()
	s.router.Release(v.token)
	if s.opts.sink != nil {
		s.opts.sink.Release(v.index)
	}
	v.closed = true

	Logger().Info("multiview: view unregistered", "index", v.index, "id", v.element.ID())
	return nil
}

// OnFrame renders and composites every view once, in registration order.
// dt is the time since the previous frame.
func (s *Scheduler) OnFrame(dt time.Duration) FrameStats {
	s.frame++
	perf := 1.0
	if s.opts.performance != nil {
		perf = s.opts.performance.Current(s.opts.clock())
	}
	stats := FrameStats{Frame: s.frame, Performance: perf}

	s.compositor.Begin()
	if s.opts.sink != nil {
		s.opts.sink.BeginFrame()
	}

	seconds := dt.Seconds()
	surfaceRatio := s.SurfaceRatio()
	for _, v := range slices.Clone(s.views) {
		// Unregistered by a node earlier in this frame.
		if v.closed {
			continue
		}
		if err := v.sync(s.opts.devicePixelRatio, perf, surfaceRatio); err != nil {
			stats.fail(v, StageAllocate, err)
			continue
		}

		v.portal.Update(seconds)
		if err := s.renderView(v, seconds); err != nil {
			stats.fail(v, StageRender, err)
			continue
		}
		stats.Rendered++

		if err := s.present(v); err != nil {
			stats.fail(v, StageComposite, err)
			continue
		}
		stats.Composited++
	}
	return stats
}

// renderView renders v under a state guard lease. A panic inside the scene
// or the chain is recovered after the lease has restored the device.
func (s *Scheduler) renderView(v *View, dt float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %w: %v", effect.ErrPassFailed, ErrPanic, r)
		}
	}()
	return s.guard.Run(v.target, func() error {
		if v.adapter.Empty() {
			return s.device.Render(v.portal, v.camera)
		}
		return v.adapter.Execute(s.device, v.portal, v.camera, v.target, dt)
	})
}

// present composites v onto the surface and hands it to the frame sink.
func (s *Scheduler) present(v *View) error {
	tex := v.target.Texture()
	if err := s.compositor.Draw(tex, v.screen); err != nil {
		return err
	}
	if s.opts.sink != nil {
		if err := s.opts.sink.Upload(v.index, tex, v.screen); err != nil {
			return fmt.Errorf("frame sink: %w", err)
		}
	}
	return nil
}

func (st *FrameStats) fail(v *View, stage Stage, err error) {
	ve := &ViewError{Index: v.index, ID: v.element.ID(), Stage: stage, Err: err}
	st.Errors = append(st.Errors, ve)
	Logger().Warn("multiview: view frame failed",
		"frame", st.Frame, "index", v.index, "id", ve.ID, "stage", stage.String(), "err", err)
}

// Hover routes pointer focus to the view under the CSS point (x, y). Where
// views overlap, the one registered last wins. It returns the view hit and
// whether focus was routed to it.
func (s *Scheduler) Hover(x, y float64) (*View, bool) {
	for i := len(s.views) - 1; i >= 0; i-- {
		v := s.views[i]
		if !v.element.Rect().Contains(x, y) {
			continue
		}
		if !s.router.Hover(v.element) {
			Logger().Debug("multiview: pointer target not mounted", "index", v.index, "id", v.element.ID())
			return v, false
		}
		return v, true
	}
	return nil, false
}

// SetDevicePixelRatio updates the device ratio. Buffers follow on the next
// frame.
func (s *Scheduler) SetDevicePixelRatio(r float64) {
	s.opts.devicePixelRatio = r
}

// DevicePixelRatio returns the device ratio as set by the host. Zero means
// undetected.
func (s *Scheduler) DevicePixelRatio() float64 {
	return s.opts.devicePixelRatio
}

// SurfaceRatio returns the ratio between surface device pixels and CSS
// pixels: the surface policy resolved against the device ratio. Hosts size
// the surface to the page size times this ratio.
func (s *Scheduler) SurfaceRatio() float64 {
	return s.opts.surfaceDPR.Resolve(s.opts.devicePixelRatio, 1)
}

// Performance returns the performance governor, or nil.
func (s *Scheduler) Performance() *Performance {
	return s.opts.performance
}

// Views returns the registered views in registration order.
func (s *Scheduler) Views() []*View {
	return slices.Clone(s.views)
}

// Router returns the pointer router.
func (s *Scheduler) Router() *pointer.Router {
	return s.router
}

// Compositor returns the surface compositor.
func (s *Scheduler) Compositor() *composite.Compositor {
	return s.compositor
}

// Device returns the shared device.
func (s *Scheduler) Device() render.Device {
	return s.device
}

// Frame returns the number of frames run so far.
func (s *Scheduler) Frame() uint64 {
	return s.frame
}

// Close unregisters every view and stops logger propagation to the frame
// sink.
func (s *Scheduler) Close() {
	for _, v := range slices.Clone(s.views) {
		_ = s.UnregisterView(v)
	}
	if s.opts.sink != nil {
		detachLogger(s.opts.sink)
	}
}
