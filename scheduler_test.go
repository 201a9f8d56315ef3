package multiview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"testing"
	"time"

	"github.com/gogpu/multiview/effect"
	"github.com/gogpu/multiview/layout"
	"github.com/gogpu/multiview/render"
)

// fillNode paints the whole buffer and records the draw.
type fillNode struct {
	name  string
	c     color.RGBA
	log   *[]string
	err   error
	panic bool
}

func (n *fillNode) Draw(dst *image.RGBA, _ render.Camera) error {
	if n.log != nil {
		*n.log = append(*n.log, n.name)
	}
	if n.panic {
		panic("boom")
	}
	if n.err != nil {
		return n.err
	}
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = n.c.R, n.c.G, n.c.B, n.c.A
	}
	return nil
}

type aspectCamera struct{ calls []float64 }

func (c *aspectCamera) SetAspect(a float64) { c.calls = append(c.calls, a) }

func newTestScheduler(w, h int, opts ...Option) (*Scheduler, *render.SoftwareDevice, *render.PixmapTarget) {
	surface := render.NewPixmapTarget(w, h)
	device := render.NewSoftwareDevice(surface)
	opts = append([]Option{WithSurfaceDPR(FixedDPR(1))}, opts...)
	return NewScheduler(device, surface, opts...), device, surface
}

func mustRegister(t *testing.T, s *Scheduler, e layout.Element, opts ...ViewOption) *View {
	t.Helper()
	v, err := s.RegisterView(e, opts...)
	if err != nil {
		t.Fatalf("RegisterView(%s): %v", e.ID(), err)
	}
	return v
}

func TestOnFrameRendersViewsInOrder(t *testing.T) {
	s, device, _ := newTestScheduler(30, 10)
	var order []string
	for i, id := range []string{"a", "b", "c"} {
		box := layout.NewBox(id, layout.Rect{X: float64(i * 10), Width: 10, Height: 10})
		mustRegister(t, s, box, WithContent(&fillNode{name: id, log: &order, c: color.RGBA{R: 0xFF, A: 0xFF}}))
	}

	stats := s.OnFrame(time.Second / 60)
	if stats.Rendered != 3 || stats.Composited != 3 || len(stats.Errors) != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if got := s.Compositor().Draws(); got != 3 {
		t.Errorf("composite draws = %d, want 3", got)
	}
	if device.Renders() != 3 {
		t.Errorf("device renders = %d, want 3", device.Renders())
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("render order = %v, want [a b c]", order)
	}
	if stats.Frame != 1 || s.Frame() != 1 {
		t.Errorf("frame = %d/%d, want 1", stats.Frame, s.Frame())
	}
}

func TestOnFrameResolvesDPRWithPerformance(t *testing.T) {
	now := time.Unix(1000, 0)
	perf := NewPerformance(0.5, 1, time.Second)
	s, _, _ := newTestScheduler(400, 400,
		WithDevicePixelRatio(3),
		WithPerformance(perf),
		WithClock(func() time.Time { return now }),
	)
	box := layout.NewBox("panel", layout.Rect{Width: 100, Height: 100})
	v := mustRegister(t, s, box, WithDPR(RangeDPR(1, 2)))

	perf.Regress(now)
	stats := s.OnFrame(0)
	if stats.Performance != 0.5 {
		t.Errorf("performance = %v, want 0.5", stats.Performance)
	}
	if w, h := v.Target().Width(), v.Target().Height(); w != 100 || h != 100 {
		t.Errorf("regressed buffer = %dx%d, want 100x100", w, h)
	}

	now = now.Add(2 * time.Second)
	s.OnFrame(0)
	if w, h := v.Target().Width(), v.Target().Height(); w != 200 || h != 200 {
		t.Errorf("recovered buffer = %dx%d, want 200x200", w, h)
	}
	if v.PixelRatio() != 2 {
		t.Errorf("PixelRatio() = %v, want 2", v.PixelRatio())
	}
}

func TestOnFrameIsolatesFailures(t *testing.T) {
	s, _, surface := newTestScheduler(30, 10)
	cause := errors.New("mesh upload failed")
	green := color.RGBA{G: 0xFF, A: 0xFF}

	mustRegister(t, s, layout.NewBox("a", layout.Rect{Width: 10, Height: 10}), WithContent(&fillNode{c: green}))
	mustRegister(t, s, layout.NewBox("b", layout.Rect{X: 10, Width: 10, Height: 10}), WithContent(&fillNode{err: cause}))
	mustRegister(t, s, layout.NewBox("c", layout.Rect{X: 20, Width: 10, Height: 10}), WithContent(&fillNode{c: green}))

	stats := s.OnFrame(0)
	if stats.Rendered != 2 || stats.Composited != 2 {
		t.Errorf("stats = %+v, want 2 rendered and composited", stats)
	}
	if len(stats.Errors) != 1 {
		t.Fatalf("errors = %v, want 1", stats.Errors)
	}
	ve := stats.Errors[0]
	if ve.Index != 1 || ve.Stage != StageRender || ve.ID != "b" {
		t.Errorf("ViewError = %+v", ve)
	}
	if !errors.Is(stats.Err(), cause) {
		t.Errorf("stats.Err() = %v, want it to wrap the cause", stats.Err())
	}

	img := surface.Image()
	if img.RGBAAt(5, 5) != green || img.RGBAAt(25, 5) != green {
		t.Error("views around the failure should be composited")
	}
	if img.RGBAAt(15, 5) != (color.RGBA{}) {
		t.Error("the failed view should not be composited")
	}
}

func TestOnFrameIsolatesPassFailures(t *testing.T) {
	s, _, surface := newTestScheduler(30, 10)
	cause := errors.New("shader compile failed")
	green := color.RGBA{G: 0xFF, A: 0xFF}
	failing := effect.NewFunc("broken", func(_, _ *image.RGBA, _ float64) error { return cause })

	mustRegister(t, s, layout.NewBox("a", layout.Rect{Width: 10, Height: 10}),
		WithContent(&fillNode{c: green}), WithEffects(effect.NewSepia()))
	mustRegister(t, s, layout.NewBox("b", layout.Rect{X: 10, Width: 10, Height: 10}),
		WithContent(&fillNode{c: green}), WithEffects(effect.NewSepia(), failing))
	mustRegister(t, s, layout.NewBox("c", layout.Rect{X: 20, Width: 10, Height: 10}),
		WithContent(&fillNode{c: green}))

	stats := s.OnFrame(0)
	if stats.Composited != 2 {
		t.Errorf("Composited = %d, want 2", stats.Composited)
	}
	if len(stats.Errors) != 1 {
		t.Fatalf("errors = %v, want 1", stats.Errors)
	}
	ve := stats.Errors[0]
	if ve.Index != 1 || ve.Stage != StageRender {
		t.Errorf("ViewError = %+v, want view 1 at the render stage", ve)
	}
	var pe *effect.PassError
	if !errors.As(ve, &pe) {
		t.Fatalf("error = %v, want a *effect.PassError", ve)
	}
	if pe.Index != 1 || pe.Name != "broken" || !errors.Is(pe, cause) {
		t.Errorf("PassError = %+v", pe)
	}

	img := surface.Image()
	if img.RGBAAt(5, 5).A != 0xFF || img.RGBAAt(25, 5) != green {
		t.Error("views around the failed chain should be composited")
	}
	if img.RGBAAt(15, 5) != (color.RGBA{}) {
		t.Error("the view with the failed chain should not be composited")
	}
}

func TestEffectViewKeepsTransparency(t *testing.T) {
	red := color.RGBA{R: 0xFF, A: 0xFF}
	s, _, surface := newTestScheduler(20, 10, WithClearColor(red))

	mustRegister(t, s, layout.NewBox("plain", layout.Rect{Width: 10, Height: 10}))
	mustRegister(t, s, layout.NewBox("bloom", layout.Rect{X: 10, Width: 10, Height: 10}),
		WithEffects(effect.NewBloom(0.8), effect.NewNoise(0.75, effect.BlendOverlay)))

	if err := s.OnFrame(0).Err(); err != nil {
		t.Fatal(err)
	}
	img := surface.Image()
	if got := img.RGBAAt(5, 5); got != red {
		t.Errorf("plain view pixel = %v, want the clear colour", got)
	}
	if got := img.RGBAAt(15, 5); got != red {
		t.Errorf("effect view pixel = %v, want the clear colour", got)
	}
}

// unregisterNode unregisters another view while drawing.
type unregisterNode struct {
	s      *Scheduler
	target **View
}

func (n *unregisterNode) Draw(*image.RGBA, render.Camera) error {
	if *n.target != nil {
		err := n.s.UnregisterView(*n.target)
		*n.target = nil
		return err
	}
	return nil
}

func TestOnFrameSkipsViewsUnregisteredMidFrame(t *testing.T) {
	s, _, _ := newTestScheduler(20, 10)
	var later *View
	mustRegister(t, s, layout.NewBox("a", layout.Rect{Width: 10, Height: 10}),
		WithContent(&unregisterNode{s: s, target: &later}))
	later = mustRegister(t, s, layout.NewBox("b", layout.Rect{X: 10, Width: 10, Height: 10}))

	stats := s.OnFrame(0)
	if err := stats.Err(); err != nil {
		t.Fatalf("OnFrame: %v", err)
	}
	if stats.Composited != 1 {
		t.Errorf("Composited = %d, want 1", stats.Composited)
	}
	if len(s.Views()) != 1 {
		t.Errorf("views = %d, want 1", len(s.Views()))
	}
}

func TestOnFrameRecoversPanic(t *testing.T) {
	s, device, _ := newTestScheduler(20, 10)
	device.SetAutoClear(false)
	var order []string

	mustRegister(t, s, layout.NewBox("bad", layout.Rect{Width: 10, Height: 10}),
		WithContent(&fillNode{name: "bad", log: &order, panic: true}))
	mustRegister(t, s, layout.NewBox("good", layout.Rect{X: 10, Width: 10, Height: 10}),
		WithContent(&fillNode{name: "good", log: &order, c: color.RGBA{B: 0xFF, A: 0xFF}}))

	stats := s.OnFrame(0)
	if len(stats.Errors) != 1 {
		t.Fatalf("errors = %v, want 1", stats.Errors)
	}
	err := stats.Errors[0]
	if !errors.Is(err, ErrPanic) || !errors.Is(err, effect.ErrPassFailed) {
		t.Errorf("panic error = %v, want ErrPanic and effect.ErrPassFailed", err)
	}
	if len(order) != 2 || order[1] != "good" {
		t.Errorf("order = %v, want the second view rendered", order)
	}

	if device.AutoClear() {
		t.Error("AutoClear not restored after panic")
	}
	if device.RenderTarget() != nil {
		t.Error("render target not restored after panic")
	}
	if s.guard.Busy() {
		t.Error("guard still busy after panic")
	}
}

func TestOnFrameAllocationFailure(t *testing.T) {
	s, _, _ := newTestScheduler(20, 10)
	mustRegister(t, s, layout.NewBox("collapsed", layout.Rect{Width: 0, Height: 10}))
	mustRegister(t, s, layout.NewBox("ok", layout.Rect{X: 10, Width: 10, Height: 10}))

	stats := s.OnFrame(0)
	if len(stats.Errors) != 1 || stats.Errors[0].Stage != StageAllocate {
		t.Fatalf("errors = %v, want one allocate failure", stats.Errors)
	}
	if !errors.Is(stats.Errors[0], render.ErrInvalidSize) {
		t.Errorf("error = %v, want ErrInvalidSize", stats.Errors[0])
	}
	if stats.Composited != 1 {
		t.Errorf("Composited = %d, want 1", stats.Composited)
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	s, _, _ := newTestScheduler(100, 100)
	cam := &aspectCamera{}
	box := layout.NewBox("panel", layout.Rect{Width: 40, Height: 20})
	v := mustRegister(t, s, box, WithCamera(cam))

	s.OnFrame(0)
	s.OnFrame(0)
	if got := v.Target().Allocations(); got != 1 {
		t.Errorf("allocations after two equal frames = %d, want 1", got)
	}
	if len(cam.calls) != 1 || cam.calls[0] != 2 {
		t.Errorf("SetAspect calls = %v, want [2]", cam.calls)
	}

	box.SetRect(layout.Rect{Width: 20, Height: 20})
	s.OnFrame(0)
	if got := v.Target().Allocations(); got != 2 {
		t.Errorf("allocations after resize = %d, want 2", got)
	}
	if w := v.Target().Width(); w != 20 {
		t.Errorf("width = %d, want 20", w)
	}
	if len(cam.calls) != 2 || cam.calls[1] != 1 {
		t.Errorf("SetAspect calls = %v, want [2 1]", cam.calls)
	}
}

func TestDisjointViewsCommute(t *testing.T) {
	frame := func(order []int) []byte {
		s, _, surface := newTestScheduler(20, 10)
		boxes := []*layout.Box{
			layout.NewBox("left", layout.Rect{Width: 10, Height: 10}),
			layout.NewBox("right", layout.Rect{X: 10, Width: 10, Height: 10}),
		}
		colors := []color.RGBA{{R: 0xFF, A: 0xFF}, {G: 0x80, A: 0x80}}
		for _, i := range order {
			mustRegister(t, s, boxes[i], WithContent(&fillNode{c: colors[i]}))
		}
		s.OnFrame(0)
		return surface.Image().Pix
	}

	if !bytes.Equal(frame([]int{0, 1}), frame([]int{1, 0})) {
		t.Error("swapping registration order of disjoint views changed the surface")
	}
}

func TestUnregisterView(t *testing.T) {
	root := layout.NewBox("root", layout.Rect{Width: 100, Height: 100})
	sink := &recordingSink{}
	s, device, _ := newTestScheduler(20, 10, WithDefaultPointerTarget(root), WithFrameSink(sink))
	a := mustRegister(t, s, layout.NewBox("a", layout.Rect{Width: 10, Height: 10}))
	b := mustRegister(t, s, layout.NewBox("b", layout.Rect{X: 10, Width: 10, Height: 10}))

	if got := s.Router().Active(); got.ID() != "b" {
		t.Fatalf("active = %s, want b", got.ID())
	}
	if err := s.UnregisterView(b); err != nil {
		t.Fatal(err)
	}
	if got := s.Router().Active(); got.ID() != "a" {
		t.Errorf("after unregistering b, active = %s, want a", got.ID())
	}
	if !b.Target().Released() || !b.Portal().Disposed() || b.Registered() {
		t.Error("unregistered view should release its target and portal")
	}
	if len(sink.released) != 1 || sink.released[0] != b.Index() {
		t.Errorf("sink releases = %v, want [%d]", sink.released, b.Index())
	}
	if err := s.UnregisterView(b); !errors.Is(err, ErrUnknownView) {
		t.Errorf("second UnregisterView = %v, want ErrUnknownView", err)
	}

	stats := s.OnFrame(0)
	if stats.Rendered != 1 || device.Renders() != 1 {
		t.Errorf("rendered = %d, want only the remaining view", stats.Rendered)
	}

	if err := s.UnregisterView(a); err != nil {
		t.Fatal(err)
	}
	if got := s.Router().Active(); got.ID() != "root" {
		t.Errorf("active = %s, want the default target", got.ID())
	}
	if len(s.Views()) != 0 {
		t.Errorf("Views() = %v, want none", s.Views())
	}
}

func TestRegisterViewDefaults(t *testing.T) {
	s, _, _ := newTestScheduler(10, 10)
	if _, err := s.RegisterView(nil); !errors.Is(err, ErrNilElement) {
		t.Errorf("RegisterView(nil) = %v, want ErrNilElement", err)
	}

	v := mustRegister(t, s, layout.NewBox("a", layout.Rect{Width: 10, Height: 10}),
		WithEffects(effect.NewSepia()), WithSamples(4))
	if v.DPR() != FixedDPR(1) {
		t.Errorf("DPR() = %v, want the surface policy", v.DPR())
	}
	if v.Chain().Len() != 1 || v.Chain().AutoRenderToScreen() {
		t.Error("effects should form a normalised chain")
	}
	if v.Target().Samples() != 4 {
		t.Errorf("Samples() = %d, want 4", v.Target().Samples())
	}

	plain := mustRegister(t, s, layout.NewBox("b", layout.Rect{Width: 10, Height: 10}))
	if plain.Chain() != nil {
		t.Error("view without effects should have no chain")
	}
	if plain.Index() != v.Index()+1 {
		t.Errorf("indexes %d, %d should be consecutive", v.Index(), plain.Index())
	}
}

func TestHover(t *testing.T) {
	s, _, _ := newTestScheduler(30, 30)
	under := mustRegister(t, s, layout.NewBox("under", layout.Rect{Width: 20, Height: 20}))
	over := mustRegister(t, s, layout.NewBox("over", layout.Rect{X: 10, Y: 10, Width: 20, Height: 20}))

	tests := []struct {
		name   string
		x, y   float64
		want   *View
		routed bool
	}{
		{"overlap goes to the last registered", 15, 15, over, true},
		{"only under", 5, 5, under, true},
		{"outside", 29, 1, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, routed := s.Hover(tt.x, tt.y)
			if got != tt.want || routed != tt.routed {
				t.Errorf("Hover(%v, %v) = %v, %v", tt.x, tt.y, got, routed)
			}
			if tt.want != nil && s.Router().Active().ID() != tt.want.ID() {
				t.Errorf("active = %s, want %s", s.Router().Active().ID(), tt.want.ID())
			}
		})
	}
}

func TestSurfaceRatio(t *testing.T) {
	surface := render.NewPixmapTarget(10, 10)
	s := NewScheduler(render.NewSoftwareDevice(surface), surface)
	if got := s.SurfaceRatio(); got != 2 {
		t.Errorf("undetected device ratio: SurfaceRatio() = %v, want 2", got)
	}
	s.SetDevicePixelRatio(1.5)
	if got := s.SurfaceRatio(); got != 1.5 {
		t.Errorf("SurfaceRatio() = %v, want 1.5", got)
	}
	if s.DevicePixelRatio() != 1.5 {
		t.Errorf("DevicePixelRatio() = %v", s.DevicePixelRatio())
	}
}

type recordingSink struct {
	frames   int
	uploads  []int
	released []int
	logger   *slog.Logger
	err      error
}

func (r *recordingSink) BeginFrame() { r.frames++ }

func (r *recordingSink) Upload(index int, _ *image.RGBA, _ image.Rectangle) error {
	r.uploads = append(r.uploads, index)
	return r.err
}

func (r *recordingSink) Release(index int) { r.released = append(r.released, index) }

func (r *recordingSink) SetLogger(l *slog.Logger) { r.logger = l }

func TestFrameSink(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	sink := &recordingSink{}
	s, _, _ := newTestScheduler(20, 10, WithFrameSink(sink))
	if sink.logger != Logger() {
		t.Error("sink should receive the current logger")
	}
	mustRegister(t, s, layout.NewBox("a", layout.Rect{Width: 10, Height: 10}))
	mustRegister(t, s, layout.NewBox("b", layout.Rect{X: 10, Width: 10, Height: 10}))

	s.OnFrame(0)
	if sink.frames != 1 || len(sink.uploads) != 2 || sink.uploads[0] != 0 || sink.uploads[1] != 1 {
		t.Errorf("sink frames=%d uploads=%v", sink.frames, sink.uploads)
	}

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(custom)
	if sink.logger != custom {
		t.Error("SetLogger should propagate to the sink")
	}

	sink.err = errors.New("device lost")
	stats := s.OnFrame(0)
	if len(stats.Errors) != 2 || stats.Errors[0].Stage != StageComposite {
		t.Errorf("errors = %v, want composite failures", stats.Errors)
	}

	s.Close()
	SetLogger(orig)
	if sink.logger != custom {
		t.Error("closed scheduler should stop propagating to its sink")
	}
	if len(sink.released) != 2 {
		t.Errorf("Close released %v, want both views", sink.released)
	}
}
