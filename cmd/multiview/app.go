package main

import (
	"log"
	"math"
	"time"

	"github.com/gogpu/multiview"
	"github.com/gogpu/multiview/internal/demo"
	"github.com/gogpu/multiview/layout"
	"github.com/gogpu/multiview/render"
)

// app is the demo host: the page layout, the surface and the scheduler
// driving one view per panel.
type app struct {
	sched   *multiview.Scheduler
	surface *render.PixmapTarget
	perf    *multiview.Performance
	page    layout.Size

	boxes   []*layout.Box
	scenes  map[*multiview.View]*demo.Scene
	hovered *multiview.View

	now     time.Time
	pending chan *layout.Document
}

func newApp(doc *layout.Document, cs render.ColorSpace) (*app, error) {
	page := pageSize(doc)
	surfaceDPR := multiview.RangeDPR(1, 2)
	ratio := surfaceDPR.Resolve(doc.DevicePixelRatio, 1)
	surface := render.NewPixmapTarget(
		int(math.Ceil(page.Width*ratio)),
		int(math.Ceil(page.Height*ratio)),
	)

	a := &app{
		surface: surface,
		perf:    multiview.NewPerformance(0.1, 1, 200*time.Millisecond),
		page:    page,
		boxes:   doc.Boxes(),
		scenes:  make(map[*multiview.View]*demo.Scene),
		now:     time.Unix(0, 0),
		pending: make(chan *layout.Document, 1),
	}
	a.sched = multiview.NewScheduler(render.NewSoftwareDevice(surface), surface,
		multiview.WithSurfaceDPR(surfaceDPR),
		multiview.WithDevicePixelRatio(doc.DevicePixelRatio),
		multiview.WithPerformance(a.perf),
		multiview.WithColorSpace(cs),
		multiview.WithClock(func() time.Time { return a.now }),
	)

	for i, p := range doc.Panels {
		zoom := p.Zoom
		if zoom <= 0 {
			zoom = 1
		}
		scene, err := demo.NewScene(p.Scene, zoom, p.ID)
		if err != nil {
			a.close()
			return nil, err
		}
		passes, err := demo.Passes(p.Effects)
		if err != nil {
			a.close()
			return nil, err
		}
		v, err := a.sched.RegisterView(a.boxes[i],
			multiview.WithDPR(multiview.DPRFromLayout(p.DPR)),
			multiview.WithContent(scene.Nodes...),
			multiview.WithCamera(scene.Camera),
			multiview.WithEffects(passes...),
		)
		if err != nil {
			a.close()
			return nil, err
		}
		a.scenes[v] = scene
	}
	return a, nil
}

// pageSize returns the document's surface size, or the extent of its
// panels when the surface is not set.
func pageSize(doc *layout.Document) layout.Size {
	if doc.Surface.Width > 0 && doc.Surface.Height > 0 {
		return doc.Surface
	}
	var s layout.Size
	for _, p := range doc.Panels {
		s.Width = max(s.Width, p.Rect.X+p.Rect.Width)
		s.Height = max(s.Height, p.Rect.Y+p.Rect.Height)
	}
	return s
}

// reload is called by the layout watcher goroutine. The newest document
// is applied before the next frame.
func (a *app) reload(doc *layout.Document, err error) {
	if err != nil {
		log.Printf("Layout reload failed: %v", err)
		return
	}
	select {
	case <-a.pending:
	default:
	}
	a.pending <- doc
}

// applyPending moves the panels to the rectangles of a reloaded document.
// Scenes and effects are kept.
func (a *app) applyPending() {
	select {
	case doc := <-a.pending:
		if n := doc.Apply(a.boxes); n > 0 {
			log.Printf("Layout reloaded: %d panels moved", n)
		}
	default:
	}
}

// sweep moves the simulated pointer to fraction t of the page width and
// tints the hovered panel.
func (a *app) sweep(t float64) {
	v, ok := a.sched.Hover(t*a.page.Width, a.page.Height/2)
	if !ok {
		v = nil
	}
	if v == a.hovered {
		return
	}
	if s := a.scenes[a.hovered]; s != nil {
		s.SetHovered(false)
	}
	if s := a.scenes[v]; s != nil {
		s.SetHovered(true)
	}
	a.hovered = v
}

// frame advances the simulated clock by dt and renders one frame.
func (a *app) frame(dt time.Duration) multiview.FrameStats {
	a.now = a.now.Add(dt)
	return a.sched.OnFrame(dt)
}

func (a *app) close() {
	if a.sched != nil {
		a.sched.Close()
	}
}
