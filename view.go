package multiview

import (
	"image"

	"github.com/gogpu/multiview/effect"
	"github.com/gogpu/multiview/layout"
	"github.com/gogpu/multiview/pointer"
	"github.com/gogpu/multiview/portal"
	"github.com/gogpu/multiview/render"
)

// View is one registered region of the page with its own scene, camera,
// buffer and effect chain.
//
// Views are created by Scheduler.RegisterView and live until
// Scheduler.UnregisterView.
type View struct {
	index   int
	element layout.Element
	dpr     DPR

	target  *render.ViewTarget
	portal  *portal.Container
	adapter *effect.Adapter
	camera  render.Camera
	token   pointer.Token

	screen image.Rectangle
	ratio  float64
	aspect float64
	closed bool
}

// Index returns the stable registration index of the view.
func (v *View) Index() int { return v.index }

// Element returns the tracked page element.
func (v *View) Element() layout.Element { return v.element }

// ID returns the element identity.
func (v *View) ID() string { return v.element.ID() }

// DPR returns the view's pixel ratio policy.
func (v *View) DPR() DPR { return v.dpr }

// Target returns the off-screen buffer the view renders into.
func (v *View) Target() *render.ViewTarget { return v.target }

// Portal returns the view's scene container.
func (v *View) Portal() *portal.Container { return v.portal }

// Chain returns the view's effect chain, or nil.
func (v *View) Chain() *effect.Chain {
	if v.adapter == nil {
		return nil
	}
	return v.adapter.Chain()
}

// Camera returns the view camera.
func (v *View) Camera() render.Camera { return v.camera }

// ScreenRect returns the surface rectangle, in device pixels, the view was
// last composited into.
func (v *View) ScreenRect() image.Rectangle { return v.screen }

// PixelRatio returns the ratio the buffer was last sized with.
func (v *View) PixelRatio() float64 { return v.ratio }

// Registered reports whether the view is still registered.
func (v *View) Registered() bool { return !v.closed }

// sync sizes the buffer for the element's current rectangle and updates
// the screen rectangle and camera aspect. The buffer is reallocated only
// when its pixel size changes.
func (v *View) sync(devicePixelRatio, performance, surfaceRatio float64) error {
	rect := v.element.Rect()
	ratio := v.dpr.Resolve(devicePixelRatio, performance)
	w, h := render.PixelSize(rect.Width, rect.Height, ratio)

	before := v.target.Allocations()
	if _, err := v.target.EnsureSize(w, h); err != nil {
		return err
	}
	if v.target.Allocations() != before {
		Logger().Debug("multiview: view resized",
			"index", v.index, "id", v.element.ID(), "width", w, "height", h, "ratio", ratio)
	}
	v.ratio = ratio
	v.screen = rect.Scale(surfaceRatio)

	if aspect := rect.Aspect(); v.camera != nil && aspect != v.aspect {
		v.camera.SetAspect(aspect)
		v.aspect = aspect
	}
	return nil
}
