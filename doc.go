// Package multiview composites several independent 3D views onto one surface.
//
// # Overview
//
// A page shows many small 3D scenes: product tiles, dashboards, previews.
// Giving each its own device wastes memory and hits per-page context
// limits. multiview shares one render.Device between all of them. Each view
// renders off-screen into its own buffer, runs its own post-processing
// chain there and is then drawn into its rectangle of the visible surface.
// Pointer focus follows whichever view the user interacts with.
//
// # Quick Start
//
//	surface := render.NewPixmapTarget(1200, 800)
//	device := render.NewSoftwareDevice(surface)
//	sched := multiview.NewScheduler(device, surface)
//
//	box := layout.NewBox("panel-1", layout.Rect{Width: 600, Height: 400})
//	view, err := sched.RegisterView(box,
//	    multiview.WithDPR(multiview.RangeDPR(1, 2)),
//	    multiview.WithContent(torus),
//	    multiview.WithEffects(effect.NewBloom(0.8)),
//	)
//
//	for range ticker.C {
//	    stats := sched.OnFrame(time.Second / 60)
//	    ...
//	}
//
// # Frame
//
// OnFrame walks the views in registration order. For every view it syncs
// the buffer size with the element rectangle and the resolved device pixel
// ratio, advances the view's scene, renders it under a render.StateGuard
// lease (through the effect chain when there is one) and composites the
// result into the view's screen rectangle. A failure in one view is
// reported in FrameStats and never stops the others.
//
// # Coordinates
//
// Layout rectangles are CSS pixels with the origin at the top-left of the
// page. Screen rectangles are surface device pixels: CSS pixels times the
// surface ratio (see Scheduler.SurfaceRatio). View buffers use the view's
// own ratio, which may be lower, and are scaled when composited.
//
// # Concurrency
//
// The frame loop is single-threaded. Scheduler and View are not safe for
// concurrent use; layout.Box and pointer.Router are.
package multiview

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
