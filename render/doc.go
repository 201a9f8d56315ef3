// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the shared-device layer views render through.
//
// Several views share one rendering Device. Each view owns a ViewTarget, an
// off-screen buffer sized to its layout rectangle, and renders into it while
// holding a StateGuard lease. The lease captures the device state the view is
// about to change (auto-clear, XR flags, current output target) and puts it
// back when released, so a view can never leak state into the next one.
//
// # Core Types
//
//   - Device: the shared rendering device (SoftwareDevice is the CPU one)
//   - RenderTarget: where rendering output goes (PixmapTarget, ViewTarget)
//   - StateGuard / Lease: scoped save/restore of device state
//   - Scene / Camera: opaque handles supplied by the scene-graph layer
//   - ColorSpace: transfer function used when compositing view buffers
//
// # Usage
//
//	device := render.NewSoftwareDevice(surface)
//	guard := render.NewStateGuard(device)
//	target := render.NewViewTarget("panel-1")
//
//	if _, err := target.EnsureSize(200, 200); err != nil {
//	    return err
//	}
//	err := guard.Run(target, func() error {
//	    return device.Render(scene, camera)
//	})
//
// # Thread Safety
//
// Devices, targets and guards are NOT thread-safe. They are driven from the
// single frame goroutine of a scheduler.
package render
