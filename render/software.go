// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image/color"
)

// Software device errors.
var (
	// ErrNoTarget is returned when Render is called without a current
	// target and without a surface to fall back to.
	ErrNoTarget = errors.New("render: no current target")

	// ErrNotCPUTarget is returned when the current target has no
	// CPU-accessible pixels.
	ErrNotCPUTarget = errors.New("render: target does not support CPU rendering")
)

// SoftwareDevice is a CPU implementation of Device.
//
// Scenes draw straight into the pixels of the current target. When no
// target is set, rendering goes to the surface given to NewSoftwareDevice.
//
// Example:
//
//	surface := render.NewPixmapTarget(800, 600)
//	device := render.NewSoftwareDevice(surface)
//	device.SetRenderTarget(view.Target())
//	device.Render(scene, camera)
type SoftwareDevice struct {
	surface    RenderTarget
	target     RenderTarget
	autoClear  bool
	xr         XRState
	clearColor color.Color

	renders int
}

// NewSoftwareDevice creates a CPU device presenting to surface.
// surface may be nil when everything renders off-screen.
func NewSoftwareDevice(surface RenderTarget) *SoftwareDevice {
	return &SoftwareDevice{
		surface:    surface,
		autoClear:  true,
		clearColor: color.Transparent,
	}
}

// AutoClear reports whether Render clears the target first.
func (d *SoftwareDevice) AutoClear() bool { return d.autoClear }

// SetAutoClear sets the auto-clear flag.
func (d *SoftwareDevice) SetAutoClear(enabled bool) { d.autoClear = enabled }

// XR returns the XR state.
func (d *SoftwareDevice) XR() XRState { return d.xr }

// SetXR replaces the XR state.
func (d *SoftwareDevice) SetXR(state XRState) { d.xr = state }

// RenderTarget returns the current target; nil means the surface.
func (d *SoftwareDevice) RenderTarget() RenderTarget { return d.target }

// SetRenderTarget sets the current target.
func (d *SoftwareDevice) SetRenderTarget(target RenderTarget) { d.target = target }

// SetClearColor sets the color used by auto-clear.
func (d *SoftwareDevice) SetClearColor(c color.Color) { d.clearColor = c }

// Renders returns how many successful Render calls the device has served.
func (d *SoftwareDevice) Renders() int { return d.renders }

// Render draws scene into the current target.
func (d *SoftwareDevice) Render(scene Scene, camera Camera) error {
	target := d.target
	if target == nil {
		target = d.surface
	}
	if target == nil {
		return ErrNoTarget
	}
	img := imageOf(target)
	if img == nil {
		return ErrNotCPUTarget
	}
	if d.autoClear {
		fill(img, d.clearColor)
	}
	if scene == nil {
		d.renders++
		return nil
	}
	if err := scene.Draw(img, camera); err != nil {
		return err
	}
	d.renders++
	return nil
}

// Ensure SoftwareDevice implements Device.
var _ Device = (*SoftwareDevice)(nil)
