// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render_test

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/multiview/render"
)

// ExampleStateGuard renders into an offscreen view buffer through a lease.
// The device is back on the visible surface with auto-clear on once the
// lease ends.
func ExampleStateGuard() {
	surface := render.NewPixmapTarget(64, 64)
	device := render.NewSoftwareDevice(surface)
	guard := render.NewStateGuard(device)

	view := render.NewViewTarget("view-0")
	if _, err := view.EnsureSize(render.PixelSize(32, 16, 0.5)); err != nil {
		fmt.Println("allocate failed:", err)
		return
	}

	scene := render.SceneFunc(func(dst *image.RGBA, _ render.Camera) error {
		dst.Set(0, 0, color.White)
		return nil
	})
	err := guard.Run(view, func() error {
		return device.Render(scene, nil)
	})
	if err != nil {
		fmt.Println("render failed:", err)
		return
	}

	fmt.Println("buffer:", view.Width(), "x", view.Height())
	fmt.Println("restored target:", device.RenderTarget() == nil)
	fmt.Println("auto-clear:", device.AutoClear())
	// Output:
	// buffer: 16 x 8
	// restored target: true
	// auto-clear: true
}
