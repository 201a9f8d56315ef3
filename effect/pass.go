// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"image"

	"golang.org/x/image/draw"
)

// Settings are the per-pass flags every pass carries.
type Settings struct {
	// Enabled passes run; disabled passes are skipped.
	Enabled bool

	// RenderToScreen makes a pass present to the visible surface. The
	// adapter always forces it off: view output goes to the view target.
	RenderToScreen bool

	// IgnoreBackground asks the pass to leave background pixels alone.
	// The adapter forces it off because the view target has no separate
	// background layer.
	IgnoreBackground bool
}

// Pass is one image-processing step.
//
// Render reads src and writes dst. Both have the same bounds and hold
// premultiplied pixels; src is a snapshot of dst taken before the pass ran,
// so a pass may read neighbours freely.
type Pass interface {
	Name() string
	Settings() *Settings
	Render(dst, src *image.RGBA, dt float64) error
}

// pass is embedded by the built-in passes.
type pass struct {
	name     string
	settings Settings
}

func newPass(name string) pass {
	return pass{name: name, settings: Settings{Enabled: true}}
}

// Name returns the pass name.
func (p *pass) Name() string {
	return p.name
}

// Settings returns the mutable pass settings.
func (p *pass) Settings() *Settings {
	return &p.settings
}

// Func adapts a plain function into a Pass.
type Func struct {
	pass
	fn func(dst, src *image.RGBA, dt float64) error
}

// NewFunc creates an enabled pass calling fn.
func NewFunc(name string, fn func(dst, src *image.RGBA, dt float64) error) *Func {
	return &Func{pass: newPass(name), fn: fn}
}

// Render calls the wrapped function.
func (f *Func) Render(dst, src *image.RGBA, dt float64) error {
	return f.fn(dst, src, dt)
}

// copyInto replaces the pixels of dst with img.
func copyInto(dst *image.RGBA, img image.Image) {
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
}

// opaque returns the straight colour of src as a fully opaque image with
// origin (0, 0). bild blends assume straight alpha and sum the alpha of
// both layers, so colour work happens on this copy.
func opaque(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Rect, src, b.Min, draw.Src)
	for i := 3; i < len(n.Pix); i += 4 {
		n.Pix[i] = 0xFF
	}
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}

// premultiplyInto writes the colour of img into dst with the alpha of
// src, so a pass never changes the coverage of a view.
func premultiplyInto(dst, src, img *image.RGBA) {
	b := src.Bounds()
	ib := img.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := n.Pix[y*n.Stride : y*n.Stride+b.Dx()*4]
		so := src.PixOffset(b.Min.X, b.Min.Y+y)
		io := img.PixOffset(ib.Min.X, ib.Min.Y+y)
		for i := 0; i < len(row); i += 4 {
			copy(row[i:i+3], img.Pix[io+i:io+i+3])
			row[i+3] = src.Pix[so+i+3]
		}
	}
	draw.Draw(dst, dst.Bounds(), n, image.Point{}, draw.Src)
}

// Ensure built-in passes implement Pass.
var (
	_ Pass = (*Func)(nil)
	_ Pass = (*Bloom)(nil)
	_ Pass = (*Sepia)(nil)
	_ Pass = (*Noise)(nil)
	_ Pass = (*Scanline)(nil)
	_ Pass = (*Pixelation)(nil)
	_ Pass = (*ChromaticAberration)(nil)
)
