// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gputypes"
)

// RenderTarget defines where rendering output goes.
//
// A RenderTarget is an abstraction over different rendering destinations:
//   - PixmapTarget: CPU-backed *image.RGBA, used for the shared surface
//   - ViewTarget: a view's off-screen buffer, resized with its layout
//
// Targets may support CPU access (Pixels), GPU access (TextureView), or both.
// The Device implementation chooses the appropriate access method.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// TextureView returns the GPU texture view for this target.
	// Returns nil for CPU-only targets.
	TextureView() TextureView

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only targets.
	// For RGBA format, each pixel is 4 bytes: R, G, B, A (premultiplied).
	Pixels() []byte

	// Stride returns the number of bytes per row.
	// For RGBA, this is typically Width * 4, but may include padding.
	Stride() int
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// The scheduler composites every view into a PixmapTarget that stands in
// for the shared visible surface.
//
// Example:
//
//	surface := render.NewPixmapTarget(1280, 720)
//	sched := multiview.NewScheduler(render.NewSoftwareDevice(), surface)
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a render target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// TextureView returns nil as this is a CPU-only target.
func (t *PixmapTarget) TextureView() TextureView {
	return nil
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c color.Color) {
	fill(t.img, c)
}

// Resize creates a new backing image with the given dimensions.
// The contents are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	if t.Width() == width && t.Height() == height {
		return
	}
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)

// imageOf returns an *image.RGBA sharing memory with target, or nil if the
// target has no CPU-accessible pixels.
func imageOf(target RenderTarget) *image.RGBA {
	type imager interface{ Image() *image.RGBA }
	if im, ok := target.(imager); ok {
		return im.Image()
	}
	pix := target.Pixels()
	if pix == nil {
		return nil
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: target.Stride(),
		Rect:   image.Rect(0, 0, target.Width(), target.Height()),
	}
}

// fill paints the whole image with c using source (not over) semantics.
func fill(img *image.RGBA, c color.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}
