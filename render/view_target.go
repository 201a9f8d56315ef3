// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"
)

// View target errors.
var (
	// ErrInvalidSize is returned when a target is asked for a size it
	// cannot allocate (non-positive or above the maximum texture size).
	ErrInvalidSize = errors.New("render: invalid target size")

	// ErrTargetReleased is returned when a released target is used.
	ErrTargetReleased = errors.New("render: target released")
)

// ViewTarget is the off-screen buffer a view renders into.
//
// Its size tracks the view's layout rectangle multiplied by the resolved
// device pixel ratio. EnsureSize only reallocates when the requested size
// differs from the current allocation, so calling it every frame is cheap.
//
// A ViewTarget starts as a 1x1 buffer and holds premultiplied RGBA pixels.
type ViewTarget struct {
	label       string
	img         *image.RGBA
	samples     int
	maxSize     int
	format      gputypes.TextureFormat
	allocations int
	released    bool
}

// ViewTargetOption configures a ViewTarget during creation.
type ViewTargetOption func(*ViewTarget)

// WithSamples sets the multisample count recorded for the target.
// Values below 1 are treated as 1.
func WithSamples(n int) ViewTargetOption {
	return func(t *ViewTarget) {
		if n < 1 {
			n = 1
		}
		t.samples = n
	}
}

// WithMaxSize limits the width and height EnsureSize accepts.
func WithMaxSize(n int) ViewTargetOption {
	return func(t *ViewTarget) {
		if n > 0 {
			t.maxSize = n
		}
	}
}

// WithFormat sets the texture format reported by the target.
func WithFormat(format gputypes.TextureFormat) ViewTargetOption {
	return func(t *ViewTarget) {
		t.format = format
	}
}

// NewViewTarget creates a 1x1 view target.
func NewViewTarget(label string, opts ...ViewTargetOption) *ViewTarget {
	t := &ViewTarget{
		label:   label,
		img:     image.NewRGBA(image.Rect(0, 0, 1, 1)),
		samples: 1,
		maxSize: int(DefaultCapabilities().MaxTextureSize),
		format:  gputypes.TextureFormatRGBA8Unorm,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// EnsureSize makes the target exactly width x height pixels and returns the
// backing texture for sampling.
//
// The buffer is reallocated only when the size changes. On error the
// previous allocation is kept unchanged.
func (t *ViewTarget) EnsureSize(width, height int) (*image.RGBA, error) {
	if t.released {
		return nil, fmt.Errorf("%w: %s", ErrTargetReleased, t.label)
	}
	if width <= 0 || height <= 0 || width > t.maxSize || height > t.maxSize {
		return nil, fmt.Errorf("%w: %s %dx%d (max %d)", ErrInvalidSize, t.label, width, height, t.maxSize)
	}
	if t.img.Rect.Dx() == width && t.img.Rect.Dy() == height {
		return t.img, nil
	}
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
	t.allocations++
	return t.img, nil
}

// Texture returns the backing texture. It is nil after Release.
func (t *ViewTarget) Texture() *image.RGBA {
	if t.released {
		return nil
	}
	return t.img
}

// Image returns the backing image; it is the same as Texture.
func (t *ViewTarget) Image() *image.RGBA {
	return t.Texture()
}

// Label returns the debug label of the target.
func (t *ViewTarget) Label() string {
	return t.label
}

// Samples returns the multisample count.
func (t *ViewTarget) Samples() int {
	return t.samples
}

// Allocations returns how many times EnsureSize reallocated the buffer.
func (t *ViewTarget) Allocations() int {
	return t.allocations
}

// Release frees the buffer. A released target cannot be resized or
// rendered into again.
func (t *ViewTarget) Release() {
	t.released = true
	t.img = image.NewRGBA(image.Rectangle{})
}

// Released reports whether Release has been called.
func (t *ViewTarget) Released() bool {
	return t.released
}

// Width returns the target width in pixels.
func (t *ViewTarget) Width() int {
	return t.img.Rect.Dx()
}

// Height returns the target height in pixels.
func (t *ViewTarget) Height() int {
	return t.img.Rect.Dy()
}

// Format returns the pixel format.
func (t *ViewTarget) Format() gputypes.TextureFormat {
	return t.format
}

// TextureView returns nil; the buffer lives in CPU memory.
func (t *ViewTarget) TextureView() TextureView {
	return nil
}

// Pixels returns the pixel data, or nil once released.
func (t *ViewTarget) Pixels() []byte {
	if t.released {
		return nil
	}
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *ViewTarget) Stride() int {
	return t.img.Stride
}

// Ensure ViewTarget implements RenderTarget.
var _ RenderTarget = (*ViewTarget)(nil)

// PixelSize converts a CSS size into buffer pixels at the given ratio,
// rounding up so the buffer always covers the rectangle.
func PixelSize(cssWidth, cssHeight, ratio float64) (int, int) {
	return int(math.Ceil(cssWidth * ratio)), int(math.Ceil(cssHeight * ratio))
}
