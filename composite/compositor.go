// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package composite draws processed view textures onto the visible surface.
//
// Each view is one textured quad covering its screen rectangle. The
// texture is sampled across the rectangle (uv = position*0.5 + 0.5 under an
// orthographic identity projection), passed through the surface colour
// transform and blended premultiplied source-over. Regions are clipped to
// the surface and later draws win where rectangles overlap.
//
// Compositor does this on the CPU. The same quad is available as a WGSL
// shader for GPU presenters; see ShaderSource and CompileSPIRV.
package composite

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/multiview/internal/cache"
	"github.com/gogpu/multiview/render"
)

// ErrNilTexture is returned by Draw for a nil texture.
var ErrNilTexture = errors.New("composite: nil texture")

// Option configures a Compositor.
type Option func(*options)

type options struct {
	colorSpace render.ColorSpace
	interp     draw.Interpolator
	clear      color.Color
}

func defaultOptions() options {
	return options{
		colorSpace: render.ColorSpaceSRGB,
		interp:     draw.BiLinear,
		clear:      color.Transparent,
	}
}

// WithColorSpace sets the surface colour space. Default sRGB.
func WithColorSpace(cs render.ColorSpace) Option {
	return func(o *options) {
		o.colorSpace = cs
	}
}

// WithInterpolator sets the sampler used when a texture and its rectangle
// differ in size. Default draw.BiLinear.
func WithInterpolator(interp draw.Interpolator) Option {
	return func(o *options) {
		if interp != nil {
			o.interp = interp
		}
	}
}

// WithClearColor sets the colour Begin clears the surface to. Default
// transparent.
func WithClearColor(c color.Color) Option {
	return func(o *options) {
		if c != nil {
			o.clear = c
		}
	}
}

// Compositor draws view textures into rectangles of a surface.
//
// Compositor is not safe for concurrent use.
type Compositor struct {
	surface *render.PixmapTarget
	opts    options

	scratch *cache.Cache[image.Point, *image.RGBA]
	draws   int
}

// scratchSizes is the number of quad sizes whose scratch buffers are kept.
const scratchSizes = 8

// New creates a compositor drawing into surface.
func New(surface *render.PixmapTarget, opts ...Option) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Compositor{
		surface: surface,
		opts:    o,
		scratch: cache.New[image.Point, *image.RGBA](scratchSizes),
	}
}

// Surface returns the surface being composited into.
func (c *Compositor) Surface() *render.PixmapTarget {
	return c.surface
}

// ColorSpace returns the surface colour space.
func (c *Compositor) ColorSpace() render.ColorSpace {
	return c.opts.colorSpace
}

// Begin starts a frame: the surface is cleared and the draw count reset.
func (c *Compositor) Begin() {
	c.surface.Clear(c.opts.clear)
	c.draws = 0
}

// Draws returns the number of quads drawn since Begin.
func (c *Compositor) Draws() int {
	return c.draws
}

// Draw composites tex into rect (surface device pixels). A rectangle
// entirely outside the surface draws nothing and is not counted.
func (c *Compositor) Draw(tex *image.RGBA, rect image.Rectangle) error {
	if tex == nil {
		return ErrNilTexture
	}
	dst := c.surface.Image()
	clip := rect.Intersect(dst.Bounds())
	if clip.Empty() || tex.Bounds().Empty() {
		return nil
	}

	quad := c.sample(tex, rect.Size())
	c.transform(quad)
	draw.Draw(dst, clip, quad, clip.Min.Sub(rect.Min), draw.Over)
	c.draws++
	return nil
}

// sample fills the scratch quad of the given size with tex stretched to
// it. Scratch buffers are kept per size, so views of different sizes do
// not reallocate every frame.
func (c *Compositor) sample(tex *image.RGBA, size image.Point) *image.RGBA {
	r := image.Rectangle{Max: size}
	quad := c.scratch.GetOrCreate(size, func() *image.RGBA { return image.NewRGBA(r) })
	if tex.Bounds().Size() == size {
		draw.Copy(quad, image.Point{}, tex, tex.Bounds(), draw.Src, nil)
	} else {
		c.opts.interp.Scale(quad, r, tex, tex.Bounds(), draw.Src, nil)
	}
	return quad
}

// transform applies the surface colour transform in place.
func (c *Compositor) transform(img *image.RGBA) {
	if c.opts.colorSpace == render.ColorSpaceLinear {
		return
	}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		p := c.opts.colorSpace.EncodeRGBA(color.RGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]})
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = p.R, p.G, p.B
	}
}
