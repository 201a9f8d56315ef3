// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	bildeffect "github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/noise"
	"github.com/anthonynsimon/bild/transform"
)

// Bloom makes bright areas glow.
//
// Pixels above the luminance threshold are extracted, blurred and added
// back onto the image.
type Bloom struct {
	pass

	// Intensity scales the glow. Default 1.
	Intensity float64
	// Threshold is the luminance (0..1) where glow starts. Default 0.9.
	Threshold float64
	// Smoothing softens the threshold edge. Default 0.025.
	Smoothing float64
	// Radius is the blur radius in device pixels. Default 8.
	Radius float64
}

// NewBloom creates a bloom pass with the given intensity.
func NewBloom(intensity float64) *Bloom {
	return &Bloom{
		pass:      newPass("bloom"),
		Intensity: intensity,
		Threshold: 0.9,
		Smoothing: 0.025,
		Radius:    8,
	}
}

// Render implements Pass. Glow stays inside the coverage of src.
func (b *Bloom) Render(dst, src *image.RGBA, _ float64) error {
	lo, hi := b.Threshold-b.Smoothing, b.Threshold+b.Smoothing
	base := opaque(src)
	bright := adjust.Apply(base, func(c color.RGBA) color.RGBA {
		w := smoothstep(lo, hi, luminance(c)) * b.Intensity
		return color.RGBA{R: scale8(c.R, w), G: scale8(c.G, w), B: scale8(c.B, w), A: 0xFF}
	})
	glow := blur.Gaussian(bright, b.Radius)
	premultiplyInto(dst, src, blend.Add(base, glow))
	return nil
}

// Sepia tints the image brown.
type Sepia struct {
	pass

	// Intensity fades between the input (0) and full sepia (1). Default 1.
	Intensity float64
}

// NewSepia creates a full-strength sepia pass.
func NewSepia() *Sepia {
	return &Sepia{pass: newPass("sepia"), Intensity: 1}
}

// Render implements Pass.
func (s *Sepia) Render(dst, src *image.RGBA, _ float64) error {
	base := opaque(src)
	premultiplyInto(dst, src, mix(base, bildeffect.Sepia(base), BlendNormal, s.Intensity))
	return nil
}

// Noise overlays film grain.
type Noise struct {
	pass

	// Opacity of the grain layer. Default 1.
	Opacity float64
	// Blend selects how grain is combined with the image.
	Blend BlendFunction
	// Colored uses independent noise per channel instead of gray grain.
	Colored bool
}

// NewNoise creates a grain pass with the given opacity and blend function.
func NewNoise(opacity float64, fn BlendFunction) *Noise {
	return &Noise{pass: newPass("noise"), Opacity: opacity, Blend: fn}
}

// Render implements Pass. Grain is regenerated every frame.
func (n *Noise) Render(dst, src *image.RGBA, _ float64) error {
	b := src.Bounds()
	grain := noise.Generate(b.Dx(), b.Dy(), &noise.Options{
		NoiseFn:    noise.Uniform,
		Monochrome: !n.Colored,
	})
	premultiplyInto(dst, src, mix(opaque(src), grain, n.Blend, n.Opacity))
	return nil
}

// Scanline draws horizontal CRT lines that drift over time.
type Scanline struct {
	pass

	// Density is the number of lines per device pixel row. Default 1.25.
	Density float64
	// Opacity of the line layer. Default 1.
	Opacity float64
	// Blend selects how lines are combined with the image. Default overlay.
	Blend BlendFunction
	// Speed scrolls the lines, in rows per second.
	Speed float64

	phase   float64
	pattern *image.RGBA
}

// NewScanline creates a scanline pass blended with fn.
func NewScanline(fn BlendFunction) *Scanline {
	return &Scanline{pass: newPass("scanline"), Density: 1.25, Opacity: 1, Blend: fn}
}

// Render implements Pass.
func (s *Scanline) Render(dst, src *image.RGBA, dt float64) error {
	b := src.Bounds()
	s.phase = math.Mod(s.phase+dt*s.Speed, float64(max(b.Dy(), 1)))
	s.drawPattern(b.Dx(), b.Dy())
	premultiplyInto(dst, src, mix(opaque(src), s.pattern, s.Blend, s.Opacity))
	return nil
}

// drawPattern fills the cached line pattern for the current phase.
func (s *Scanline) drawPattern(w, h int) {
	if s.pattern == nil || s.pattern.Bounds().Dx() != w || s.pattern.Bounds().Dy() != h {
		s.pattern = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	for y := 0; y < h; y++ {
		v := 0.5 + 0.5*math.Sin((float64(y)+s.phase)*s.Density*math.Pi)
		g := uint8(math.Round(v * 0xFF))
		row := s.pattern.Pix[y*s.pattern.Stride : y*s.pattern.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = g, g, g, 0xFF
		}
	}
}

// Pixelation renders the image as coarse blocks.
type Pixelation struct {
	pass

	// Granularity is the block size in device pixels. Values below 2
	// leave the image unchanged.
	Granularity int
}

// NewPixelation creates a pixelation pass with the given block size.
func NewPixelation(granularity int) *Pixelation {
	return &Pixelation{pass: newPass("pixelation"), Granularity: granularity}
}

// Render implements Pass.
func (p *Pixelation) Render(dst, src *image.RGBA, _ float64) error {
	if p.Granularity < 2 {
		copyInto(dst, src)
		return nil
	}
	b := src.Bounds()
	w := max(b.Dx()/p.Granularity, 1)
	h := max(b.Dy()/p.Granularity, 1)
	small := transform.Resize(src, w, h, transform.Linear)
	copyInto(dst, transform.Resize(small, b.Dx(), b.Dy(), transform.NearestNeighbor))
	return nil
}

// luminance returns the Rec. 709 luma of c in 0..1.
func luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 0xFF
}

func smoothstep(lo, hi, x float64) float64 {
	if hi <= lo {
		if x < lo {
			return 0
		}
		return 1
	}
	t := math.Min(math.Max((x-lo)/(hi-lo), 0), 1)
	return t * t * (3 - 2*t)
}

func scale8(v uint8, w float64) uint8 {
	return uint8(math.Min(math.Round(float64(v)*w), 0xFF))
}
