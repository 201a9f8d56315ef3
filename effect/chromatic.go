// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
)

// ChromaticAberration splits the red and blue channels apart, like a
// cheap lens.
//
// Red is shifted by Offset and blue by -Offset. Offsets are fractions of
// the image size, so the effect looks the same at every resolution.
type ChromaticAberration struct {
	pass

	// Offset is the channel shift in UV units.
	Offset [2]float64
	// RadialModulation scales the shift with the distance from the centre.
	RadialModulation bool
	// ModulationOffset is the normalised radius below which radial
	// modulation leaves pixels untouched.
	ModulationOffset float64
}

// NewChromaticAberration creates a pass shifting channels by (dx, dy).
func NewChromaticAberration(dx, dy float64) *ChromaticAberration {
	return &ChromaticAberration{pass: newPass("chromatic-aberration"), Offset: [2]float64{dx, dy}}
}

// Render implements Pass.
func (c *ChromaticAberration) Render(dst, src *image.RGBA, _ float64) error {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dx := int(math.Round(c.Offset[0] * float64(w)))
	dy := int(math.Round(c.Offset[1] * float64(h)))
	if dx == 0 && dy == 0 {
		copyInto(dst, src)
		return nil
	}

	red := transform.Translate(src, dx, dy)
	blue := transform.Translate(src, -dx, -dy)

	cx, cy := float64(w)/2, float64(h)/2
	radius := math.Hypot(cx, cy)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*src.Stride + x*4
			j := y*red.Stride + x*4

			weight := 1.0
			if c.RadialModulation {
				d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / radius
				weight = smoothstep(c.ModulationOffset, 1, d)
			}

			r := src.Pix[i]
			if red.Pix[j+3] != 0 {
				r = lerp8(r, red.Pix[j], weight)
			}
			bl := src.Pix[i+2]
			if blue.Pix[j+3] != 0 {
				bl = lerp8(bl, blue.Pix[j+2], weight)
			}

			// Shifted colour must stay within the coverage of this pixel.
			a := src.Pix[i+3]
			o := y*dst.Stride + x*4
			dst.Pix[o] = min(r, a)
			dst.Pix[o+1] = src.Pix[i+1]
			dst.Pix[o+2] = min(bl, a)
			dst.Pix[o+3] = a
		}
	}
	return nil
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
