// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image/color"
	"math"
	"sync"
)

// ColorSpace is the transfer function applied when view buffers are
// composited onto the surface. View buffers hold linear values.
type ColorSpace uint8

const (
	// ColorSpaceSRGB encodes linear values with the sRGB transfer function.
	ColorSpaceSRGB ColorSpace = iota

	// ColorSpaceLinear writes values unchanged.
	ColorSpaceLinear
)

// String returns the color space name.
func (cs ColorSpace) String() string {
	switch cs {
	case ColorSpaceSRGB:
		return "srgb"
	case ColorSpaceLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// Encode maps a linear channel value in [0, 1] to the color space.
func (cs ColorSpace) Encode(v float64) float64 {
	if cs != ColorSpaceSRGB {
		return v
	}
	return linearToSRGB(v)
}

// EncodeRGBA applies the transfer function to a premultiplied color.
// Alpha is preserved; color channels are un-premultiplied, encoded and
// premultiplied again.
func (cs ColorSpace) EncodeRGBA(c color.RGBA) color.RGBA {
	if cs != ColorSpaceSRGB || c.A == 0 {
		return c
	}
	lut := encodeLUT()
	if c.A == 0xFF {
		return color.RGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: 0xFF}
	}
	a := uint32(c.A)
	enc := func(v uint8) uint8 {
		straight := uint32(v) * 0xFF / a
		if straight > 0xFF {
			straight = 0xFF
		}
		return uint8(uint32(lut[straight]) * a / 0xFF) //nolint:gosec // G115: result <= 255
	}
	return color.RGBA{R: enc(c.R), G: enc(c.G), B: enc(c.B), A: c.A}
}

// LinearRGBA converts a straight-alpha sRGB color (as written in CSS or
// design tools) into a premultiplied linear color for drawing into view
// buffers.
func LinearRGBA(c color.NRGBA) color.RGBA {
	dec := func(v uint8) float64 { return srgbToLinear(float64(v) / 0xFF) }
	a := float64(c.A) / 0xFF
	q := func(v float64) uint8 { return uint8(math.Round(v * a * 0xFF)) }
	return color.RGBA{R: q(dec(c.R)), G: q(dec(c.G)), B: q(dec(c.B)), A: c.A}
}

var encodeLUT = sync.OnceValue(func() *[256]uint8 {
	lut := new([256]uint8)
	for i := range lut {
		lut[i] = uint8(math.Round(linearToSRGB(float64(i)/0xFF) * 0xFF))
	}
	return lut
})

func linearToSRGB(v float64) float64 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 1
	case v <= 0.0031308:
		return v * 12.92
	default:
		return 1.055*math.Pow(v, 1/2.4) - 0.055
	}
}

func srgbToLinear(v float64) float64 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 1
	case v <= 0.04045:
		return v / 12.92
	default:
		return math.Pow((v+0.055)/1.055, 2.4)
	}
}
