// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/blend"
)

// BlendFunction selects how a pass combines its generated layer with the
// input image.
type BlendFunction int

const (
	// BlendNormal replaces the input with the layer.
	BlendNormal BlendFunction = iota
	// BlendOverlay multiplies dark areas and screens light ones.
	BlendOverlay
	// BlendAdd sums both images.
	BlendAdd
	// BlendScreen inverts, multiplies and inverts again.
	BlendScreen
	// BlendMultiply multiplies both images.
	BlendMultiply
)

// String returns the lower-case name used in layout documents.
func (b BlendFunction) String() string {
	switch b {
	case BlendNormal:
		return "normal"
	case BlendOverlay:
		return "overlay"
	case BlendAdd:
		return "add"
	case BlendScreen:
		return "screen"
	case BlendMultiply:
		return "multiply"
	default:
		return fmt.Sprintf("BlendFunction(%d)", int(b))
	}
}

// ParseBlendFunction parses a blend function name, ignoring case.
func ParseBlendFunction(name string) (BlendFunction, error) {
	switch strings.ToLower(name) {
	case "normal", "":
		return BlendNormal, nil
	case "overlay":
		return BlendOverlay, nil
	case "add":
		return BlendAdd, nil
	case "screen":
		return BlendScreen, nil
	case "multiply":
		return BlendMultiply, nil
	default:
		return BlendNormal, fmt.Errorf("effect: unknown blend function %q", name)
	}
}

// Apply blends layer over base.
func (b BlendFunction) Apply(base, layer image.Image) *image.RGBA {
	switch b {
	case BlendOverlay:
		return blend.Overlay(base, layer)
	case BlendAdd:
		return blend.Add(base, layer)
	case BlendScreen:
		return blend.Screen(base, layer)
	case BlendMultiply:
		return blend.Multiply(base, layer)
	default:
		return blend.Normal(base, layer)
	}
}

// mix blends layer over base with the given function and fades the result
// in by opacity.
func mix(base, layer image.Image, fn BlendFunction, opacity float64) *image.RGBA {
	blended := fn.Apply(base, layer)
	if opacity >= 1 {
		return blended
	}
	return blend.Opacity(base, blended, opacity)
}
