// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package demo

import (
	"errors"
	"fmt"

	"github.com/gogpu/multiview/effect"
	"github.com/gogpu/multiview/layout"
)

// ErrUnknownEffect is returned for effect types Pass does not know.
var ErrUnknownEffect = errors.New("demo: unknown effect")

// Passes builds the effect passes of a panel, in document order.
func Passes(effects []layout.Effect) ([]effect.Pass, error) {
	passes := make([]effect.Pass, 0, len(effects))
	for i, e := range effects {
		p, err := Pass(e)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		passes = append(passes, p)
	}
	return passes, nil
}

// Pass builds one effect pass from its layout description.
//
// Recognised types and parameters:
//
//	bloom       intensity, threshold, smoothing, radius
//	sepia       intensity
//	noise       opacity, blend, colored
//	scanline    density, opacity, blend, speed
//	pixelation  granularity
//	chromatic   offset, offsetX, offsetY, radialModulation, modulationOffset
//
// Every pass also accepts enabled.
func Pass(e layout.Effect) (effect.Pass, error) {
	var p effect.Pass
	switch e.Type {
	case "bloom":
		b := effect.NewBloom(e.Float("intensity", 1))
		b.Threshold = e.Float("threshold", b.Threshold)
		b.Smoothing = e.Float("smoothing", b.Smoothing)
		b.Radius = e.Float("radius", b.Radius)
		p = b
	case "sepia":
		s := effect.NewSepia()
		s.Intensity = e.Float("intensity", s.Intensity)
		p = s
	case "noise":
		fn, err := effect.ParseBlendFunction(e.String("blend", "normal"))
		if err != nil {
			return nil, err
		}
		n := effect.NewNoise(e.Float("opacity", 1), fn)
		n.Colored = e.Bool("colored", false)
		p = n
	case "scanline":
		fn, err := effect.ParseBlendFunction(e.String("blend", "overlay"))
		if err != nil {
			return nil, err
		}
		s := effect.NewScanline(fn)
		s.Density = e.Float("density", s.Density)
		s.Opacity = e.Float("opacity", s.Opacity)
		s.Speed = e.Float("speed", s.Speed)
		p = s
	case "pixelation":
		p = effect.NewPixelation(int(e.Float("granularity", 5)))
	case "chromatic":
		off := e.Float("offset", 0.001)
		c := effect.NewChromaticAberration(e.Float("offsetX", off), e.Float("offsetY", off))
		c.RadialModulation = e.Bool("radialModulation", false)
		c.ModulationOffset = e.Float("modulationOffset", 0.15)
		p = c
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, e.Type)
	}
	p.Settings().Enabled = e.Bool("enabled", true)
	return p, nil
}
