// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package demo

import "github.com/chewxy/math32"

// Camera is a perspective camera on the +Z axis looking at the origin.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV float32
	// Zoom divides the field of view.
	Zoom float32
	// Distance is the camera's distance from the origin.
	Distance float32
	// Near clips points closer to the camera.
	Near float32

	aspect float32
}

// NewCamera returns a camera with a 50° field of view at distance 4.
func NewCamera(zoom float32) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{FOV: 50, Zoom: zoom, Distance: 4, Near: 0.1, aspect: 1}
}

// SetAspect implements render.Camera.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 {
		c.aspect = float32(aspect)
	}
}

// Aspect returns the width-to-height ratio of the projection.
func (c *Camera) Aspect() float32 {
	return c.aspect
}

// Project maps a world point to pixel coordinates in a w x h image. depth
// is the distance along the view axis; ok is false for points behind the
// near plane.
func (c *Camera) Project(p Vec3, w, h int) (x, y, depth float32, ok bool) {
	depth = c.Distance - p[2]
	if depth < c.Near {
		return 0, 0, depth, false
	}
	f := c.Zoom / math32.Tan(c.FOV*math32.Pi/360)
	ndcX := p[0] * f / (depth * c.aspect)
	ndcY := p[1] * f / depth
	x = (ndcX + 1) * 0.5 * float32(w)
	y = (1 - ndcY) * 0.5 * float32(h)
	return x, y, depth, true
}
