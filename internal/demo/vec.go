// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package demo provides the scene content of the multiview demo: meshes,
// a perspective camera, environment nodes and effect presets built from
// layout documents.
package demo

import "github.com/chewxy/math32"

// Vec3 is a 3D vector.
type Vec3 [3]float32

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Mul returns v scaled by s.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Len returns the length of v.
func (v Vec3) Len() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns v with unit length. The zero vector is returned as is.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

// Rotate applies the Euler rotation r (radians, XYZ order) to v.
func (v Vec3) Rotate(r Vec3) Vec3 {
	sx, cx := math32.Sin(r[0]), math32.Cos(r[0])
	sy, cy := math32.Sin(r[1]), math32.Cos(r[1])
	sz, cz := math32.Sin(r[2]), math32.Cos(r[2])

	// Z, then Y, then X.
	x, y, z := v[0]*cz-v[1]*sz, v[0]*sz+v[1]*cz, v[2]
	x, z = x*cy+z*sy, -x*sy+z*cy
	y, z = y*cx-z*sx, y*sx+z*cx
	return Vec3{x, y, z}
}
