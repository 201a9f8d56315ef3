// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package demo

import (
	"image"
	"image/color"
	"slices"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/multiview/portal"
	"github.com/gogpu/multiview/render"
)

// Material colours.
var (
	Orange  = color.NRGBA{R: 0xFF, G: 0xA5, B: 0x00, A: 0xFF}
	HotPink = color.NRGBA{R: 0xFF, G: 0x69, B: 0xB4, A: 0xFF}
)

// Object is a spinning, flat-shaded mesh.
//
// It reads the lights of the container it is attached to, so the same
// mesh type looks different in differently lit views.
type Object struct {
	Mesh     Mesh
	Position Vec3
	Rotation Vec3
	// Spin is added to Rotation every second.
	Spin  Vec3
	Scale float32

	Color      color.NRGBA
	HoverColor color.NRGBA
	// Emissive is the glow added while hovered.
	Emissive float32

	hovered bool
	scope   *portal.Scope
	raster  vector.Rasterizer
	faces   []face
	proj    []projected
}

type projected struct {
	x, y, depth float32
	world       Vec3
	ok          bool
}

type face struct {
	tri   [3]int32
	depth float32
	col   color.RGBA
}

// NewObject returns an orange object that turns hot pink when hovered.
func NewObject(mesh Mesh, scale float32) *Object {
	return &Object{
		Mesh:       mesh,
		Scale:      scale,
		Color:      Orange,
		HoverColor: HotPink,
		Emissive:   1,
	}
}

// Configure implements portal.Configurer.
func (o *Object) Configure(scope *portal.Scope) {
	o.scope = scope
}

// Update implements portal.Updater.
func (o *Object) Update(dt float64) {
	o.Rotation = o.Rotation.Add(o.Spin.Mul(float32(dt)))
}

// SetHovered switches between the normal and the hover material.
func (o *Object) SetHovered(h bool) {
	o.hovered = h
}

// Hovered reports whether the hover material is active.
func (o *Object) Hovered() bool {
	return o.hovered
}

// Draw implements portal.Node. Faces are sorted back to front and filled
// with antialiased edges.
func (o *Object) Draw(dst *image.RGBA, camera render.Camera) error {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	cam, ok := camera.(*Camera)
	if !ok {
		cam = NewCamera(1)
		cam.SetAspect(float64(w) / float64(max(h, 1)))
	}

	o.project(cam, w, h)
	o.shade(cam)

	for _, f := range o.faces {
		a, bb, c := o.proj[f.tri[0]], o.proj[f.tri[1]], o.proj[f.tri[2]]
		minX := int(math32.Floor(min(a.x, bb.x, c.x)))
		minY := int(math32.Floor(min(a.y, bb.y, c.y)))
		maxX := int(math32.Ceil(max(a.x, bb.x, c.x)))
		maxY := int(math32.Ceil(max(a.y, bb.y, c.y)))
		r := image.Rect(minX, minY, maxX, maxY).Intersect(image.Rect(0, 0, w, h))
		if r.Empty() {
			continue
		}
		ox, oy := float32(r.Min.X), float32(r.Min.Y)
		o.raster.Reset(r.Dx(), r.Dy())
		o.raster.MoveTo(a.x-ox, a.y-oy)
		o.raster.LineTo(bb.x-ox, bb.y-oy)
		o.raster.LineTo(c.x-ox, c.y-oy)
		o.raster.ClosePath()
		o.raster.Draw(dst, r.Add(b.Min), image.NewUniform(f.col), image.Point{})
	}
	return nil
}

// project transforms and projects every vertex.
func (o *Object) project(cam *Camera, w, h int) {
	o.proj = slices.Grow(o.proj[:0], len(o.Mesh.Vertices))[:len(o.Mesh.Vertices)]
	for i, v := range o.Mesh.Vertices {
		world := v.Mul(o.Scale).Rotate(o.Rotation).Add(o.Position)
		x, y, d, ok := cam.Project(world, w, h)
		o.proj[i] = projected{x: x, y: y, depth: d, world: world, ok: ok}
	}
}

// shade computes the visible faces, their colour and their draw order.
func (o *Object) shade(cam *Camera) {
	base, emissive := o.material()
	eye := Vec3{0, 0, cam.Distance}

	o.faces = o.faces[:0]
	for _, tri := range o.Mesh.Triangles {
		a, b, c := o.proj[tri[0]], o.proj[tri[1]], o.proj[tri[2]]
		if !a.ok || !b.ok || !c.ok {
			continue
		}
		n := b.world.Sub(a.world).Cross(c.world.Sub(a.world)).Normalize()
		centre := a.world.Add(b.world).Add(c.world).Mul(1.0 / 3)
		if n.Dot(eye.Sub(centre)) < 0 {
			n = n.Mul(-1)
		}
		light := o.illuminate(n)
		o.faces = append(o.faces, face{
			tri:   tri,
			depth: a.depth + b.depth + c.depth,
			col: color.RGBA{
				R: channel(base[0]*light[0] + emissive[0]),
				G: channel(base[1]*light[1] + emissive[1]),
				B: channel(base[2]*light[2] + emissive[2]),
				A: 0xFF,
			},
		})
	}
	slices.SortFunc(o.faces, func(x, y face) int {
		switch {
		case x.depth > y.depth:
			return -1
		case x.depth < y.depth:
			return 1
		default:
			return 0
		}
	})
}

// material returns the linear base and emissive colours.
func (o *Object) material() (base, emissive Vec3) {
	c := o.Color
	var glow float32
	if o.hovered {
		c, glow = o.HoverColor, o.Emissive
	}
	lin := render.LinearRGBA(c)
	base = Vec3{float32(lin.R) / 0xFF, float32(lin.G) / 0xFF, float32(lin.B) / 0xFF}
	return base, base.Mul(glow)
}

// illuminate sums the scope lights for normal n. Lights at the origin are
// ambient; others are directional, shining from their position.
func (o *Object) illuminate(n Vec3) Vec3 {
	if o.scope == nil || len(o.scope.Lights) == 0 {
		return Vec3{1, 1, 1}
	}
	var sum Vec3
	for _, l := range o.scope.Lights {
		tint := lightTint(l.Color)
		dir := Vec3{float32(l.Position[0]), float32(l.Position[1]), float32(l.Position[2])}
		k := float32(l.Intensity)
		if dir.Len() == 0 {
			sum = sum.Add(tint.Mul(k * 0.3))
			continue
		}
		if d := n.Dot(dir.Normalize()); d > 0 {
			sum = sum.Add(tint.Mul(k * 0.25 * d))
		}
	}
	return sum
}

func lightTint(c color.Color) Vec3 {
	if c == nil {
		return Vec3{1, 1, 1}
	}
	r, g, b, _ := c.RGBA()
	return Vec3{float32(r) / 0xFFFF, float32(g) / 0xFFFF, float32(b) / 0xFFFF}
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xFF
	default:
		return uint8(v*0xFF + 0.5)
	}
}

// Environment configures the background, environment preset and lights
// of the container it is attached to. It draws nothing.
type Environment struct {
	Background color.Color
	Preset     string
	Lights     []portal.Light
}

// Configure implements portal.Configurer.
func (e *Environment) Configure(scope *portal.Scope) {
	if e.Background != nil {
		scope.Background = e.Background
	}
	if e.Preset != "" {
		scope.Environment = e.Preset
	}
	scope.Lights = append(scope.Lights, e.Lights...)
}

// Draw implements portal.Node.
func (e *Environment) Draw(*image.RGBA, render.Camera) error {
	return nil
}

// Label draws a line of text in the bottom-left corner of the view.
type Label struct {
	Text  string
	Color color.Color
}

// Draw implements portal.Node.
func (l *Label) Draw(dst *image.RGBA, _ render.Camera) error {
	if l.Text == "" {
		return nil
	}
	c := l.Color
	if c == nil {
		c = color.White
	}
	face := basicfont.Face7x13
	b := dst.Bounds()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(b.Min.X+4, b.Max.Y-face.Descent-4),
	}
	d.DrawString(l.Text)
	return nil
}
