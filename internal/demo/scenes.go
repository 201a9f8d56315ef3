// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package demo

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/gogpu/multiview/portal"
	"github.com/gogpu/multiview/render"
)

// ErrUnknownScene is returned for scene names NewScene does not know.
var ErrUnknownScene = errors.New("demo: unknown scene")

// Backgrounds of the demo scenes.
var (
	TorusBackground = color.NRGBA{R: 0x1B, G: 0x1A, B: 0x21, A: 0xFF}
	KnotBackground  = color.NRGBA{R: 0x22, G: 0x1F, B: 0x38, A: 0xFF}
)

// Scene is the content of one demo view.
type Scene struct {
	Name    string
	Nodes   []portal.Node
	Camera  *Camera
	Objects []*Object
}

// SetHovered applies the hover material to every object of the scene.
func (s *Scene) SetHovered(h bool) {
	for _, o := range s.Objects {
		o.SetHovered(h)
	}
}

func (s *Scene) add(env *Environment, obj *Object) {
	s.Nodes = append(s.Nodes, env, obj)
	s.Objects = append(s.Objects, obj)
}

var scenes = map[string]func(s *Scene){
	"torus": func(s *Scene) {
		s.add(torusEnvironment(), torus())
	},
	"knot": func(s *Scene) {
		s.add(knotEnvironment(), knot())
	},
	"pair": func(s *Scene) {
		t := torus()
		t.Position = Vec3{-0.5, -0.5, 0}
		k := knot()
		k.Position = Vec3{0.5, 0.5, 0}
		s.add(torusEnvironment(), t)
		s.add(knotEnvironment(), k)
	},
	"turned": func(s *Scene) {
		t := torus()
		t.Rotation = Vec3{0, -0.68, 0}
		t.Spin = Vec3{}
		s.add(torusEnvironment(), t)
	},
	"dodecahedron": func(s *Scene) {
		env := &Environment{
			Background: render.LinearRGBA(TorusBackground),
			Preset:     "warehouse",
			Lights:     []portal.Light{{Name: "ambient", Intensity: 1}},
		}
		d := NewObject(Dodecahedron(1), 1)
		d.Spin = Vec3{-0.15, -0.3, 0}
		d.Emissive = 3
		s.add(env, d)
	},
}

// Scenes returns the known scene names, sorted.
func Scenes() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewScene builds the named scene viewed through a camera with the given
// zoom. A label node is added when label is not empty.
func NewScene(name string, zoom float64, label string) (*Scene, error) {
	build, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	s := &Scene{Name: name, Camera: NewCamera(float32(zoom))}
	build(s)
	if label != "" {
		s.Nodes = append(s.Nodes, &Label{Text: label})
	}
	return s, nil
}

func torusEnvironment() *Environment {
	return &Environment{
		Background: render.LinearRGBA(TorusBackground),
		Preset:     "city",
		Lights: []portal.Light{
			{Name: "key", Intensity: 5.5, Position: [3]float64{25, 25, 25}},
			{Name: "fill", Intensity: 0.5, Position: [3]float64{-25, -50, -25}},
		},
	}
}

func knotEnvironment() *Environment {
	return &Environment{
		Background: render.LinearRGBA(KnotBackground),
		Preset:     "city",
		Lights: []portal.Light{
			{Name: "ambient", Intensity: 3},
			{Name: "key", Intensity: 1, Position: [3]float64{5, 5, 10}},
		},
	}
}

func torus() *Object {
	o := NewObject(Torus(1, 0.25, 16, 48), 0.55)
	o.Spin = Vec3{-0.3, 0.3, -0.3}
	return o
}

func knot() *Object {
	o := NewObject(TorusKnot(1, 0.3, 96, 12, 2, 3), 0.4)
	o.Spin = Vec3{-0.15, -0.3, 0}
	o.Emissive = 2
	return o
}
