// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package demo

import "github.com/chewxy/math32"

// Mesh is an indexed triangle mesh. Winding is not significant; faces
// are lit from the side facing the camera.
type Mesh struct {
	Vertices  []Vec3
	Triangles [][3]int32
}

// Torus builds a torus of the given radius and tube radius around the Z
// axis.
func Torus(radius, tube float32, radial, tubular int) Mesh {
	var m Mesh
	for j := 0; j <= radial; j++ {
		v := float32(j) / float32(radial) * 2 * math32.Pi
		for i := 0; i <= tubular; i++ {
			u := float32(i) / float32(tubular) * 2 * math32.Pi
			r := radius + tube*math32.Cos(v)
			m.Vertices = append(m.Vertices, Vec3{
				r * math32.Cos(u),
				r * math32.Sin(u),
				tube * math32.Sin(v),
			})
		}
	}
	m.grid(radial, tubular)
	return m
}

// TorusKnot builds a (p, q) torus knot with a circular tube.
func TorusKnot(radius, tube float32, tubular, radial, p, q int) Mesh {
	var m Mesh
	for i := 0; i <= tubular; i++ {
		u := float32(i) / float32(tubular) * float32(p) * 2 * math32.Pi
		p1 := knotPoint(u, p, q, radius)
		p2 := knotPoint(u+0.01, p, q, radius)

		t := p2.Sub(p1)
		n := p2.Add(p1)
		b := t.Cross(n).Normalize()
		n = b.Cross(t).Normalize()

		for j := 0; j <= radial; j++ {
			v := float32(j) / float32(radial) * 2 * math32.Pi
			cx := -tube * math32.Cos(v)
			cy := tube * math32.Sin(v)
			m.Vertices = append(m.Vertices, p1.Add(n.Mul(cx)).Add(b.Mul(cy)))
		}
	}
	m.grid(tubular, radial)
	return m
}

func knotPoint(u float32, p, q int, radius float32) Vec3 {
	qu := float32(q) / float32(p) * u
	r := radius * (2 + math32.Cos(qu)) * 0.5
	return Vec3{
		r * math32.Cos(u),
		r * math32.Sin(u),
		radius * math32.Sin(qu) * 0.5,
	}
}

// grid adds the triangles of a (rows+1) x (cols+1) vertex grid.
func (m *Mesh) grid(rows, cols int) {
	stride := int32(cols + 1)
	for j := int32(1); j <= int32(rows); j++ {
		for i := int32(1); i <= int32(cols); i++ {
			a := stride*j + i - 1
			b := stride*(j-1) + i - 1
			c := stride*(j-1) + i
			d := stride*j + i
			m.Triangles = append(m.Triangles, [3]int32{a, b, d}, [3]int32{b, c, d})
		}
	}
}

// Dodecahedron builds a regular dodecahedron with circumradius radius.
func Dodecahedron(radius float32) Mesh {
	t := (1 + math32.Sqrt(5)) / 2
	r := 1 / t
	verts := []Vec3{
		{-1, -1, -1}, {-1, -1, 1}, {-1, 1, -1}, {-1, 1, 1},
		{1, -1, -1}, {1, -1, 1}, {1, 1, -1}, {1, 1, 1},
		{0, -r, -t}, {0, -r, t}, {0, r, -t}, {0, r, t},
		{-r, -t, 0}, {-r, t, 0}, {r, -t, 0}, {r, t, 0},
		{-t, 0, -r}, {t, 0, -r}, {-t, 0, r}, {t, 0, r},
	}
	indices := [][3]int32{
		{3, 11, 7}, {3, 7, 15}, {3, 15, 13},
		{7, 19, 17}, {7, 17, 6}, {7, 6, 15},
		{17, 4, 8}, {17, 8, 10}, {17, 10, 6},
		{8, 0, 16}, {8, 16, 2}, {8, 2, 10},
		{0, 12, 1}, {0, 1, 18}, {0, 18, 16},
		{6, 10, 2}, {6, 2, 13}, {6, 13, 15},
		{2, 16, 18}, {2, 18, 3}, {2, 3, 13},
		{18, 1, 9}, {18, 9, 11}, {18, 11, 3},
		{4, 14, 12}, {4, 12, 0}, {4, 0, 8},
		{11, 9, 5}, {11, 5, 19}, {11, 19, 7},
		{19, 5, 14}, {19, 14, 4}, {19, 4, 17},
		{1, 12, 14}, {1, 14, 5}, {1, 5, 9},
	}
	m := Mesh{Triangles: indices}
	for _, v := range verts {
		m.Vertices = append(m.Vertices, v.Normalize().Mul(radius))
	}
	return m
}
