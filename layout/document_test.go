// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testDocument = `
devicePixelRatio: 3
surface: {width: 400, height: 200}
panels:
  - id: panel-1
    rect: {x: 0, y: 0, width: 200, height: 200}
    dpr: [1, 2]
    scene: torus
    zoom: 2
    effects:
      - {type: noise, opacity: 0.75, blend: overlay}
      - {type: chromatic, radialModulation: true, offset: 0.01}
  - id: panel-2
    rect: {x: 200, y: 0, width: 200, height: 200}
    dpr: 0.5
    scene: knot
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(testDocument))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.DevicePixelRatio != 3 {
		t.Errorf("DevicePixelRatio = %v, want 3", doc.DevicePixelRatio)
	}
	if doc.Surface.Width != 400 || doc.Surface.Height != 200 {
		t.Errorf("Surface = %+v", doc.Surface)
	}
	if len(doc.Panels) != 2 {
		t.Fatalf("len(Panels) = %d, want 2", len(doc.Panels))
	}

	p1 := doc.Panels[0]
	if p1.DPR != (Ratio{Min: 1, Max: 2, Set: true}) || p1.DPR.Fixed() {
		t.Errorf("panel-1 DPR = %+v", p1.DPR)
	}
	if p1.Zoom != 2 || p1.Scene != "torus" {
		t.Errorf("panel-1 = %+v", p1)
	}
	if len(p1.Effects) != 2 {
		t.Fatalf("len(Effects) = %d, want 2", len(p1.Effects))
	}
	noise := p1.Effects[0]
	if noise.Type != "noise" {
		t.Errorf("Type = %q, want noise", noise.Type)
	}
	if got := noise.Float("opacity", 1); got != 0.75 {
		t.Errorf("opacity = %v, want 0.75", got)
	}
	if got := noise.String("blend", "normal"); got != "overlay" {
		t.Errorf("blend = %q, want overlay", got)
	}
	if got := noise.Float("missing", 42); got != 42 {
		t.Errorf("missing float default = %v", got)
	}
	if !p1.Effects[1].Bool("radialModulation", false) {
		t.Error("radialModulation should be true")
	}

	p2 := doc.Panels[1]
	if !p2.DPR.Fixed() || p2.DPR.Min != 0.5 {
		t.Errorf("panel-2 DPR = %+v, want fixed 0.5", p2.DPR)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"no panels", "surface: {width: 1, height: 1}\n", ErrNoPanels},
		{"duplicate", "panels:\n  - id: a\n  - id: a\n", ErrDuplicatePanel},
		{"bad dpr pair", "panels:\n  - id: a\n    dpr: [2, 1]\n", ErrInvalidRatio},
		{"bad dpr scalar", "panels:\n  - id: a\n    dpr: -1\n", ErrInvalidRatio},
		{"bad dpr map", "panels:\n  - id: a\n    dpr: {min: 1}\n", ErrInvalidRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Parse([]byte("panels:\n  - rect: {x: 1}\n")); err == nil {
		t.Error("panel without id should fail")
	}
}

func TestDocumentBoxesAndApply(t *testing.T) {
	doc, err := Parse([]byte(testDocument))
	if err != nil {
		t.Fatal(err)
	}
	boxes := doc.Boxes()
	if len(boxes) != 2 || boxes[0].ID() != "panel-1" || boxes[1].ID() != "panel-2" {
		t.Fatalf("Boxes() = %v", boxes)
	}

	if n := doc.Apply(boxes); n != 0 {
		t.Errorf("Apply with unchanged layout = %d, want 0", n)
	}

	doc.Panels[1].Rect.Width = 100
	stray := NewBox("other", Rect{})
	if n := doc.Apply(append(boxes, stray)); n != 1 {
		t.Errorf("Apply = %d, want 1", n)
	}
	if boxes[1].Rect().Width != 100 {
		t.Errorf("panel-2 width = %v, want 100", boxes[1].Rect().Width)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, []byte(testDocument), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := doc.Panel("panel-2"); !ok {
		t.Error("panel-2 not found")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}
