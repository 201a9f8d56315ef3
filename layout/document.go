// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layout

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document errors.
var (
	// ErrNoPanels is returned for a document without panels.
	ErrNoPanels = errors.New("layout: document has no panels")

	// ErrDuplicatePanel is returned when two panels share an id.
	ErrDuplicatePanel = errors.New("layout: duplicate panel id")

	// ErrInvalidRatio is returned for a malformed dpr value.
	ErrInvalidRatio = errors.New("layout: invalid dpr")
)

// Document is a page layout: the surface, the device pixel ratio and the
// panels views are attached to.
//
//	devicePixelRatio: 2
//	surface: {width: 1200, height: 800}
//	panels:
//	  - id: panel-1
//	    rect: {x: 0, y: 0, width: 600, height: 400}
//	    dpr: [1, 2]
//	    scene: torus
//	    effects:
//	      - {type: bloom, intensity: 0.8}
type Document struct {
	DevicePixelRatio float64 `yaml:"devicePixelRatio"`
	Surface          Size    `yaml:"surface"`
	Panels           []Panel `yaml:"panels"`
}

// Size is a CSS-pixel size.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Panel is one element of the page.
type Panel struct {
	ID      string   `yaml:"id"`
	Rect    Rect     `yaml:"rect"`
	DPR     Ratio    `yaml:"dpr"`
	Scene   string   `yaml:"scene"`
	Zoom    float64  `yaml:"zoom"`
	Effects []Effect `yaml:"effects"`
}

// Effect names an effect pass and its parameters. Parameters other than
// type are collected in Params.
type Effect struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:",inline"`
}

// Float returns the numeric parameter key, or def when absent.
func (e Effect) Float(key string, def float64) float64 {
	switch v := e.Params[key].(type) {
	case int:
		return float64(v)
	case float64:
		return v
	default:
		return def
	}
}

// Bool returns the boolean parameter key, or def when absent.
func (e Effect) Bool(key string, def bool) bool {
	if v, ok := e.Params[key].(bool); ok {
		return v
	}
	return def
}

// String returns the string parameter key, or def when absent.
func (e Effect) String(key string, def string) string {
	if v, ok := e.Params[key].(string); ok {
		return v
	}
	return def
}

// Ratio is a device pixel ratio request: either a single number or a
// [min, max] pair. The zero value means "not set".
type Ratio struct {
	Min, Max float64
	Set      bool
}

// Fixed reports whether the ratio is a single value.
func (r Ratio) Fixed() bool {
	return r.Set && r.Min == r.Max
}

// UnmarshalYAML accepts `dpr: 0.5` and `dpr: [1, 2]`.
func (r *Ratio) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRatio, err)
		}
		if v <= 0 {
			return fmt.Errorf("%w: %v must be positive", ErrInvalidRatio, v)
		}
		*r = Ratio{Min: v, Max: v, Set: true}
		return nil
	case yaml.SequenceNode:
		var pair []float64
		if err := value.Decode(&pair); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRatio, err)
		}
		if len(pair) != 2 || pair[0] <= 0 || pair[1] < pair[0] {
			return fmt.Errorf("%w: want [min, max] with 0 < min <= max, got %v", ErrInvalidRatio, pair)
		}
		*r = Ratio{Min: pair[0], Max: pair[1], Set: true}
		return nil
	default:
		return fmt.Errorf("%w: line %d", ErrInvalidRatio, value.Line)
	}
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("layout: parse: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks panel identities.
func (d *Document) Validate() error {
	if len(d.Panels) == 0 {
		return ErrNoPanels
	}
	seen := make(map[string]bool, len(d.Panels))
	for i, p := range d.Panels {
		if p.ID == "" {
			return fmt.Errorf("layout: panel %d has no id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicatePanel, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// Panel returns the panel with the given id.
func (d *Document) Panel(id string) (Panel, bool) {
	for _, p := range d.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return Panel{}, false
}

// Boxes creates one Box per panel, in document order.
func (d *Document) Boxes() []*Box {
	boxes := make([]*Box, 0, len(d.Panels))
	for _, p := range d.Panels {
		boxes = append(boxes, NewBox(p.ID, p.Rect))
	}
	return boxes
}

// Apply moves the boxes whose id appears in the document to the new
// rectangles. It returns how many boxes changed.
func (d *Document) Apply(boxes []*Box) int {
	changed := 0
	for _, b := range boxes {
		if p, ok := d.Panel(b.ID()); ok && b.SetRect(p.Rect) {
			changed++
		}
	}
	return changed
}
