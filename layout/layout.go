// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package layout describes where views sit on the page.
//
// Layout itself (CSS, resize observers) belongs to the host. This package
// only carries the result: a CSS-pixel rectangle per element, updated when
// the host reports a change. Documents loaded from YAML files can drive the
// same elements, which is what the demo command does.
package layout

import (
	"fmt"
	"image"
	"math"
	"sync"
)

// Rect is a rectangle in CSS pixels, origin at the top-left of the page.
type Rect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the CSS point (x, y) lies inside r.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Aspect returns width / height, or 1 for degenerate rectangles.
func (r Rect) Aspect() float64 {
	if r.Height <= 0 {
		return 1
	}
	return r.Width / r.Height
}

// Scale converts r to device pixels at the given ratio. The result covers
// every device pixel the rectangle touches.
func (r Rect) Scale(ratio float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X*ratio)),
		int(math.Floor(r.Y*ratio)),
		int(math.Ceil((r.X+r.Width)*ratio)),
		int(math.Ceil((r.Y+r.Height)*ratio)),
	)
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// Element is a tracked page element: an identity plus its live rectangle.
type Element interface {
	ID() string
	Rect() Rect
}

// Box is a mutable Element. The host (or a layout document) calls SetRect
// whenever the element moves or resizes.
//
// Box is safe for concurrent use so a file watcher goroutine can update it
// while the frame loop reads it.
type Box struct {
	id string

	mu   sync.RWMutex
	rect Rect
	rev  uint64
}

// NewBox creates a box with the given identity and rectangle.
func NewBox(id string, rect Rect) *Box {
	return &Box{id: id, rect: rect}
}

// ID returns the element identity.
func (b *Box) ID() string {
	return b.id
}

// Rect returns the current rectangle.
func (b *Box) Rect() Rect {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rect
}

// SetRect updates the rectangle. It reports whether the value changed.
func (b *Box) SetRect(r Rect) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rect == r {
		return false
	}
	b.rect = r
	b.rev++
	return true
}

// Revision counts the changes made through SetRect.
func (b *Box) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rev
}

// Ensure Box implements Element.
var _ Element = (*Box)(nil)
