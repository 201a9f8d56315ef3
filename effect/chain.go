// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package effect runs per-view post-processing chains.
//
// A Chain is an ordered list of passes. An Adapter binds a chain to a view:
// it renders the view's scene into the view target and then runs every
// enabled pass over that target, in order. Output never goes to the visible
// surface; presenting the processed target is the compositor's job.
//
// The built-in passes (Bloom, Sepia, Noise, Scanline, Pixelation and
// ChromaticAberration) operate on CPU buffers through bild.
package effect

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/multiview/render"
)

// ErrPassFailed is wrapped by every PassError.
var ErrPassFailed = errors.New("effect: pass failed")

// PassError reports the pass that failed during Execute.
type PassError struct {
	Index int
	Name  string
	Err   error
}

// Error implements error.
func (e *PassError) Error() string {
	return fmt.Sprintf("effect: pass %d (%s): %v", e.Index, e.Name, e.Err)
}

// Unwrap returns ErrPassFailed and the cause.
func (e *PassError) Unwrap() []error {
	return []error{ErrPassFailed, e.Err}
}

// Chain is an ordered list of passes.
type Chain struct {
	passes     []Pass
	autoScreen bool
}

// NewChain creates a chain of passes. Like a freshly built composer, the
// chain presents automatically until an Adapter takes it over.
func NewChain(passes ...Pass) *Chain {
	c := &Chain{autoScreen: true}
	c.Add(passes...)
	return c
}

// Add appends passes. Nil passes are ignored.
func (c *Chain) Add(passes ...Pass) {
	for _, p := range passes {
		if p != nil {
			c.passes = append(c.passes, p)
		}
	}
}

// Passes returns the passes in declared order.
func (c *Chain) Passes() []Pass {
	if c == nil {
		return nil
	}
	return append([]Pass(nil), c.passes...)
}

// Len returns the number of passes.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.passes)
}

// AutoRenderToScreen reports whether the chain would present its last
// pass to the surface on its own.
func (c *Chain) AutoRenderToScreen() bool {
	return c != nil && c.autoScreen
}

// SetAutoRenderToScreen sets automatic presentation. It is a no-op on a
// nil chain.
func (c *Chain) SetAutoRenderToScreen(v bool) {
	if c == nil {
		return
	}
	c.autoScreen = v
}

// Adapter drives a Chain for one view.
//
// Adapter is not safe for concurrent use.
type Adapter struct {
	chain   *Chain
	scratch *image.RGBA
}

// NewAdapter takes over chain. The chain is normalised immediately and
// again on every Execute: automatic presentation is switched off and no
// pass renders to the screen or ignores the background.
func NewAdapter(chain *Chain) *Adapter {
	a := &Adapter{chain: chain}
	a.normalize()
	return a
}

// Chain returns the adapted chain.
func (a *Adapter) Chain() *Chain {
	return a.chain
}

// Empty reports whether there is nothing to run. The caller then renders
// the scene directly.
func (a *Adapter) Empty() bool {
	return a == nil || a.chain.Len() == 0
}

func (a *Adapter) normalize() {
	if a.chain == nil {
		return
	}
	a.chain.autoScreen = false
	for _, p := range a.chain.passes {
		if s := p.Settings(); s != nil {
			s.RenderToScreen = false
			s.IgnoreBackground = false
		}
	}
}

// Execute renders scene from camera into output, then runs each enabled
// pass over output in declared order. dt is the frame delta in seconds.
//
// The device must already be bound to output (a render.StateGuard lease
// does that); Execute rebinds it if it is not. The first failing pass stops
// the chain and is returned as a *PassError.
func (a *Adapter) Execute(device render.Device, scene render.Scene, camera render.Camera, output *render.ViewTarget, dt float64) error {
	a.normalize()

	if device.RenderTarget() != render.RenderTarget(output) {
		device.SetRenderTarget(output)
	}
	if err := device.Render(scene, camera); err != nil {
		return fmt.Errorf("effect: render scene: %w", err)
	}
	if a.Empty() {
		return nil
	}

	dst := output.Texture()
	if dst == nil {
		return render.ErrTargetReleased
	}
	for i, p := range a.chain.passes {
		if s := p.Settings(); s != nil && !s.Enabled {
			continue
		}
		src := a.snapshot(dst)
		if err := p.Render(dst, src, dt); err != nil {
			return &PassError{Index: i, Name: p.Name(), Err: err}
		}
	}
	return nil
}

// snapshot copies dst into the scratch buffer, growing it when needed.
func (a *Adapter) snapshot(dst *image.RGBA) *image.RGBA {
	if a.scratch == nil || a.scratch.Rect != dst.Rect {
		a.scratch = image.NewRGBA(dst.Rect)
	}
	copy(a.scratch.Pix, dst.Pix)
	return a.scratch
}
