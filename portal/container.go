// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package portal isolates the scene content of one view.
//
// Every view owns a Container. Content is attached to it explicitly, and
// whatever that content configures (background, environment, lights) lands
// in the container's own Scope, never in another view's or in a global one.
// A container is created once when the view registers and reused for every
// frame until the view unregisters.
package portal

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/multiview/render"
)

// ErrDisposed is returned when a disposed container is used.
var ErrDisposed = errors.New("portal: container disposed")

// Node is a piece of scene content.
//
// Nodes are compared by identity, so implementations should be pointers.
type Node interface {
	Draw(dst *image.RGBA, camera render.Camera) error
}

// Configurer is implemented by nodes that configure their container's
// scope when attached, like a background or a light rig.
type Configurer interface {
	Configure(scope *Scope)
}

// Updater is implemented by nodes that advance with the frame clock.
type Updater interface {
	Update(dt float64)
}

// Light is a light source registered in a scope.
type Light struct {
	Name      string
	Color     color.Color
	Intensity float64
	Position  [3]float64
}

// Scope is the per-container scene state.
type Scope struct {
	// Background fills the target before nodes draw. Nil leaves the
	// target as the device cleared it.
	Background color.Color

	// Environment names the environment map lighting the scene.
	Environment string

	Lights []Light
}

// Container is the isolated scene of one view.
//
// Container is not safe for concurrent use.
type Container struct {
	name     string
	scope    Scope
	nodes    []Node
	camera   render.Camera
	disposed bool
}

// New creates an empty container.
func New(name string) *Container {
	return &Container{name: name}
}

// Name returns the container name.
func (c *Container) Name() string {
	return c.name
}

// Scope returns the container scope. Callers may modify it.
func (c *Container) Scope() *Scope {
	return &c.scope
}

// Attach adds nodes in order. Nodes implementing Configurer configure the
// scope immediately.
func (c *Container) Attach(nodes ...Node) error {
	if c.disposed {
		return fmt.Errorf("%w: %s", ErrDisposed, c.name)
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		c.nodes = append(c.nodes, n)
		if cfg, ok := n.(Configurer); ok {
			cfg.Configure(&c.scope)
		}
	}
	return nil
}

// Detach removes node. It reports whether the node was attached.
func (c *Container) Detach(node Node) bool {
	for i, n := range c.nodes {
		if n == node {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// Nodes returns the attached nodes in attach order.
func (c *Container) Nodes() []Node {
	return append([]Node(nil), c.nodes...)
}

// SetCamera sets the camera used when Draw is called without one.
func (c *Container) SetCamera(camera render.Camera) {
	c.camera = camera
}

// Camera returns the container camera.
func (c *Container) Camera() render.Camera {
	return c.camera
}

// Update advances every node implementing Updater by dt seconds.
func (c *Container) Update(dt float64) {
	for _, n := range c.nodes {
		if u, ok := n.(Updater); ok {
			u.Update(dt)
		}
	}
}

// Draw renders the container content into dst. It fills the scope
// background first, then draws nodes in attach order. A nil camera means
// the container camera.
func (c *Container) Draw(dst *image.RGBA, camera render.Camera) error {
	if c.disposed {
		return fmt.Errorf("%w: %s", ErrDisposed, c.name)
	}
	if camera == nil {
		camera = c.camera
	}
	if c.scope.Background != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(c.scope.Background), image.Point{}, draw.Src)
	}
	for i, n := range c.nodes {
		if err := n.Draw(dst, camera); err != nil {
			return fmt.Errorf("portal %s: node %d: %w", c.name, i, err)
		}
	}
	return nil
}

// Dispose detaches all content and clears the scope. A disposed container
// refuses to draw or attach.
func (c *Container) Dispose() {
	c.nodes = nil
	c.scope = Scope{}
	c.camera = nil
	c.disposed = true
}

// Disposed reports whether Dispose was called.
func (c *Container) Disposed() bool {
	return c.disposed
}

// Ensure Container can be rendered as a scene.
var _ render.Scene = (*Container)(nil)
