// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "image"

// Scene is a renderable scene handed over by the scene-graph layer.
//
// The render package treats scenes as opaque: it only asks them to draw
// themselves into a CPU buffer from a camera's point of view. dst holds
// premultiplied, linear RGBA pixels.
type Scene interface {
	Draw(dst *image.RGBA, camera Camera) error
}

// Camera is the view's camera. The scheduler only keeps its aspect ratio in
// sync with the view rectangle; projection is up to the scene.
type Camera interface {
	SetAspect(aspect float64)
}

// SceneFunc adapts a plain function to the Scene interface.
type SceneFunc func(dst *image.RGBA, camera Camera) error

// Draw calls f(dst, camera).
func (f SceneFunc) Draw(dst *image.RGBA, camera Camera) error {
	return f(dst, camera)
}
