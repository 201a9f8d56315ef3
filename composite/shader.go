// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package composite

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/multiview/render"
)

//go:embed shaders/composite.wgsl
var compositeShaderWGSL string

// Shader entry points.
const (
	VertexEntryPoint       = "vs_main"
	fragmentEntryPointSRGB = "fs_srgb"
	fragmentEntryPointLin  = "fs_linear"
)

// ShaderSource returns the WGSL composite shader.
//
// Bindings: group 0 binding 0 is the view texture, binding 1 its sampler.
// The vertex stage takes no buffers and draws 6 vertices; the host sets
// viewport and scissor to the view's screen rectangle.
func ShaderSource() string {
	return compositeShaderWGSL
}

// FragmentEntryPoint returns the fragment entry point that applies the
// colour transform of cs.
func FragmentEntryPoint(cs render.ColorSpace) string {
	if cs == render.ColorSpaceLinear {
		return fragmentEntryPointLin
	}
	return fragmentEntryPointSRGB
}

// CompileSPIRV compiles the composite shader to SPIR-V words.
func CompileSPIRV() ([]uint32, error) {
	spirvBytes, err := naga.Compile(compositeShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("composite: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
