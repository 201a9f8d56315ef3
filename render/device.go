// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Device is the shared rendering device every view draws through.
//
// A Device is owned by the host application and shared by all views of a
// scheduler. Its mutable state (auto-clear, XR flags and the current output
// target) is the single shared resource of a frame; views must only touch
// it through a StateGuard lease so that each view leaves the device exactly
// as it found it.
//
// Devices are NOT thread-safe. All calls happen on the frame goroutine.
type Device interface {
	// AutoClear reports whether Render clears the current target first.
	AutoClear() bool

	// SetAutoClear sets the auto-clear flag.
	SetAutoClear(enabled bool)

	// XR returns the XR presentation state of the device.
	XR() XRState

	// SetXR replaces the XR presentation state.
	SetXR(state XRState)

	// RenderTarget returns the current output target.
	// A nil target means the shared visible surface.
	RenderTarget() RenderTarget

	// SetRenderTarget makes target the current output target.
	SetRenderTarget(target RenderTarget)

	// Render draws scene as seen from camera into the current target.
	Render(scene Scene, camera Camera) error
}

// XRState holds the XR flags of a Device.
type XRState struct {
	// Enabled reports whether XR rendering is enabled.
	Enabled bool

	// Presenting reports whether an XR session is currently presenting.
	Presenting bool
}

// DeviceHandle provides GPU device access from the host application.
//
// The host (e.g., gogpu.App) owns the GPU device and hands it to consumers
// such as the gpu package presenter. DeviceHandle is an alias for
// gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// TextureDescriptor describes parameters for creating a texture.
// It mirrors GPUTextureDescriptor from WebGPU.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// Depth is the texture depth for 3D textures, or array layer count.
	// Use 1 for regular 2D textures.
	Depth uint32

	// MipLevelCount is the number of mipmap levels.
	// Use 1 for no mipmaps.
	MipLevelCount uint32

	// SampleCount is the number of samples for multisampling.
	// Use 1 for no multisampling.
	SampleCount uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}

// TextureUsage specifies how a texture can be used.
// These flags can be combined with bitwise OR.
type TextureUsage uint32

const (
	// TextureUsageCopySrc allows the texture to be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << iota

	// TextureUsageCopyDst allows the texture to be used as a copy destination.
	TextureUsageCopyDst

	// TextureUsageTextureBinding allows the texture to be used in a texture binding.
	TextureUsageTextureBinding

	// TextureUsageRenderAttachment allows the texture to be used as a render attachment.
	TextureUsageRenderAttachment
)

// TextureView represents a view into a GPU texture.
// Views are used to bind textures to shader stages.
type TextureView interface {
	// Destroy releases resources associated with this view.
	Destroy()
}

// DefaultTextureDescriptor returns the descriptor of a single-sampled 2D
// texture that view pixels are uploaded to and sampled from.
func DefaultTextureDescriptor(width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Width:         width,
		Height:        height,
		Depth:         1,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        format,
		Usage:         TextureUsageTextureBinding | TextureUsageCopyDst,
	}
}

// DeviceCapabilities describes the capabilities of a rendering device.
type DeviceCapabilities struct {
	// MaxTextureSize is the maximum texture dimension supported.
	MaxTextureSize uint32

	// MaxSamples is the highest supported multisample count.
	MaxSamples uint32
}

// DefaultCapabilities returns the capabilities assumed when the host does
// not report any. The limits match the WebGPU default limits.
func DefaultCapabilities() DeviceCapabilities {
	return DeviceCapabilities{
		MaxTextureSize: 8192,
		MaxSamples:     4,
	}
}
