// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

func TestTextureDescriptorDefault(t *testing.T) {
	desc := DefaultTextureDescriptor(256, 128, gputypes.TextureFormatRGBA8Unorm)

	if desc.Width != 256 {
		t.Errorf("Width = %d, want 256", desc.Width)
	}
	if desc.Height != 128 {
		t.Errorf("Height = %d, want 128", desc.Height)
	}
	if desc.Depth != 1 {
		t.Errorf("Depth = %d, want 1", desc.Depth)
	}
	if desc.MipLevelCount != 1 {
		t.Errorf("MipLevelCount = %d, want 1", desc.MipLevelCount)
	}
	if desc.SampleCount != 1 {
		t.Errorf("SampleCount = %d, want 1", desc.SampleCount)
	}
	if desc.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", desc.Format)
	}

	expectedUsage := TextureUsageTextureBinding | TextureUsageCopyDst
	if desc.Usage != expectedUsage {
		t.Errorf("Usage = %v, want %v", desc.Usage, expectedUsage)
	}
}

func TestDefaultCapabilities(t *testing.T) {
	caps := DefaultCapabilities()
	if caps.MaxTextureSize != 8192 {
		t.Errorf("MaxTextureSize = %d, want 8192", caps.MaxTextureSize)
	}
	if caps.MaxSamples == 0 {
		t.Error("MaxSamples should be positive")
	}
}

func TestDeviceHandleAlias(t *testing.T) {
	// DeviceHandle must stay assignable to gpucontext.DeviceProvider.
	var handle DeviceHandle
	var provider gpucontext.DeviceProvider = handle
	if provider != nil {
		t.Error("zero handle should be nil")
	}
}
