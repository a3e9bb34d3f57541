// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package library

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pipeline"
	"github.com/gogpu/pipeline/shader"
)

func TestHashRenderDescriptorDeterministic(t *testing.T) {
	a := hashRenderDescriptor(testRenderDescriptor("pipeline"))
	b := hashRenderDescriptor(testRenderDescriptor("pipeline"))
	if a != b {
		t.Errorf("equal descriptors hash to %x and %x", a, b)
	}
}

func TestHashRenderDescriptorCoversFields(t *testing.T) {
	blend := gputypes.BlendStatePremultiplied()
	base := testRenderDescriptor("base")
	baseHash := hashRenderDescriptor(base)

	tests := []struct {
		name   string
		mutate func(*pipeline.RenderPipelineDescriptor)
	}{
		{"label", func(d *pipeline.RenderPipelineDescriptor) { d.Label = "other" }},
		{"vertex entry point", func(d *pipeline.RenderPipelineDescriptor) { d.VertexEntryPoint = "vs_alt" }},
		{"fragment entry point", func(d *pipeline.RenderPipelineDescriptor) { d.FragmentEntryPoint = "fs_alt" }},
		{"shader source", func(d *pipeline.RenderPipelineDescriptor) {
			d.Fragment = shader.NewModule("alt", "@fragment fn fs_main() {}")
		}},
		{"topology", func(d *pipeline.RenderPipelineDescriptor) {
			d.Topology = gputypes.PrimitiveTopologyLineList
		}},
		{"cull mode", func(d *pipeline.RenderPipelineDescriptor) { d.CullMode = gputypes.CullModeBack }},
		{"color format", func(d *pipeline.RenderPipelineDescriptor) {
			d.ColorFormat = gputypes.TextureFormatRGBA8Unorm
		}},
		{"depth state", func(d *pipeline.RenderPipelineDescriptor) {
			d.DepthFormat = gputypes.TextureFormatDepth24PlusStencil8
			d.DepthWriteEnabled = true
			d.DepthCompare = gputypes.CompareFunctionLess
		}},
		{"blend added", func(d *pipeline.RenderPipelineDescriptor) { d.Blend = &blend }},
		{"write mask", func(d *pipeline.RenderPipelineDescriptor) {
			d.WriteMask = gputypes.ColorWriteMaskNone
		}},
		{"sample count", func(d *pipeline.RenderPipelineDescriptor) { d.SampleCount = 4 }},
		{"array stride", func(d *pipeline.RenderPipelineDescriptor) {
			d.VertexLayouts[0].ArrayStride = 32
		}},
		{"attribute location", func(d *pipeline.RenderPipelineDescriptor) {
			d.VertexLayouts[0].Attributes[0].ShaderLocation = 5
		}},
		{"layout removed", func(d *pipeline.RenderPipelineDescriptor) { d.VertexLayouts = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base.Clone()
			tt.mutate(&other)
			if hashRenderDescriptor(other) == baseHash {
				t.Error("mutation did not change the hash")
			}
		})
	}
}

func TestHashRenderDescriptorBlendComponents(t *testing.T) {
	blend := gputypes.BlendStatePremultiplied()
	a := testRenderDescriptor("blend")
	a.Blend = &blend

	altBlend := blend
	altBlend.Color.SrcFactor = gputypes.BlendFactorSrcAlpha
	b := a.Clone()
	b.Blend = &altBlend

	if hashRenderDescriptor(a) == hashRenderDescriptor(b) {
		t.Error("different blend factors should hash differently")
	}
}

func TestHashComputeDescriptor(t *testing.T) {
	a := hashComputeDescriptor(testComputeDescriptor("cs"))
	b := hashComputeDescriptor(testComputeDescriptor("cs"))
	if a != b {
		t.Errorf("equal descriptors hash to %x and %x", a, b)
	}

	other := testComputeDescriptor("cs")
	other.EntryPoint = "alt"
	if hashComputeDescriptor(other) == a {
		t.Error("different entry points should hash differently")
	}

	nilShader := testComputeDescriptor("cs")
	nilShader.Shader = nil
	if hashComputeDescriptor(nilShader) == a {
		t.Error("nil shader should hash differently")
	}
}
