// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package library

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pipeline"
	"github.com/gogpu/pipeline/internal/cache"
	"github.com/gogpu/pipeline/shader"
)

// HAL backend errors.
var (
	// ErrNilDevice is returned when creating a HAL backend without a device.
	ErrNilDevice = errors.New("library: hal device is nil")
)

// HALBackend realizes descriptors on a wgpu/hal device. WGSL stages are
// compiled to SPIR-V through naga on first use and the resulting shader
// modules are cached by code hash, so pipelines sharing a module compile it
// once.
type HALBackend struct {
	device  hal.Device
	shaders *cache.Cache[uint64, shaderEntry]
}

// shaderEntry caches the outcome of a module compilation, including failure:
// a stage that failed once fails the same way for every later pipeline.
type shaderEntry struct {
	module hal.ShaderModule
	err    error
}

// NewHALBackend creates a backend realizing pipelines on device.
func NewHALBackend(device hal.Device) (*HALBackend, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	return &HALBackend{
		device:  device,
		shaders: cache.New[uint64, shaderEntry](0),
	}, nil
}

// DeviceFromProvider extracts the hal device and queue from a provider that
// exposes HalDevice() any and HalQueue() any, the convention shared device
// owners follow.
func DeviceFromProvider(provider any) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, fmt.Errorf("library: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("library: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("library: provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}

// RealizeRender builds hal render pipeline state for desc.
func (b *HALBackend) RealizeRender(desc pipeline.RenderPipelineDescriptor) (pipeline.BackendState, error) {
	if desc.Vertex == nil {
		return nil, fmt.Errorf("library: render descriptor %q has no vertex module", desc.Label)
	}
	if desc.Fragment == nil {
		return nil, fmt.Errorf("library: render descriptor %q has no fragment module", desc.Label)
	}

	vertexModule, err := b.shaderModule(desc.Vertex)
	if err != nil {
		return nil, fmt.Errorf("library: vertex stage of %q: %w", desc.Label, err)
	}
	fragmentModule, err := b.shaderModule(desc.Fragment)
	if err != nil {
		return nil, fmt.Errorf("library: fragment stage of %q: %w", desc.Label, err)
	}

	sampleCount := desc.SampleCount
	if sampleCount == 0 {
		sampleCount = 1
	}

	halDesc := &hal.RenderPipelineDescriptor{
		Label: desc.Label,
		Vertex: hal.VertexState{
			Module:     vertexModule,
			EntryPoint: desc.VertexEntryPoint,
			Buffers:    desc.VertexLayouts,
		},
		Fragment: &hal.FragmentState{
			Module:     fragmentModule,
			EntryPoint: desc.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    desc.ColorFormat,
					Blend:     desc.Blend,
					WriteMask: desc.WriteMask,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  desc.Topology,
			FrontFace: desc.FrontFace,
			CullMode:  desc.CullMode,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	}

	if desc.DepthFormat != gputypes.TextureFormatUndefined {
		halDesc.DepthStencil = &hal.DepthStencilState{
			Format:            desc.DepthFormat,
			DepthWriteEnabled: desc.DepthWriteEnabled,
			DepthCompare:      desc.DepthCompare,
			StencilFront:      passthroughStencilFace(),
			StencilBack:       passthroughStencilFace(),
			StencilReadMask:   0xFFFFFFFF,
			StencilWriteMask:  0xFFFFFFFF,
		}
	}

	p, err := b.device.CreateRenderPipeline(halDesc)
	if err != nil {
		return nil, fmt.Errorf("library: create render pipeline %q: %w", desc.Label, err)
	}
	return &renderState{device: b.device, pipeline: p}, nil
}

// RealizeCompute builds hal compute pipeline state for desc.
func (b *HALBackend) RealizeCompute(desc pipeline.ComputePipelineDescriptor) (pipeline.BackendState, error) {
	if desc.Shader == nil {
		return nil, fmt.Errorf("library: compute descriptor %q has no shader module", desc.Label)
	}

	module, err := b.shaderModule(desc.Shader)
	if err != nil {
		return nil, fmt.Errorf("library: compute stage of %q: %w", desc.Label, err)
	}

	p, err := b.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: desc.Label,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("library: create compute pipeline %q: %w", desc.Label, err)
	}
	return &computeState{device: b.device, pipeline: p}, nil
}

// Destroy releases all cached shader modules. The backend must not be used
// afterwards.
func (b *HALBackend) Destroy() {
	b.shaders.Each(func(e shaderEntry) {
		if e.module != nil {
			b.device.DestroyShaderModule(e.module)
		}
	})
	b.shaders.Clear()
}

// shaderModule returns the device module for m, compiling WGSL to SPIR-V
// and creating the module on first use.
func (b *HALBackend) shaderModule(m *shader.Module) (hal.ShaderModule, error) {
	e, _ := b.shaders.GetOrCreate(m.CodeHash(), func() shaderEntry {
		words, err := m.Compile()
		if err != nil {
			return shaderEntry{err: err}
		}
		module, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label: m.Label(),
			Source: hal.ShaderSource{
				SPIRV: words,
			},
		})
		if err != nil {
			return shaderEntry{err: fmt.Errorf("create shader module %q: %w", m.Label(), err)}
		}
		return shaderEntry{module: module}
	})
	return e.module, e.err
}

func passthroughStencilFace() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
}

// renderState is the BackendState of a realized render pipeline.
type renderState struct {
	device    hal.Device
	pipeline  hal.RenderPipeline
	destroyed bool
}

// IsValid reports whether the pipeline can be bound.
func (s *renderState) IsValid() bool {
	return s.pipeline != nil && !s.destroyed
}

// Pipeline returns the hal pipeline for binding into a render pass.
func (s *renderState) Pipeline() hal.RenderPipeline {
	return s.pipeline
}

// Destroy releases the device pipeline.
func (s *renderState) Destroy() {
	if s.destroyed || s.pipeline == nil {
		return
	}
	s.destroyed = true
	s.device.DestroyRenderPipeline(s.pipeline)
}

// computeState is the BackendState of a realized compute pipeline.
type computeState struct {
	device    hal.Device
	pipeline  hal.ComputePipeline
	destroyed bool
}

func (s *computeState) IsValid() bool {
	return s.pipeline != nil && !s.destroyed
}

// Pipeline returns the hal pipeline for binding into a compute pass.
func (s *computeState) Pipeline() hal.ComputePipeline {
	return s.pipeline
}

func (s *computeState) Destroy() {
	if s.destroyed || s.pipeline == nil {
		return
	}
	s.destroyed = true
	s.device.DestroyComputePipeline(s.pipeline)
}
