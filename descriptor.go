package pipeline

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pipeline/shader"
)

// Descriptor is the constraint satisfied by pipeline descriptor types.
// Descriptors are value types, immutable by convention once handed to a
// pipeline; Clone produces an independent copy suitable for mutation into a
// variant, and Equal is the structural equality used for deduplication.
type Descriptor[D any] interface {
	// Clone returns a deep copy. Shader modules are immutable and shared;
	// all slice-valued state is copied.
	Clone() D

	// Equal reports structural equality. Two equal descriptors are
	// interchangeable as cache keys.
	Equal(D) bool
}

// RenderPipelineDescriptor fully describes one render pipeline: the
// programmable stages plus all fixed-function state.
type RenderPipelineDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Vertex is the vertex stage module.
	Vertex *shader.Module

	// VertexEntryPoint is the vertex entry function. Defaults to "vs_main"
	// when empty.
	VertexEntryPoint string

	// Fragment is the fragment stage module. May share a module with the
	// vertex stage.
	Fragment *shader.Module

	// FragmentEntryPoint is the fragment entry function. Defaults to
	// "fs_main" when empty.
	FragmentEntryPoint string

	// VertexLayouts describes the vertex buffer layouts.
	VertexLayouts []gputypes.VertexBufferLayout

	// Topology is the primitive type.
	Topology gputypes.PrimitiveTopology

	// FrontFace defines which face is considered front-facing.
	FrontFace gputypes.FrontFace

	// CullMode defines which faces to cull.
	CullMode gputypes.CullMode

	// ColorFormat is the format of the color attachment.
	ColorFormat gputypes.TextureFormat

	// DepthFormat is the format of the depth attachment.
	// TextureFormatUndefined means no depth attachment.
	DepthFormat gputypes.TextureFormat

	// DepthWriteEnabled enables depth buffer writes.
	DepthWriteEnabled bool

	// DepthCompare is the depth comparison function.
	DepthCompare gputypes.CompareFunction

	// Blend is the color blending configuration. Nil disables blending
	// (source replaces destination).
	Blend *gputypes.BlendState

	// WriteMask selects which color channels are written.
	WriteMask gputypes.ColorWriteMask

	// SampleCount is the number of samples per pixel (1 for non-MSAA).
	SampleCount uint32
}

// Clone returns a deep copy of the descriptor. The shader modules are shared
// (they are immutable); vertex layouts and blend state are copied so the
// clone can be mutated into a variant without touching the original.
func (d RenderPipelineDescriptor) Clone() RenderPipelineDescriptor {
	out := d
	if d.VertexLayouts != nil {
		out.VertexLayouts = make([]gputypes.VertexBufferLayout, len(d.VertexLayouts))
		for i, layout := range d.VertexLayouts {
			out.VertexLayouts[i] = layout
			if layout.Attributes != nil {
				out.VertexLayouts[i].Attributes = make([]gputypes.VertexAttribute, len(layout.Attributes))
				copy(out.VertexLayouts[i].Attributes, layout.Attributes)
			}
		}
	}
	if d.Blend != nil {
		blend := *d.Blend
		out.Blend = &blend
	}
	return out
}

// Equal reports structural equality. Shader stages compare by code hash and
// entry point, so two descriptors referencing distinct module objects with
// identical source are still equal.
func (d RenderPipelineDescriptor) Equal(o RenderPipelineDescriptor) bool {
	if d.Label != o.Label ||
		!moduleEqual(d.Vertex, o.Vertex) ||
		d.VertexEntryPoint != o.VertexEntryPoint ||
		!moduleEqual(d.Fragment, o.Fragment) ||
		d.FragmentEntryPoint != o.FragmentEntryPoint ||
		d.Topology != o.Topology ||
		d.FrontFace != o.FrontFace ||
		d.CullMode != o.CullMode ||
		d.ColorFormat != o.ColorFormat ||
		d.DepthFormat != o.DepthFormat ||
		d.DepthWriteEnabled != o.DepthWriteEnabled ||
		d.DepthCompare != o.DepthCompare ||
		d.WriteMask != o.WriteMask ||
		d.SampleCount != o.SampleCount {
		return false
	}
	if (d.Blend == nil) != (o.Blend == nil) {
		return false
	}
	if d.Blend != nil && *d.Blend != *o.Blend {
		return false
	}
	if len(d.VertexLayouts) != len(o.VertexLayouts) {
		return false
	}
	for i := range d.VertexLayouts {
		a, b := d.VertexLayouts[i], o.VertexLayouts[i]
		if a.ArrayStride != b.ArrayStride || a.StepMode != b.StepMode || len(a.Attributes) != len(b.Attributes) {
			return false
		}
		for j := range a.Attributes {
			if a.Attributes[j] != b.Attributes[j] {
				return false
			}
		}
	}
	return true
}

// ComputePipelineDescriptor fully describes one compute pipeline.
type ComputePipelineDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Shader is the compute stage module.
	Shader *shader.Module

	// EntryPoint is the compute entry function. Defaults to "main" when
	// empty.
	EntryPoint string
}

// Clone returns a copy of the descriptor. The shader module is shared.
func (d ComputePipelineDescriptor) Clone() ComputePipelineDescriptor {
	return d
}

// Equal reports structural equality, comparing the shader stage by code
// hash and entry point.
func (d ComputePipelineDescriptor) Equal(o ComputePipelineDescriptor) bool {
	return d.Label == o.Label &&
		moduleEqual(d.Shader, o.Shader) &&
		d.EntryPoint == o.EntryPoint
}

// moduleEqual compares shader modules by code hash.
func moduleEqual(a, b *shader.Module) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.CodeHash() == b.CodeHash()
}
