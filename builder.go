package pipeline

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pipeline/shader"
)

// DefaultRenderPipelineDescriptor computes a render pipeline descriptor from
// the stage types' metadata and the context's render target: one vertex
// buffer with tightly packed attributes taken from the vertex stage inputs,
// triangle-list topology, no culling, premultiplied alpha blending, and the
// context's color format and sample count.
//
// ok is false when the context is nil, a stage is missing its module, an
// attribute format is unknown, or the fragment stage's input slots are not
// satisfied by the vertex stage's outputs. The last case is already rejected
// at compile time for correctly declared stage types; the runtime check
// covers metadata authored by hand.
func DefaultRenderPipelineDescriptor[V shader.Vertex[IO], F shader.Fragment[IO], IO any](ctx Context) (RenderPipelineDescriptor, bool) {
	var (
		v V
		f F
	)
	vInfo := v.VertexStage()
	fInfo := f.FragmentStage()
	if ctx == nil || vInfo.Module == nil || fInfo.Module == nil {
		return RenderPipelineDescriptor{}, false
	}
	if !shader.CompatibleSlots(vInfo.Outputs, fInfo.Inputs) {
		return RenderPipelineDescriptor{}, false
	}

	layout, ok := vertexLayoutFromSlots(vInfo.Inputs)
	if !ok {
		return RenderPipelineDescriptor{}, false
	}

	blend := gputypes.BlendStatePremultiplied()
	sampleCount := ctx.SampleCount()
	if sampleCount == 0 {
		sampleCount = 1
	}

	return RenderPipelineDescriptor{
		Label:              vInfo.Module.Label(),
		Vertex:             vInfo.Module,
		VertexEntryPoint:   entryPoint(vInfo, "vs_main"),
		Fragment:           fInfo.Module,
		FragmentEntryPoint: entryPoint(fInfo, "fs_main"),
		VertexLayouts:      layout,
		Topology:           gputypes.PrimitiveTopologyTriangleList,
		FrontFace:          gputypes.FrontFaceCCW,
		CullMode:           gputypes.CullModeNone,
		ColorFormat:        ctx.ColorFormat(),
		DepthFormat:        gputypes.TextureFormatUndefined,
		Blend:              &blend,
		WriteMask:          gputypes.ColorWriteMaskAll,
		SampleCount:        sampleCount,
	}, true
}

// DefaultComputePipelineDescriptor computes a compute pipeline descriptor
// from the stage type's metadata. ok is false when the context is nil or the
// stage is missing its module.
func DefaultComputePipelineDescriptor[C shader.Compute](ctx Context) (ComputePipelineDescriptor, bool) {
	var c C
	info := c.ComputeStage()
	if ctx == nil || info.Module == nil {
		return ComputePipelineDescriptor{}, false
	}
	return ComputePipelineDescriptor{
		Label:      info.Module.Label(),
		Shader:     info.Module,
		EntryPoint: entryPoint(info, "main"),
	}, true
}

// vertexLayoutFromSlots packs the vertex stage's input slots into a single
// interleaved buffer layout, in declaration order.
func vertexLayoutFromSlots(slots []shader.Slot) ([]gputypes.VertexBufferLayout, bool) {
	if len(slots) == 0 {
		return nil, true
	}
	attrs := make([]gputypes.VertexAttribute, len(slots))
	var offset uint64
	for i, s := range slots {
		size, ok := shader.FormatByteSize(s.Format)
		if !ok {
			return nil, false
		}
		attrs[i] = gputypes.VertexAttribute{
			Format:         s.Format,
			Offset:         offset,
			ShaderLocation: s.Location,
		}
		offset += size
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: offset,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  attrs,
		},
	}, true
}

func entryPoint(info shader.StageInfo, fallback string) string {
	if info.EntryPoint != "" {
		return info.EntryPoint
	}
	return fallback
}
