// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package library

import (
	"encoding/binary"
	"hash"
	"hash/fnv"

	"github.com/gogpu/pipeline"
	"github.com/gogpu/pipeline/shader"
)

// hashRenderDescriptor computes an FNV-1a hash covering every field that
// affects the realized pipeline. Structurally equal descriptors hash equal;
// the library verifies equality on lookup, so a collision costs a missed
// deduplication, never a wrong pipeline.
func hashRenderDescriptor(desc pipeline.RenderPipelineDescriptor) uint64 {
	h := fnv.New64a()

	hashWriteString(h, desc.Label)
	hashWriteModule(h, desc.Vertex)
	hashWriteString(h, desc.VertexEntryPoint)
	hashWriteModule(h, desc.Fragment)
	hashWriteString(h, desc.FragmentEntryPoint)

	hashWriteUint32(h, uint32(len(desc.VertexLayouts)))
	for i := range desc.VertexLayouts {
		layout := &desc.VertexLayouts[i]
		hashWriteUint64(h, layout.ArrayStride)
		hashWriteUint32(h, uint32(layout.StepMode))
		hashWriteUint32(h, uint32(len(layout.Attributes)))
		for j := range layout.Attributes {
			attr := &layout.Attributes[j]
			hashWriteUint32(h, attr.ShaderLocation)
			hashWriteUint32(h, uint32(attr.Format))
			hashWriteUint64(h, attr.Offset)
		}
	}

	hashWriteUint32(h, uint32(desc.Topology))
	hashWriteUint32(h, uint32(desc.FrontFace))
	hashWriteUint32(h, uint32(desc.CullMode))
	hashWriteUint32(h, uint32(desc.ColorFormat))
	hashWriteUint32(h, uint32(desc.DepthFormat))
	hashWriteBool(h, desc.DepthWriteEnabled)
	hashWriteUint32(h, uint32(desc.DepthCompare))

	if desc.Blend != nil {
		hashWriteBool(h, true)
		hashWriteUint32(h, uint32(desc.Blend.Color.SrcFactor))
		hashWriteUint32(h, uint32(desc.Blend.Color.DstFactor))
		hashWriteUint32(h, uint32(desc.Blend.Color.Operation))
		hashWriteUint32(h, uint32(desc.Blend.Alpha.SrcFactor))
		hashWriteUint32(h, uint32(desc.Blend.Alpha.DstFactor))
		hashWriteUint32(h, uint32(desc.Blend.Alpha.Operation))
	} else {
		hashWriteBool(h, false)
	}

	hashWriteUint32(h, uint32(desc.WriteMask))
	hashWriteUint32(h, desc.SampleCount)

	return h.Sum64()
}

// hashComputeDescriptor computes an FNV-1a hash of a compute descriptor.
func hashComputeDescriptor(desc pipeline.ComputePipelineDescriptor) uint64 {
	h := fnv.New64a()
	hashWriteString(h, desc.Label)
	hashWriteModule(h, desc.Shader)
	hashWriteString(h, desc.EntryPoint)
	return h.Sum64()
}

func hashWriteModule(h hash.Hash64, m *shader.Module) {
	if m != nil {
		hashWriteUint64(h, m.CodeHash())
	} else {
		hashWriteUint64(h, 0)
	}
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteString(h hash.Hash64, s string) {
	hashWriteUint32(h, uint32(len(s)))
	_, _ = h.Write([]byte(s))
}

func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
