// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader holds shader stage metadata for typed pipeline construction.
//
// A shader stage is described twice: once as runtime metadata ([StageInfo],
// a [Module] plus entry point and IO slots) and once at the type level. The
// type-level description is what lets [github.com/gogpu/pipeline] reject a
// vertex/fragment pairing whose interstage interfaces don't line up before
// anything is compiled:
//
//   - A vertex stage type implements [Vertex] with its varying output type
//     as the type argument.
//   - A fragment stage type implements [Fragment] with its varying input
//     type as the type argument.
//   - A render pipeline handle unifies both on one varying type, so a
//     mismatched pairing fails to compile.
//
// A fragment stage that consumes only a subset of the vertex outputs
// declares itself generic over any varyings satisfying a constraint
// interface:
//
//	type TexturedVaryings interface {
//		UV() [2]float32
//	}
//
//	type TextureFragment[V TexturedVaryings] struct{}
//
//	func (TextureFragment[V]) FragmentStage() shader.StageInfo { ... }
//	func (TextureFragment[V]) FragmentInputs(V)                {}
//
// Instantiating TextureFragment with a varyings type that has no UV slot is
// a compile error, which is exactly the point: a structurally incompatible
// stage pairing can never succeed at runtime, so it must not build.
package shader

import "github.com/gogpu/gputypes"

// Stage identifies a programmable pipeline stage.
type Stage uint8

const (
	// StageVertex is the vertex shader stage.
	StageVertex Stage = iota

	// StageFragment is the fragment shader stage.
	StageFragment

	// StageCompute is the compute shader stage.
	StageCompute
)

// String returns the WGSL-style stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return "unknown"
	}
}

// Slot is one named, typed, located attribute of a stage interface: a vertex
// input, a vertex output (varying), or a fragment input.
type Slot struct {
	// Name is the attribute name in the shader source.
	Name string

	// Location is the @location index.
	Location uint32

	// Format is the attribute data format.
	Format gputypes.VertexFormat
}

// StageInfo is the runtime description of one shader stage.
type StageInfo struct {
	// Module is the shader module containing this stage's entry point.
	Module *Module

	// EntryPoint is the stage entry function name.
	EntryPoint string

	// Stage identifies which pipeline stage this is.
	Stage Stage

	// Inputs are the stage's input slots: vertex attributes for a vertex
	// stage, varyings for a fragment stage. Empty for compute stages.
	Inputs []Slot

	// Outputs are the stage's output slots: varyings for a vertex stage.
	Outputs []Slot
}

// Vertex is implemented by vertex stage types. Varyings is the stage's
// interstage output type; a render pipeline handle unifies it with the
// fragment stage's input type.
//
// Stage types must be stateless: the pipeline builder calls these methods on
// zero values.
type Vertex[Varyings any] interface {
	// VertexStage returns the stage metadata.
	VertexStage() StageInfo

	// VertexOutputs is a marker tying the stage to its varying type. It is
	// never called; it exists so the compiler can check stage linkage.
	VertexOutputs() Varyings
}

// Fragment is implemented by fragment stage types. Varyings is the varying
// type the stage consumes; see the package documentation for how subset
// consumption is declared.
type Fragment[Varyings any] interface {
	// FragmentStage returns the stage metadata.
	FragmentStage() StageInfo

	// FragmentInputs is a marker tying the stage to its varying type. It is
	// never called; it exists so the compiler can check stage linkage.
	FragmentInputs(Varyings)
}

// Compute is implemented by compute stage types.
type Compute interface {
	// ComputeStage returns the stage metadata.
	ComputeStage() StageInfo
}

// CompatibleSlots reports whether every input slot is satisfied by an output
// slot with the same name, location, and format. This is the runtime mirror
// of the type-level stage linkage, used to validate descriptors built from
// untyped metadata.
func CompatibleSlots(outputs, inputs []Slot) bool {
	for _, in := range inputs {
		found := false
		for _, out := range outputs {
			if out.Name == in.Name && out.Location == in.Location && out.Format == in.Format {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FormatByteSize returns the byte size of a vertex format, for computing
// attribute offsets and buffer strides. Unknown formats report ok=false.
func FormatByteSize(f gputypes.VertexFormat) (uint64, bool) {
	switch f {
	case gputypes.VertexFormatFloat32:
		return 4, true
	case gputypes.VertexFormatFloat32x2:
		return 8, true
	case gputypes.VertexFormatFloat32x3:
		return 12, true
	case gputypes.VertexFormatFloat32x4:
		return 16, true
	default:
		return 0, false
	}
}
