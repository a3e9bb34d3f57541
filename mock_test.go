package pipeline

import (
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pipeline/shader"
)

// =============================================================================
// Test Helpers
// =============================================================================

// mockState implements BackendState for testing.
type mockState struct {
	valid bool
}

func (s *mockState) IsValid() bool { return s.valid }

// recordingLibrary implements Library[D], recording every request and
// resolving synchronously. failFrom fails requests once the request count
// reaches it (1-based); zero never fails.
type recordingLibrary[D Descriptor[D]] struct {
	mu       sync.Mutex
	requests []D
	asyncs   []bool
	failFrom int
	ref      LibraryRef[D]
}

func newRecordingLibrary[D Descriptor[D]]() *recordingLibrary[D] {
	lib := &recordingLibrary[D]{}
	lib.ref = NewLibraryRef[D](lib)
	return lib
}

func (m *recordingLibrary[D]) NewPipeline(desc D, async bool) Future[D] {
	m.mu.Lock()
	m.requests = append(m.requests, desc)
	m.asyncs = append(m.asyncs, async)
	n := len(m.requests)
	m.mu.Unlock()

	if m.failFrom > 0 && n >= m.failFrom {
		return ResolvedFuture(desc, (*Pipeline[D])(nil))
	}
	return ResolvedFuture(desc, NewPipeline(m.ref, desc, &mockState{valid: true}))
}

func (m *recordingLibrary[D]) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockContext implements Context for testing.
type mockContext struct {
	render  *recordingLibrary[RenderPipelineDescriptor]
	compute *recordingLibrary[ComputePipelineDescriptor]
	format  gputypes.TextureFormat
	samples uint32
}

func newMockContext() *mockContext {
	return &mockContext{
		render:  newRecordingLibrary[RenderPipelineDescriptor](),
		compute: newRecordingLibrary[ComputePipelineDescriptor](),
		format:  gputypes.TextureFormatBGRA8Unorm,
		samples: 1,
	}
}

func (c *mockContext) Device() gpucontext.Device             { return &mockDevice{} }
func (c *mockContext) Queue() gpucontext.Queue               { return &mockQueue{} }
func (c *mockContext) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (c *mockContext) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }
func (c *mockContext) SurfaceFormat() gputypes.TextureFormat { return c.format }

func (c *mockContext) RenderPipelines() Library[RenderPipelineDescriptor] {
	if c.render == nil {
		return nil
	}
	return c.render
}

func (c *mockContext) ComputePipelines() Library[ComputePipelineDescriptor] {
	if c.compute == nil {
		return nil
	}
	return c.compute
}

func (c *mockContext) ColorFormat() gputypes.TextureFormat { return c.format }
func (c *mockContext) SampleCount() uint32                 { return c.samples }

// =============================================================================
// Test Stage Types
// =============================================================================

var testShaderModule = shader.NewModule("test_shader", `
@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }
@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
@compute @workgroup_size(64) fn main() {}
`)

// colorVaryings is the interstage interface of colorVertex.
type colorVaryings struct{}

func (colorVaryings) Color() [4]float32 { return [4]float32{} }

type colorVertex struct{}

func (colorVertex) VertexStage() shader.StageInfo {
	return shader.StageInfo{
		Module:     testShaderModule,
		EntryPoint: "vs_main",
		Stage:      shader.StageVertex,
		Inputs: []shader.Slot{
			{Name: "position", Location: 0, Format: gputypes.VertexFormatFloat32x2},
			{Name: "color", Location: 1, Format: gputypes.VertexFormatFloat32x4},
		},
		Outputs: []shader.Slot{
			{Name: "color", Location: 0, Format: gputypes.VertexFormatFloat32x4},
		},
	}
}

func (colorVertex) VertexOutputs() colorVaryings { return colorVaryings{} }

type colorFragment struct{}

func (colorFragment) FragmentStage() shader.StageInfo {
	return shader.StageInfo{
		Module:     testShaderModule,
		EntryPoint: "fs_main",
		Stage:      shader.StageFragment,
		Inputs: []shader.Slot{
			{Name: "color", Location: 0, Format: gputypes.VertexFormatFloat32x4},
		},
	}
}

func (colorFragment) FragmentInputs(colorVaryings) {}

// coloredVaryings constrains tintFragment to vertex stages whose varyings
// carry a color slot; consuming a subset of outputs is declared this way.
type coloredVaryings interface {
	Color() [4]float32
}

type tintFragment[V coloredVaryings] struct{}

func (tintFragment[V]) FragmentStage() shader.StageInfo {
	return shader.StageInfo{
		Module:     testShaderModule,
		EntryPoint: "fs_main",
		Stage:      shader.StageFragment,
		Inputs: []shader.Slot{
			{Name: "color", Location: 0, Format: gputypes.VertexFormatFloat32x4},
		},
	}
}

func (tintFragment[V]) FragmentInputs(V) {}

type countCompute struct{}

func (countCompute) ComputeStage() shader.StageInfo {
	return shader.StageInfo{
		Module:     testShaderModule,
		EntryPoint: "main",
		Stage:      shader.StageCompute,
	}
}

// testRenderDescriptor builds a descriptor for tests that bypass the
// default builder.
func testRenderDescriptor(label string) RenderPipelineDescriptor {
	return RenderPipelineDescriptor{
		Label:              label,
		Vertex:             testShaderModule,
		VertexEntryPoint:   "vs_main",
		Fragment:           testShaderModule,
		FragmentEntryPoint: "fs_main",
		VertexLayouts: []gputypes.VertexBufferLayout{
			{
				ArrayStride: 24,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
				},
			},
		},
		Topology:    gputypes.PrimitiveTopologyTriangleList,
		FrontFace:   gputypes.FrontFaceCCW,
		CullMode:    gputypes.CullModeNone,
		ColorFormat: gputypes.TextureFormatBGRA8Unorm,
		WriteMask:   gputypes.ColorWriteMaskAll,
		SampleCount: 1,
	}
}
