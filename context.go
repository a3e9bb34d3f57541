package pipeline

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Context provides everything pipeline construction needs from the
// surrounding renderer: GPU device access (shared with the host application
// through the gpucontext ecosystem), the pipeline libraries, and the
// properties of the main render target that default descriptors are built
// against.
//
// Key principle: this package RECEIVES the device and libraries from the
// host, it does not create them.
type Context interface {
	gpucontext.DeviceProvider

	// RenderPipelines returns the library serving render pipeline requests.
	RenderPipelines() Library[RenderPipelineDescriptor]

	// ComputePipelines returns the library serving compute pipeline
	// requests.
	ComputePipelines() Library[ComputePipelineDescriptor]

	// ColorFormat is the texture format of the main render target.
	ColorFormat() gputypes.TextureFormat

	// SampleCount is the sample count of the main render target.
	SampleCount() uint32
}

// NewRenderPipelineFuture requests asynchronous creation of a render
// pipeline. A nil descriptor (for example, a builder that could not produce
// a default) yields an invalid future with no descriptor snapshot; callers
// must check IsValid before calling Get.
func NewRenderPipelineFuture(ctx Context, desc *RenderPipelineDescriptor) RenderPipelineFuture {
	if ctx == nil || desc == nil {
		return RenderPipelineFuture{}
	}
	lib := ctx.RenderPipelines()
	if lib == nil {
		return RenderPipelineFuture{}
	}
	return lib.NewPipeline(desc.Clone(), true)
}

// NewComputePipelineFuture requests asynchronous creation of a compute
// pipeline. A nil descriptor yields an invalid future.
func NewComputePipelineFuture(ctx Context, desc *ComputePipelineDescriptor) ComputePipelineFuture {
	if ctx == nil || desc == nil {
		return ComputePipelineFuture{}
	}
	lib := ctx.ComputePipelines()
	if lib == nil {
		return ComputePipelineFuture{}
	}
	return lib.NewPipeline(desc.Clone(), true)
}
