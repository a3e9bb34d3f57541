package pipeline

import "github.com/gogpu/pipeline/shader"

// RenderPipelineHandle owns the one-shot resolution of an asynchronously
// created render pipeline while keeping the vertex and fragment stage types
// at compile time. Instantiating the handle (or any of its constructors)
// with stages whose interstage interfaces don't unify on IO is a compile
// error; see [github.com/gogpu/pipeline/shader].
//
// A handle is the unique owner of its resolution state: it must not be
// copied, and WaitAndGet is intended for a single consumer (typically the
// render thread). To share one asynchronous creation across consumers,
// share the [Future] and wrap it into multiple handles.
type RenderPipelineHandle[V shader.Vertex[IO], F shader.Fragment[IO], IO any] struct {
	future   RenderPipelineFuture
	pipeline *RenderPipeline
	didWait  bool
}

// NewRenderPipelineHandle creates a handle with a default descriptor
// computed from the stage metadata and the context (see
// [DefaultRenderPipelineDescriptor]) and kicks off asynchronous creation.
// If no default descriptor could be computed, the handle resolves to nil
// without blocking.
func NewRenderPipelineHandle[V shader.Vertex[IO], F shader.Fragment[IO], IO any](ctx Context) *RenderPipelineHandle[V, F, IO] {
	var desc *RenderPipelineDescriptor
	if d, ok := DefaultRenderPipelineDescriptor[V, F, IO](ctx); ok {
		desc = &d
	}
	return NewRenderPipelineHandleWithDescriptor[V, F, IO](ctx, desc)
}

// NewRenderPipelineHandleWithDescriptor creates a handle for an explicit
// descriptor and kicks off asynchronous creation. A nil descriptor yields a
// handle that resolves to nil without blocking.
func NewRenderPipelineHandleWithDescriptor[V shader.Vertex[IO], F shader.Fragment[IO], IO any](ctx Context, desc *RenderPipelineDescriptor) *RenderPipelineHandle[V, F, IO] {
	return NewRenderPipelineHandleFromFuture[V, F, IO](NewRenderPipelineFuture(ctx, desc))
}

// NewRenderPipelineHandleFromFuture wraps a pre-built future. Use this to
// share one asynchronous creation across several handles.
func NewRenderPipelineHandleFromFuture[V shader.Vertex[IO], F shader.Fragment[IO], IO any](future RenderPipelineFuture) *RenderPipelineHandle[V, F, IO] {
	return &RenderPipelineHandle[V, F, IO]{future: future}
}

// WaitAndGet returns the resolved pipeline, or nil if creation failed or was
// never requested. The first call blocks until the pipeline is ready; every
// later call returns the cached result immediately, even when the first
// resolution failed — a cached nil stays nil, the handle never retries.
// This keeps repeated lookups on the per-frame hot path free of blocking.
func (h *RenderPipelineHandle[V, F, IO]) WaitAndGet() *RenderPipeline {
	if h.didWait {
		return h.pipeline
	}
	h.didWait = true
	if h.future.IsValid() {
		h.pipeline = h.future.Get()
	}
	return h.pipeline
}

// Descriptor returns the descriptor snapshot captured when the creation was
// requested. It is available before resolution completes; ok is false when
// the handle was constructed without a descriptor.
func (h *RenderPipelineHandle[V, F, IO]) Descriptor() (RenderPipelineDescriptor, bool) {
	return h.future.Descriptor()
}

// ComputePipelineHandle owns the one-shot resolution of an asynchronously
// created compute pipeline for the compute stage type C. There is only one
// stage, so no interstage check applies.
//
// Like [RenderPipelineHandle], a compute handle must not be copied and
// serves a single consumer.
type ComputePipelineHandle[C shader.Compute] struct {
	future   ComputePipelineFuture
	pipeline *ComputePipeline
	didWait  bool
}

// NewComputePipelineHandle creates a handle with a default descriptor
// computed from the stage metadata (see
// [DefaultComputePipelineDescriptor]) and kicks off asynchronous creation.
func NewComputePipelineHandle[C shader.Compute](ctx Context) *ComputePipelineHandle[C] {
	var desc *ComputePipelineDescriptor
	if d, ok := DefaultComputePipelineDescriptor[C](ctx); ok {
		desc = &d
	}
	return NewComputePipelineHandleWithDescriptor[C](ctx, desc)
}

// NewComputePipelineHandleWithDescriptor creates a handle for an explicit
// descriptor. A nil descriptor yields a handle that resolves to nil without
// blocking.
func NewComputePipelineHandleWithDescriptor[C shader.Compute](ctx Context, desc *ComputePipelineDescriptor) *ComputePipelineHandle[C] {
	return NewComputePipelineHandleFromFuture[C](NewComputePipelineFuture(ctx, desc))
}

// NewComputePipelineHandleFromFuture wraps a pre-built future.
func NewComputePipelineHandleFromFuture[C shader.Compute](future ComputePipelineFuture) *ComputePipelineHandle[C] {
	return &ComputePipelineHandle[C]{future: future}
}

// WaitAndGet returns the resolved pipeline, or nil if creation failed or was
// never requested. First call blocks; later calls return the cached result,
// even a failed one.
func (h *ComputePipelineHandle[C]) WaitAndGet() *ComputePipeline {
	if h.didWait {
		return h.pipeline
	}
	h.didWait = true
	if h.future.IsValid() {
		h.pipeline = h.future.Get()
	}
	return h.pipeline
}
