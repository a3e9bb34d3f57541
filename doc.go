// Package pipeline provides typed, asynchronously constructed GPU pipeline
// state objects for the gogpu ecosystem.
//
// # Overview
//
// Creating a GPU pipeline is expensive: it involves shader translation,
// backend validation, and often a blocking driver call. This package
// separates requesting a pipeline from using it, so that compilation can
// happen in the background while the application keeps working:
//
//   - A [Future] joins a descriptor snapshot with a shared, multi-waiter
//     result. Any number of holders may wait on the same creation; all of
//     them observe the same resolved pipeline.
//   - A [Pipeline] is the resolved object. It remembers the descriptor that
//     built it and can spawn cheap variants by mutating a copy of that
//     descriptor and re-entering the library that owns it.
//   - A [RenderPipelineHandle] or [ComputePipelineHandle] binds shader stage
//     types to a pipeline at compile time and resolves it at most once,
//     caching the result (even a failed one) for per-frame use.
//
// # Handles and the render loop
//
// Allocate handles up front and keep them alive as long as possible; never
// construct one inside a frame workload. The first call to WaitAndGet blocks
// until the pipeline is ready, every later call returns the cached result
// immediately:
//
//	handle := pipeline.NewRenderPipelineHandle[BlendVertex, BlendFragment, BlendVaryings](ctx)
//	// ... later, per frame:
//	p := handle.WaitAndGet()
//	if p == nil || !p.IsValid() {
//		return // skip the draw
//	}
//
// The stage type parameters are checked at compile time: a fragment stage
// whose inputs cannot be satisfied by the vertex stage's outputs does not
// build. See [github.com/gogpu/pipeline/shader] for how stages declare their
// interstage types.
//
// # Variants
//
// A resolved pipeline can produce a modified sibling without rebuilding the
// descriptor from scratch:
//
//	fut := p.CreateVariant(false, func(d *pipeline.RenderPipelineDescriptor) {
//		d.Blend = nil
//	})
//	if fut.IsValid() {
//		opaque := fut.Get()
//	}
//
// Variants go through the library that created the original pipeline. The
// pipeline holds only a weak reference to its library; if the library has
// been closed, CreateVariant returns an invalid future rather than crashing.
//
// # Failure model
//
// No error crosses the asynchronous boundary. A request that could not be
// made (nil descriptor, closed library) yields a future whose IsValid
// reports false; a creation that failed in the backend resolves the future
// to a nil pipeline. Callers branch on IsValid before blocking and check the
// resolved pipeline before drawing.
//
// The [github.com/gogpu/pipeline/library] package provides a reference
// library implementation with descriptor deduplication and background
// compilation over wgpu/hal.
package pipeline
