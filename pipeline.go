package pipeline

// BackendState is the device-native realization of a pipeline, produced by
// a library backend. Implementations report whether realization succeeded;
// rendering code reaches the underlying device objects by type-asserting
// the state it knows its backend produces.
type BackendState interface {
	// IsValid reports whether the backend realization succeeded. A pipeline
	// whose state is invalid must not be bound for drawing or dispatch.
	IsValid() bool
}

// Pipeline is one realized GPU pipeline: the programmable and fixed-function
// state that commands bind before drawing or dispatching.
//
// A pipeline must be allocated upfront and kept alive for as long as
// possible; do not create one within a frame workload. Pipelines are created
// only by a [Library], shared by pointer, and never copied: each instance is
// a unique identity tied to one backend resource. Duplication goes through
// CreateVariant or the library's own deduplication, never object copy.
type Pipeline[D Descriptor[D]] struct {
	library LibraryRef[D]
	desc    D
	state   BackendState
}

// RenderPipeline is a realized render pipeline.
type RenderPipeline = Pipeline[RenderPipelineDescriptor]

// ComputePipeline is a realized compute pipeline.
type ComputePipeline = Pipeline[ComputePipelineDescriptor]

// NewPipeline wraps a backend realization into a pipeline. Only libraries
// call this; library is the weak back-reference variants travel through,
// and a nil state marks a pipeline that failed realization.
func NewPipeline[D Descriptor[D]](library LibraryRef[D], desc D, state BackendState) *Pipeline[D] {
	return &Pipeline[D]{
		library: library,
		desc:    desc,
		state:   state,
	}
}

// Descriptor returns the descriptor that was responsible for creating this
// pipeline. It never changes after construction. Copy it (via Clone) before
// mutating; CreateVariant does this for you.
func (p *Pipeline[D]) Descriptor() D {
	return p.desc
}

// IsValid reports whether backend realization succeeded. Construction can
// partially fail without an error surfacing here, so query this before use.
func (p *Pipeline[D]) IsValid() bool {
	return p.state != nil && p.state.IsValid()
}

// State returns the backend realization, or nil if realization failed.
func (p *Pipeline[D]) State() BackendState {
	return p.state
}

// CreateVariant copies this pipeline's descriptor, applies mutate to the
// copy, and requests a new pipeline from the library that built this one.
// The original pipeline and its descriptor are unchanged; a variant is
// always a new pipeline.
//
// async is a scheduling hint: false requires the returned future to already
// be resolved, true allows the library to compile in the background.
//
// If the library has been closed, CreateVariant returns an invalid future;
// callers must check IsValid before calling Get.
func (p *Pipeline[D]) CreateVariant(async bool, mutate func(*D)) Future[D] {
	lib, ok := p.library.Get()
	if !ok {
		Logger().Warn("pipeline: variant requested after library was closed")
		return Future[D]{}
	}
	desc := p.desc.Clone()
	if mutate != nil {
		mutate(&desc)
	}
	return lib.NewPipeline(desc, async)
}
