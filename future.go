package pipeline

import "sync"

// futureCell is the shared, single-assignment result slot behind a Future.
// Any number of Future values may point at one cell; resolution is
// idempotent and happens at most once.
type futureCell[D Descriptor[D]] struct {
	once sync.Once
	done chan struct{}
	p    *Pipeline[D]
}

// Future joins a descriptor snapshot with a shared asynchronous pipeline
// creation. Future is a small value; copies share the same underlying result
// and may be waited on independently from any goroutine.
//
// The zero value is an invalid future: no operation is in flight and Get
// must not be called. Requests that could not be made (nil descriptor,
// closed library) return this zero value.
type Future[D Descriptor[D]] struct {
	desc *D
	cell *futureCell[D]
}

// RenderPipelineFuture is a Future for a render pipeline.
type RenderPipelineFuture = Future[RenderPipelineDescriptor]

// ComputePipelineFuture is a Future for a compute pipeline.
type ComputePipelineFuture = Future[ComputePipelineDescriptor]

// NewFuture creates a pending future for the given descriptor, along with
// the function that resolves it. Resolving with nil signals creation
// failure. Resolve is idempotent: only the first call takes effect, and
// resolution happens-before every Get return.
func NewFuture[D Descriptor[D]](desc D) (Future[D], func(*Pipeline[D])) {
	cell := &futureCell[D]{done: make(chan struct{})}
	resolve := func(p *Pipeline[D]) {
		cell.once.Do(func() {
			cell.p = p
			close(cell.done)
		})
	}
	return Future[D]{desc: &desc, cell: cell}, resolve
}

// ResolvedFuture creates a future that is already resolved to p. Used by
// libraries that compiled synchronously or hit their cache.
func ResolvedFuture[D Descriptor[D]](desc D, p *Pipeline[D]) Future[D] {
	f, resolve := NewFuture(desc)
	resolve(p)
	return f
}

// IsValid reports whether an asynchronous creation is (or was) in flight.
// Get may only be called when IsValid reports true.
func (f Future[D]) IsValid() bool {
	return f.cell != nil
}

// Descriptor returns the descriptor snapshot captured when the request was
// made. ok is false when the request carried no descriptor.
func (f Future[D]) Descriptor() (D, bool) {
	if f.desc == nil {
		var zero D
		return zero, false
	}
	return *f.desc, true
}

// Get blocks until the creation resolves and returns the pipeline. All
// waiters observe the same pointer; nil signals that creation failed.
// If the future is already resolved, Get returns immediately.
//
// Calling Get on an invalid future is a programming error and panics.
// Check IsValid first.
func (f Future[D]) Get() *Pipeline[D] {
	if f.cell == nil {
		panic("pipeline: Get called on invalid Future")
	}
	<-f.cell.done
	return f.cell.p
}
