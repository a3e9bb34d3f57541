package pipeline

import "sync"

// Library is the boundary to the component that owns pipeline creation,
// caching, and background compilation. It is the only component allowed to
// construct pipelines.
//
// The async argument is a scheduling hint: true allows the library to return
// before backend compilation completes, false requires the returned future
// to already be resolved. A library without background compilation may
// ignore the hint and compile synchronously.
//
// The reference implementation lives in
// [github.com/gogpu/pipeline/library].
type Library[D Descriptor[D]] interface {
	// NewPipeline requests a pipeline for desc. The returned future is
	// invalid only if the library can no longer serve requests.
	NewPipeline(desc D, async bool) Future[D]
}

// libraryRefState is the shared slot behind LibraryRef copies. The owning
// library clears it on Close, after which every ref observes expiration.
type libraryRefState[D Descriptor[D]] struct {
	mu  sync.RWMutex
	lib Library[D]
}

// LibraryRef is a non-owning back-reference from a pipeline to the library
// that built it. The library owns its pipelines; a pipeline never keeps its
// library alive. Copies of a LibraryRef share one expirable slot.
//
// The zero value is an expired reference.
type LibraryRef[D Descriptor[D]] struct {
	state *libraryRefState[D]
}

// NewLibraryRef creates a live reference to lib. The owning library keeps
// the ref (or a copy) and calls Expire when it shuts down.
func NewLibraryRef[D Descriptor[D]](lib Library[D]) LibraryRef[D] {
	return LibraryRef[D]{state: &libraryRefState[D]{lib: lib}}
}

// Get returns the referenced library, or ok=false if the reference has
// expired.
func (r LibraryRef[D]) Get() (Library[D], bool) {
	if r.state == nil {
		return nil, false
	}
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	if r.state.lib == nil {
		return nil, false
	}
	return r.state.lib, true
}

// Expire marks the reference (and all copies sharing its slot) as expired.
// Called by the owning library on shutdown. Safe to call multiple times.
func (r LibraryRef[D]) Expire() {
	if r.state == nil {
		return
	}
	r.state.mu.Lock()
	r.state.lib = nil
	r.state.mu.Unlock()
}

// Expired reports whether the reference no longer resolves to a library.
func (r LibraryRef[D]) Expired() bool {
	_, ok := r.Get()
	return !ok
}
