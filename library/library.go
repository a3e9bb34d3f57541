// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package library

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gogpu/pipeline"
	"github.com/gogpu/pipeline/internal/cache"
)

// Library configuration errors.
var (
	// ErrNilBackend is returned when creating a library without a backend.
	ErrNilBackend = errors.New("library: backend is nil")
)

// defaultWorkers is the number of background compilation goroutines when
// WithWorkers is not given.
const defaultWorkers = 2

// jobQueueDepth bounds how many compilations may be pending before request
// enqueueing blocks the caller.
const jobQueueDepth = 64

// Library owns pipeline creation. It deduplicates structurally equal
// descriptors onto one shared future, compiles on background workers, and
// releases everything it built on Close.
//
// Library is safe for concurrent use.
type Library struct {
	backend Backend
	log     *slog.Logger
	workers int

	renderRef  pipeline.LibraryRef[pipeline.RenderPipelineDescriptor]
	computeRef pipeline.LibraryRef[pipeline.ComputePipelineDescriptor]

	render  *cache.Cache[uint64, pipeline.RenderPipelineFuture]
	compute *cache.Cache[uint64, pipeline.ComputePipelineFuture]

	mu     sync.RWMutex // guards jobs against enqueue-after-close
	jobs   chan func()
	wg     sync.WaitGroup
	closed bool

	closeOnce sync.Once
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the library's logger. Defaults to the package-wide
// pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(lib *Library) {
		if l != nil {
			lib.log = l
		}
	}
}

// WithWorkers sets the number of background compilation goroutines. Zero
// disables background compilation: every request, including async ones,
// compiles synchronously on the calling goroutine.
func WithWorkers(n int) Option {
	return func(lib *Library) {
		if n >= 0 {
			lib.workers = n
		}
	}
}

// WithCapacity sets a soft limit on the number of cached pipelines per kind.
// Zero (the default) caches without limit.
func WithCapacity(n int) Option {
	return func(lib *Library) {
		lib.render = cache.New[uint64, pipeline.RenderPipelineFuture](n)
		lib.compute = cache.New[uint64, pipeline.ComputePipelineFuture](n)
	}
}

// New creates a library realizing pipelines through backend.
func New(backend Backend, opts ...Option) (*Library, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	lib := &Library{
		backend: backend,
		log:     pipeline.Logger(),
		workers: defaultWorkers,
		render:  cache.New[uint64, pipeline.RenderPipelineFuture](0),
		compute: cache.New[uint64, pipeline.ComputePipelineFuture](0),
	}
	for _, opt := range opts {
		opt(lib)
	}
	lib.renderRef = pipeline.NewLibraryRef[pipeline.RenderPipelineDescriptor](renderLibrary{lib})
	lib.computeRef = pipeline.NewLibraryRef[pipeline.ComputePipelineDescriptor](computeLibrary{lib})

	if lib.workers > 0 {
		lib.jobs = make(chan func(), jobQueueDepth)
		lib.wg.Add(lib.workers)
		for i := 0; i < lib.workers; i++ {
			go lib.worker()
		}
	}
	return lib, nil
}

// RenderPipelines returns the render-kind creation boundary, suitable for a
// Context implementation.
func (l *Library) RenderPipelines() pipeline.Library[pipeline.RenderPipelineDescriptor] {
	return renderLibrary{l}
}

// ComputePipelines returns the compute-kind creation boundary.
func (l *Library) ComputePipelines() pipeline.Library[pipeline.ComputePipelineDescriptor] {
	return computeLibrary{l}
}

// NewRenderPipeline requests a render pipeline for desc. Structurally equal
// descriptors share one future. With async=false the returned future is
// already resolved when this returns.
func (l *Library) NewRenderPipeline(desc pipeline.RenderPipelineDescriptor, async bool) pipeline.RenderPipelineFuture {
	key := hashRenderDescriptor(desc)
	var resolve func(*pipeline.RenderPipeline)
	fut, created := l.render.GetOrCreate(key, func() pipeline.RenderPipelineFuture {
		f, r := pipeline.NewFuture(desc)
		resolve = r
		return f
	})
	if !created {
		// Hash collisions fall back to an uncached, undeduplicated build.
		if cached, ok := fut.Descriptor(); !ok || !cached.Equal(desc) {
			l.log.Debug("library: descriptor hash collision", "label", desc.Label)
			f, r := pipeline.NewFuture(desc)
			l.buildRender(desc, r, async)
			return f
		}
		l.log.Debug("library: render pipeline request deduplicated", "label", desc.Label)
		if !async {
			fut.Get()
		}
		return fut
	}
	l.buildRender(desc, resolve, async)
	return fut
}

// NewComputePipeline requests a compute pipeline for desc; see
// NewRenderPipeline for the semantics.
func (l *Library) NewComputePipeline(desc pipeline.ComputePipelineDescriptor, async bool) pipeline.ComputePipelineFuture {
	key := hashComputeDescriptor(desc)
	var resolve func(*pipeline.ComputePipeline)
	fut, created := l.compute.GetOrCreate(key, func() pipeline.ComputePipelineFuture {
		f, r := pipeline.NewFuture(desc)
		resolve = r
		return f
	})
	if !created {
		if cached, ok := fut.Descriptor(); !ok || !cached.Equal(desc) {
			l.log.Debug("library: descriptor hash collision", "label", desc.Label)
			f, r := pipeline.NewFuture(desc)
			l.buildCompute(desc, r, async)
			return f
		}
		l.log.Debug("library: compute pipeline request deduplicated", "label", desc.Label)
		if !async {
			fut.Get()
		}
		return fut
	}
	l.buildCompute(desc, resolve, async)
	return fut
}

// Close expires every weak reference held by pipelines, drains the worker
// pool, and destroys all cached pipeline state. Pending compilations finish
// before Close returns; their results are destroyed with the rest. Safe to
// call multiple times.
func (l *Library) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		if l.jobs != nil {
			close(l.jobs)
		}
		l.mu.Unlock()

		l.wg.Wait()

		// Variants against surviving pipelines now fail gracefully.
		l.renderRef.Expire()
		l.computeRef.Expire()

		l.render.Each(func(f pipeline.RenderPipelineFuture) {
			destroyResolved(f.Get())
		})
		l.compute.Each(func(f pipeline.ComputePipelineFuture) {
			destroyResolved(f.Get())
		})
		l.render.Clear()
		l.compute.Clear()

		if d, ok := l.backend.(destroyer); ok {
			d.Destroy()
		}
		l.log.Debug("library: closed")
	})
}

// Stats reports cache hits and misses, summed over both pipeline kinds.
func (l *Library) Stats() (hits, misses uint64) {
	rh, rm := l.render.Stats()
	ch, cm := l.compute.Stats()
	return rh + ch, rm + cm
}

// HitRate returns the deduplication hit rate in [0, 1], or 0 before any
// request was made.
func (l *Library) HitRate() float64 {
	hits, misses := l.Stats()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// buildRender realizes desc and resolves the future, either inline or on a
// worker depending on the async hint and worker availability.
func (l *Library) buildRender(desc pipeline.RenderPipelineDescriptor, resolve func(*pipeline.RenderPipeline), async bool) {
	build := func() {
		state, err := l.backend.RealizeRender(desc)
		if err != nil {
			l.log.Warn("library: render pipeline creation failed", "label", desc.Label, "err", err)
			resolve(nil)
			return
		}
		resolve(pipeline.NewPipeline(l.renderRef, desc, state))
	}
	l.schedule(build, async)
}

func (l *Library) buildCompute(desc pipeline.ComputePipelineDescriptor, resolve func(*pipeline.ComputePipeline), async bool) {
	build := func() {
		state, err := l.backend.RealizeCompute(desc)
		if err != nil {
			l.log.Warn("library: compute pipeline creation failed", "label", desc.Label, "err", err)
			resolve(nil)
			return
		}
		resolve(pipeline.NewPipeline(l.computeRef, desc, state))
	}
	l.schedule(build, async)
}

// schedule runs build on a worker when async compilation was requested and
// workers exist; otherwise it runs build inline before returning. The async
// flag is a hint, not a guarantee.
func (l *Library) schedule(build func(), async bool) {
	if async && l.jobs != nil {
		l.mu.RLock()
		if !l.closed {
			l.jobs <- build
			l.mu.RUnlock()
			return
		}
		l.mu.RUnlock()
		// Closed while requesting: resolve inline so no waiter hangs.
	}
	build()
}

func (l *Library) worker() {
	defer l.wg.Done()
	for job := range l.jobs {
		job()
	}
}

// destroyResolved releases the backend state of a resolved pipeline.
func destroyResolved[D pipeline.Descriptor[D]](p *pipeline.Pipeline[D]) {
	if p == nil {
		return
	}
	if d, ok := p.State().(destroyer); ok {
		d.Destroy()
	}
}

// renderLibrary and computeLibrary adapt Library to the per-kind creation
// boundary pipelines re-enter for variants.
type renderLibrary struct{ l *Library }

func (r renderLibrary) NewPipeline(desc pipeline.RenderPipelineDescriptor, async bool) pipeline.RenderPipelineFuture {
	return r.l.NewRenderPipeline(desc, async)
}

type computeLibrary struct{ l *Library }

func (c computeLibrary) NewPipeline(desc pipeline.ComputePipelineDescriptor, async bool) pipeline.ComputePipelineFuture {
	return c.l.NewComputePipeline(desc, async)
}
