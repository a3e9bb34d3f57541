// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package library provides the reference pipeline library: the component
// that owns pipeline creation, deduplicates requests by descriptor, and
// schedules backend compilation on background workers.
//
// # Deduplication
//
// Pipeline creation is expensive, so structurally equal descriptors share
// one creation: the library hashes each descriptor and hands every caller
// the same [github.com/gogpu/pipeline.Future]. Many handles joining one
// creation is the normal case when a scene warms up.
//
// # Scheduling
//
// Requests with async=true are compiled on the library's worker goroutines
// and resolve whenever compilation finishes. Requests with async=false
// return an already-resolved future; if the same pipeline is already being
// compiled in the background, the caller waits for that compilation instead
// of starting another. A library configured with zero workers compiles
// everything synchronously, including async requests.
//
// # Backends
//
// The library realizes descriptors through a [Backend]. [HALBackend] runs
// on top of wgpu/hal and compiles WGSL stages to SPIR-V via naga; tests
// substitute their own.
//
// # Lifetime
//
// The library exclusively owns the pipelines it creates. Pipelines hold
// only weak references back: after [Library.Close], variant requests
// against surviving pipelines return invalid futures instead of reaching a
// dead library.
package library
