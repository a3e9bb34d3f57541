// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package library

import "github.com/gogpu/pipeline"

// Backend realizes descriptors into device-native pipeline state. A backend
// returns an error when realization fails outright; it may also return a
// state whose IsValid reports false for partial failures the device API
// does not surface as errors.
//
// Backends must be safe for concurrent use: the library calls them from
// multiple worker goroutines.
type Backend interface {
	// RealizeRender builds the device state for a render pipeline.
	RealizeRender(desc pipeline.RenderPipelineDescriptor) (pipeline.BackendState, error)

	// RealizeCompute builds the device state for a compute pipeline.
	RealizeCompute(desc pipeline.ComputePipelineDescriptor) (pipeline.BackendState, error)
}

// destroyer is implemented by backend state (and backends) that hold device
// resources needing explicit release. The library calls Destroy on
// everything it cached when it closes.
type destroyer interface {
	Destroy()
}
