// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/gogpu/naga"
)

// ErrEmptySource is returned when compiling a module with no WGSL source.
var ErrEmptySource = errors.New("shader: source is empty")

// Module is a single WGSL shader module. A module may contain several entry
// points (vertex and fragment stages commonly share one module).
//
// Modules are immutable after creation and safe for concurrent use. The
// SPIR-V translation is performed lazily on first Compile and cached for
// the lifetime of the module.
type Module struct {
	label    string
	source   string
	codeHash uint64

	once  sync.Once
	spirv []uint32
	err   error
}

// NewModule creates a module from WGSL source. The label is used for debug
// names on device objects and in log output.
func NewModule(label, source string) *Module {
	h := fnv.New64a()
	_, _ = h.Write([]byte(source))
	return &Module{
		label:    label,
		source:   source,
		codeHash: h.Sum64(),
	}
}

// Label returns the module's debug label.
func (m *Module) Label() string { return m.label }

// Source returns the WGSL source text.
func (m *Module) Source() string { return m.source }

// CodeHash returns an FNV-1a hash of the WGSL source. Two modules with equal
// code hashes are interchangeable for pipeline deduplication.
func (m *Module) CodeHash() uint64 { return m.codeHash }

// Compile translates the WGSL source to SPIR-V words. The translation runs
// once; subsequent calls return the cached result (or the cached error).
func (m *Module) Compile() ([]uint32, error) {
	m.once.Do(func() {
		if m.source == "" {
			m.err = ErrEmptySource
			return
		}
		spirvBytes, err := naga.Compile(m.source)
		if err != nil {
			m.err = fmt.Errorf("shader: compile %q: %w", m.label, err)
			return
		}
		// SPIR-V is little-endian 32-bit words.
		words := make([]uint32, len(spirvBytes)/4)
		for i := range words {
			words[i] = uint32(spirvBytes[i*4]) |
				uint32(spirvBytes[i*4+1])<<8 |
				uint32(spirvBytes[i*4+2])<<16 |
				uint32(spirvBytes[i*4+3])<<24
		}
		m.spirv = words
	})
	return m.spirv, m.err
}
