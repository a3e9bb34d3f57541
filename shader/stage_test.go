// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageVertex, "vertex"},
		{StageFragment, "fragment"},
		{StageCompute, "compute"},
		{Stage(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestCompatibleSlots(t *testing.T) {
	outputs := []Slot{
		{Name: "color", Location: 0, Format: gputypes.VertexFormatFloat32x4},
		{Name: "uv", Location: 1, Format: gputypes.VertexFormatFloat32x2},
	}

	tests := []struct {
		name   string
		inputs []Slot
		want   bool
	}{
		{
			name:   "no inputs",
			inputs: nil,
			want:   true,
		},
		{
			name: "exact match",
			inputs: []Slot{
				{Name: "color", Location: 0, Format: gputypes.VertexFormatFloat32x4},
				{Name: "uv", Location: 1, Format: gputypes.VertexFormatFloat32x2},
			},
			want: true,
		},
		{
			name: "subset",
			inputs: []Slot{
				{Name: "uv", Location: 1, Format: gputypes.VertexFormatFloat32x2},
			},
			want: true,
		},
		{
			name: "unknown name",
			inputs: []Slot{
				{Name: "normal", Location: 0, Format: gputypes.VertexFormatFloat32x4},
			},
			want: false,
		},
		{
			name: "location mismatch",
			inputs: []Slot{
				{Name: "color", Location: 2, Format: gputypes.VertexFormatFloat32x4},
			},
			want: false,
		},
		{
			name: "format mismatch",
			inputs: []Slot{
				{Name: "color", Location: 0, Format: gputypes.VertexFormatFloat32x2},
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompatibleSlots(outputs, tt.inputs); got != tt.want {
				t.Errorf("CompatibleSlots() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompatibleSlotsNoOutputs(t *testing.T) {
	inputs := []Slot{{Name: "color", Location: 0, Format: gputypes.VertexFormatFloat32x4}}
	if CompatibleSlots(nil, inputs) {
		t.Error("inputs cannot be satisfied by empty outputs")
	}
}

func TestFormatByteSize(t *testing.T) {
	tests := []struct {
		format gputypes.VertexFormat
		want   uint64
		ok     bool
	}{
		{gputypes.VertexFormatFloat32, 4, true},
		{gputypes.VertexFormatFloat32x2, 8, true},
		{gputypes.VertexFormatFloat32x3, 12, true},
		{gputypes.VertexFormatFloat32x4, 16, true},
		{gputypes.VertexFormat(255), 0, false},
	}
	for _, tt := range tests {
		got, ok := FormatByteSize(tt.format)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FormatByteSize(%v) = (%d, %v), want (%d, %v)", tt.format, got, ok, tt.want, tt.ok)
		}
	}
}
