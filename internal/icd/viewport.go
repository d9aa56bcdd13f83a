// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package icd

import "github.com/clinera/clinera/internal/platform/constants"

// # Viewport Geometry

// Geometry holds the fixed dimensions of a virtualized result list.
type Geometry struct {
	// RowHeight is the pixel height of one result row.
	RowHeight int
	// VisibleRows is how many rows fit in the viewport.
	VisibleRows int
	// BufferRows is how many extra rows are materialized above and below the
	// viewport to avoid visible popping during fast scroll.
	BufferRows int
}

// DefaultGeometry matches the diagnosis picker's fixed layout.
var DefaultGeometry = Geometry{
	RowHeight:   constants.RowHeight,
	VisibleRows: constants.VisibleRows,
	BufferRows:  constants.BufferRows,
}

// Window is the materialized slice [Start, End) of a result list, plus the
// spacer heights that preserve the full-height scroll track so scrollbar
// behavior matches an unvirtualized list.
type Window struct {
	Start     int
	End       int
	TopPad    int
	BottomPad int
}

// Window computes the slice to materialize for a scroll offset over a result
// list of the given total length. Recomputed on every scroll event. Offsets
// outside the scroll track are clamped, so the slice bounds and spacer sum
// stay consistent for any input.
func (geometry Geometry) Window(offset, total int) Window {
	if total <= 0 {
		return Window{}
	}

	firstVisible := geometry.ClampOffset(offset, total) / geometry.RowHeight

	start := firstVisible - geometry.BufferRows
	if start < 0 {
		start = 0
	}

	end := firstVisible + geometry.VisibleRows + geometry.BufferRows
	if end > total {
		end = total
	}

	return Window{
		Start:     start,
		End:       end,
		TopPad:    start * geometry.RowHeight,
		BottomPad: (total - end) * geometry.RowHeight,
	}
}

// MaxOffset returns the largest meaningful scroll offset for a list of the
// given total length.
func (geometry Geometry) MaxOffset(total int) int {
	max := (total - geometry.VisibleRows) * geometry.RowHeight
	if max < 0 {
		return 0
	}
	return max
}

// ClampOffset bounds a scroll offset to the valid range for the list.
func (geometry Geometry) ClampOffset(offset, total int) int {
	if offset < 0 {
		return 0
	}
	if max := geometry.MaxOffset(total); offset > max {
		return max
	}
	return offset
}
