// Package viewport computes the virtualization window: which slice of a
// fixed-height row list must be materialized for a scroll position.
package viewport

import (
	"math"

	"github.com/vanderheijden86/dirtree/pkg/model"
)

// Params are the inputs to Compute.
type Params struct {
	Total          int     // N, number of rows
	RowHeight      float64 // H
	ViewportHeight float64 // C
	ScrollTop      float64 // S
	Overscan       int     // M, extra rows on each side
}

// DefaultParams returns the standard layout constants for total rows
// scrolled to scrollTop.
func DefaultParams(total int, scrollTop float64) Params {
	return Params{
		Total:          total,
		RowHeight:      model.ItemHeight,
		ViewportHeight: model.ContainerHeight,
		ScrollTop:      scrollTop,
		Overscan:       model.DefaultOverscan,
	}
}

// Window is the rendered slice [Start, End) of the row list, its offset
// from the top of the scroll content, and the full content height.
type Window struct {
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Offset      float64 `json:"offset"`
	TotalHeight float64 `json:"total_height"`
}

// Compute returns the window for p. It is O(1).
//
//	Start = max(0, floor(S/H) - M)
//	End   = min(N, ceil((S+C)/H) + M)
//
// Start never exceeds End, so a scroll past the content yields an empty
// window rather than an inverted one.
func Compute(p Params) Window {
	if p.RowHeight <= 0 || p.Total <= 0 {
		return Window{TotalHeight: model.ScrollBuffer}
	}
	start := int(math.Floor(p.ScrollTop/p.RowHeight)) - p.Overscan
	if start < 0 {
		start = 0
	}
	end := int(math.Ceil((p.ScrollTop+p.ViewportHeight)/p.RowHeight)) + p.Overscan
	if end > p.Total {
		end = p.Total
	}
	if end < 0 {
		end = 0
	}
	if start > end {
		start = end
	}
	return Window{
		Start:       start,
		End:         end,
		Offset:      float64(start) * p.RowHeight,
		TotalHeight: float64(p.Total)*p.RowHeight + model.ScrollBuffer,
	}
}

// Len returns the number of rows in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// Contains reports whether row index i is rendered.
func (w Window) Contains(i int) bool {
	return i >= w.Start && i < w.End
}

// Slice returns the rendered rows.
func Slice[T any](w Window, rows []T) []T {
	start, end := w.Start, w.End
	if end > len(rows) {
		end = len(rows)
	}
	if start > end {
		start = end
	}
	return rows[start:end]
}

// MaxScroll is the largest useful scroll offset for content of the given
// total height in a viewport of height c.
func MaxScroll(totalHeight, c float64) float64 {
	if m := totalHeight - c; m > 0 {
		return m
	}
	return 0
}

// ClampScroll keeps s within [0, MaxScroll].
func ClampScroll(s, totalHeight, c float64) float64 {
	if s < 0 {
		return 0
	}
	if m := MaxScroll(totalHeight, c); s > m {
		return m
	}
	return s
}

// ScrollToReveal returns the smallest change to scrollTop that brings row
// i fully into a viewport of height c.
func ScrollToReveal(scrollTop float64, i int, rowHeight, c float64) float64 {
	top := float64(i) * rowHeight
	bottom := top + rowHeight
	switch {
	case top < scrollTop:
		return top
	case bottom > scrollTop+c:
		return bottom - c
	}
	return scrollTop
}
