// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "github.com/gogpu/damage"

// Filter is a post-processing effect attached to a node.
//
// Only the geometry matters for damage tracking: the filter's output region
// is ExpandBounds of the node's bounds, and a stale filter invalidates that
// whole region. Pixel processing is done elsewhere.
type Filter interface {
	// ExpandBounds returns the output bounds for the given input bounds:
	//   - blur expands by its radius in all directions
	//   - drop shadow extends toward its offset, plus its radius
	//   - color adjustments do not expand
	ExpandBounds(input damage.Rect) damage.Rect
}

// Blur is a filter whose output grows by Radius pixels on every side.
type Blur struct {
	Radius int
}

// ExpandBounds implements Filter.
func (b Blur) ExpandBounds(input damage.Rect) damage.Rect {
	if input.Empty() {
		return damage.Rect{}
	}
	return input.Inset(-b.Radius)
}

// DropShadow is a filter drawing a blurred copy offset by (DX, DY).
type DropShadow struct {
	DX, DY int
	Radius int
}

// ExpandBounds implements Filter.
func (s DropShadow) ExpandBounds(input damage.Rect) damage.Rect {
	if input.Empty() {
		return damage.Rect{}
	}
	shadow := input.Translate(s.DX, s.DY).Inset(-s.Radius)
	return input.Union(shadow)
}

// ColorAdjust is a per-pixel filter that doesn't change bounds.
// The zero value leaves colors unchanged.
type ColorAdjust struct {
	// Brightness is added to every channel, in [-1, 1].
	Brightness float64

	// Grayscale replaces colors by their luminance before Brightness.
	Grayscale bool
}

// ExpandBounds implements Filter.
func (ColorAdjust) ExpandBounds(input damage.Rect) damage.Rect {
	return input
}

// Chain applies filters in order; each expands the previous output.
type Chain []Filter

// ExpandBounds implements Filter.
func (c Chain) ExpandBounds(input damage.Rect) damage.Rect {
	out := input
	for _, f := range c {
		if f != nil {
			out = f.ExpandBounds(out)
		}
	}
	return out
}

// expand applies f to r, treating a nil filter as identity.
func expand(f Filter, r damage.Rect) damage.Rect {
	if f == nil || r.Empty() {
		return r
	}
	return f.ExpandBounds(r)
}
