// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package damage

// DefaultCapacity is the default maximum number of regions tracked per frame.
// Past this many disjoint regions the frame falls back to a full redraw.
const DefaultCapacity = 64

// RegionSet is a bounded collection of pairwise-disjoint damage rectangles
// with an overflow sentinel.
//
// RegionSet itself does not check for overlap; Merger is responsible for
// only adding rectangles that are disjoint from the existing ones.
//
// Once overflowed, the set holds no rectangles and every mutation except
// Clear is a no-op. The backing array is allocated once and reused across
// frames.
type RegionSet struct {
	rects      []Rect
	overflowed bool
}

// NewRegionSet creates an empty set holding at most capacity rectangles.
// A non-positive capacity selects DefaultCapacity.
func NewRegionSet(capacity int) *RegionSet {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RegionSet{
		rects: make([]Rect, 0, capacity),
	}
}

// Add appends r if capacity remains. Adding to a full set overflows it.
// Empty rectangles are silently dropped.
func (s *RegionSet) Add(r Rect) {
	if s.overflowed || r.Empty() {
		return
	}
	if len(s.rects) == cap(s.rects) {
		s.Overflow()
		return
	}
	s.rects = append(s.rects, r)
}

// Remove deletes the rectangle at index i by swapping in the last one.
// Order is not preserved. Out-of-range indices are ignored.
func (s *RegionSet) Remove(i int) {
	n := len(s.rects)
	if i < 0 || i >= n {
		return
	}
	s.rects[i] = s.rects[n-1]
	s.rects = s.rects[:n-1]
}

// Overflow abandons precise tracking until the next Clear.
func (s *RegionSet) Overflow() {
	s.overflowed = true
	s.rects = s.rects[:0]
}

// IsOverflowed reports whether the set has overflowed since the last Clear.
func (s *RegionSet) IsOverflowed() bool {
	return s.overflowed
}

// Clear empties the set and resets the overflow flag.
func (s *RegionSet) Clear() {
	s.rects = s.rects[:0]
	s.overflowed = false
}

// Len returns the number of tracked rectangles.
func (s *RegionSet) Len() int {
	return len(s.rects)
}

// Cap returns the maximum number of rectangles.
func (s *RegionSet) Cap() int {
	return cap(s.rects)
}

// At returns the rectangle at index i.
func (s *RegionSet) At(i int) Rect {
	return s.rects[i]
}

// Rects returns a copy of the tracked rectangles.
// Returns nil when the set is empty or overflowed.
func (s *RegionSet) Rects() []Rect {
	if len(s.rects) == 0 {
		return nil
	}
	out := make([]Rect, len(s.rects))
	copy(out, s.rects)
	return out
}

// Area returns the total number of pixels covered. Because regions are
// disjoint this is the plain sum of their areas.
func (s *RegionSet) Area() int {
	total := 0
	for _, r := range s.rects {
		total += r.Area()
	}
	return total
}

// Bounds returns the bounding box of all regions.
func (s *RegionSet) Bounds() Rect {
	var b Rect
	for _, r := range s.rects {
		b = b.Union(r)
	}
	return b
}

// Covers reports whether pixel (x, y) lies inside any region.
func (s *RegionSet) Covers(x, y int) bool {
	for _, r := range s.rects {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}
