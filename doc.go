// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package damage tracks the screen regions that changed between two frames
// of a retained 2D scene so that only those regions are repainted.
//
// # Overview
//
// A frame's damage is a small set of pairwise-disjoint integer rectangles
// held in a [RegionSet]. Candidate rectangles (the old and new bounds of
// changed scene nodes) are integrated one at a time by a [Merger], which
// keeps the set disjoint by merging, shrinking, or splitting regions. When
// the changes become too fragmented to track, the set overflows and the
// frame falls back to a full redraw.
//
//	m := damage.NewMerger(damage.XYWH(0, 0, 800, 600),
//	    damage.WithCapacity(64),
//	    damage.WithMergeThreshold(1024),
//	)
//	m.AddDirtyRectangle(damage.XYWH(10, 10, 40, 40), damage.NoClip)
//	m.AddDirtyRectangle(damage.XYWH(30, 30, 40, 40), damage.NoClip)
//
//	set := m.Set()
//	if set.IsOverflowed() {
//	    // redraw the whole frame
//	}
//	for _, r := range set.Rects() {
//	    // redraw r
//	}
//	m.Reset()
//
// # Merge threshold
//
// The merge threshold is the largest amount of non-damaged area (in pixels)
// that may be absorbed when two regions are merged into their bounding box.
// Larger values produce fewer rectangles and less merge work at the expense
// of more redrawn pixels. A threshold of zero never merges.
//
// # Architecture
//
//   - damage: Rect, Clip, RegionSet, Merger (this package)
//   - scene: node tree and the per-frame damage collector
//   - render: repaints damaged regions of a scene
//   - surface: presents damaged regions to an image or terminal
//   - loop: frame loop (collect, paint, present, clear)
//
// # Coordinate System
//
// Rectangles are screen-space and half-open: Rect{X, Y, W, H} covers the
// pixels x in [X, X+W) and y in [Y, Y+H). Origin is top-left, Y grows down.
//
// # Concurrency
//
// A Merger and its RegionSet are confined to the frame-processing
// goroutine. Only [SetLogger] and [Logger] are safe for concurrent use.
package damage
