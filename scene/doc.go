// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene holds the retained node tree and the per-frame damage
// collector.
//
// A Node is either a leaf (a filled rectangle or a text label) or a group
// of children. Groups may clip their descendants, carry a post-processing
// filter, or render through a back buffer.
//
// Once per frame a Collector walks the tree, turns every change since the
// previous frame into candidate rectangles, and integrates them with a
// damage.Merger:
//
//	c := scene.NewCollector(damage.XYWH(0, 0, 800, 600))
//	res, err := c.Collect(root) // COLLECTING -> READY
//	if err != nil {
//	    return err
//	}
//	for _, r := range res.Regions() {
//	    // repaint r
//	}
//	c.Clear() // READY -> CLEARED
//
// Nodes and the Collector are confined to the frame-processing goroutine.
// Other goroutines must hand mutations to that goroutine (see package loop).
package scene
