// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render repaints the damaged parts of a scene.
//
// A Painter takes the Result of a scene.Collector and redraws only the
// damaged rectangles (or the whole frame on full redraw) into a
// draw.Image: each region is cleared to the background, then every
// visible leaf that intersects it is drawn, clipped to the region and to
// the leaf's clipping ancestors.
//
//	target := render.NewPixmapTarget(800, 600)
//	painter := render.NewPainter(color.White)
//
//	res, _ := collector.Collect(root)
//	if err := painter.Paint(target.Image(), root, res); err != nil {
//	    return err
//	}
//	collector.Clear()
//
// Filters are not rendered; they only contribute damage. Back-buffered
// groups are painted directly.
package render
