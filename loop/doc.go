// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package loop drives the per-frame damage cycle.
//
// A Loop owns a scene root, a scene.Collector, a render.Painter, a frame
// buffer, and a surface.Surface. Each frame it runs queued tasks, collects
// the damage, repaints the damaged regions into the frame buffer, presents
// them, and clears the collector.
//
// The scene is confined to the goroutine calling Frame or Run. Other
// goroutines hand it work with Post:
//
//	l := loop.New(root, s)
//	go func() {
//	    for ev := range events {
//	        _ = l.Post(func() { apply(root, ev) })
//	    }
//	}()
//	err := l.Run(ctx, time.Second/60, nil)
package loop
