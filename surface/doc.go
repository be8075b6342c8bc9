// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface presents painted frames to an output.
//
// A Surface receives the frame buffer together with the damaged
// rectangles and transfers only those rectangles:
//
//   - ImageSurface copies them into an in-memory *image.RGBA
//   - TerminalSurface updates the terminal cells they cover (tcell)
//
// # Opening a surface
//
// Open picks a backend from the Options: a tcell Screen selects the
// terminal, a size hint selects an offscreen image, and with neither the
// controlling terminal is used when $TERM names a real terminal.
// Options.Backend forces a backend by name.
//
//	s, err := surface.Open(surface.Options{Width: 320, Height: 200}) // image
//	s, err := surface.Open(surface.Options{Backend: "terminal"})
//
// Other backends register themselves with a priority and an accept func:
//
//	func init() {
//	    surface.Register("wayland", 100, openWayland, waylandUsable)
//	}
//
// Surfaces are not safe for concurrent use.
package surface
