// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"os"

	"github.com/gdamore/tcell/v2"
)

// Options describes the surface to open.
//
// A Screen selects the terminal. A size hint (Width and Height both
// positive) asks for an offscreen surface of that size. With neither, the
// controlling terminal is used if there is one.
type Options struct {
	// Backend names the backend to use. Empty picks one from the other
	// fields.
	Backend string

	// Width is the surface width in pixels.
	Width int

	// Height is the surface height in pixels.
	Height int

	// Screen is the terminal screen used by the terminal backend.
	// When nil, the backend opens the controlling terminal.
	Screen tcell.Screen
}

// sized reports whether opts carries a size hint.
func (o Options) sized() bool {
	return o.Width > 0 && o.Height > 0
}

// terminalUsable reports whether the controlling terminal can draw cells.
func terminalUsable() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
