// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"

	"github.com/gogpu/damage"
)

var (
	// ErrClosed is returned by operations on a closed surface.
	ErrClosed = errors.New("surface: closed")

	// ErrNotFound is matched by errors for unregistered backend names.
	ErrNotFound = errors.New("surface: backend not found")

	// ErrUnavailable is matched by errors for a backend that cannot serve
	// the requested Options.
	ErrUnavailable = errors.New("surface: backend unavailable")

	// ErrNoBackend is returned by Open when no backend accepts the Options.
	ErrNoBackend = errors.New("surface: no backend for options")
)

// Surface is an output that frames are presented to.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Present transfers the given rectangles of src to the output.
	// Pixels outside rects keep what was presented before. Rectangles are
	// clipped to the surface bounds.
	Present(src image.Image, rects []damage.Rect) error

	// Close releases the output. Close is idempotent.
	Close() error
}

// ResizableSurface is implemented by surfaces that can change size.
type ResizableSurface interface {
	Surface

	// Resize changes the surface dimensions. Contents are undefined
	// until the next full present.
	Resize(width, height int) error
}

// PresentStats counts what a surface has presented.
type PresentStats struct {
	// Presents is the number of Present calls.
	Presents int

	// Rects is the number of non-empty rectangles transferred.
	Rects int

	// Pixels is the number of pixels transferred.
	Pixels int
}

// Bounds returns the surface rectangle anchored at the origin.
func Bounds(s Surface) damage.Rect {
	return damage.XYWH(0, 0, s.Width(), s.Height())
}

// clipRects appends the non-empty parts of rects inside bounds.
func clipRects(dst, rects []damage.Rect, bounds damage.Rect) []damage.Rect {
	for _, r := range rects {
		if r = r.Intersect(bounds); !r.Empty() {
			dst = append(dst, r)
		}
	}
	return dst
}
