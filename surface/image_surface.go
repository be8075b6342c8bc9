// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/damage"
)

// ImageSurface presents into an in-memory *image.RGBA.
//
// Example:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	_ = s.Present(frame, res.Regions())
//	img := s.Snapshot()
type ImageSurface struct {
	img    *image.RGBA
	stats  PresentStats
	rects  []damage.Rect
	closed bool
}

var _ ResizableSurface = (*ImageSurface)(nil)

// NewImageSurface creates a surface with the given dimensions.
// Non-positive dimensions are raised to 1.
func NewImageSurface(width, height int) *ImageSurface {
	width, height = max(width, 1), max(height, 1)
	return &ImageSurface{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewImageSurfaceFromImage creates a surface presenting into img directly.
func NewImageSurfaceFromImage(img *image.RGBA) *ImageSurface {
	return &ImageSurface{img: img}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	if s.img == nil {
		return 0
	}
	return s.img.Bounds().Dx()
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	if s.img == nil {
		return 0
	}
	return s.img.Bounds().Dy()
}

// Present copies the given rectangles of src into the surface image.
func (s *ImageSurface) Present(src image.Image, rects []damage.Rect) error {
	if s.closed {
		return ErrClosed
	}
	s.stats.Presents++
	s.rects = clipRects(s.rects[:0], rects, damage.FromImage(s.img.Bounds()))
	for _, r := range s.rects {
		ir := r.Image()
		draw.Copy(s.img, ir.Min, src, ir, draw.Src, nil)
		s.stats.Rects++
		s.stats.Pixels += r.Area()
	}
	return nil
}

// Resize replaces the surface image with a blank one of the new size.
func (s *ImageSurface) Resize(width, height int) error {
	if s.closed {
		return ErrClosed
	}
	width, height = max(width, 1), max(height, 1)
	if width == s.Width() && height == s.Height() {
		return nil
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Stats returns the accumulated presentation counters.
func (s *ImageSurface) Stats() PresentStats {
	return s.stats
}

// Snapshot returns a copy of the presented image, or nil once closed.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}
	b := s.img.Bounds()
	out := image.NewRGBA(b)
	draw.Copy(out, b.Min, s.img, b, draw.Src, nil)
	return out
}

// Image returns the underlying image. It is not a copy.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Close releases the image.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.img = nil
	return nil
}
