// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package damage

import (
	"fmt"
	"image"
)

// Rect is an axis-aligned, half-open screen rectangle with integer
// coordinates. It covers x in [X, X+W) and y in [Y, Y+H).
// A Rect with W <= 0 or H <= 0 is empty.
type Rect struct {
	X, Y int // Top-left corner
	W, H int // Width and height
}

// XYWH creates a Rect from position and size.
func XYWH(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// FromImage converts an image.Rectangle to a Rect.
func FromImage(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Image converts the Rect to an image.Rectangle.
// Empty rectangles map to the zero image.Rectangle.
func (r Rect) Image() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns the number of covered pixels, 0 for empty rectangles.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// Intersect returns the intersection of two rectangles.
// Returns the zero Rect if they don't overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())

	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Overlaps reports whether the two rectangles share at least one pixel.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Union returns the bounding box of both rectangles.
// Empty operands are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.Right(), o.Right())
	y1 := max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether pixel (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
// Every rectangle contains the empty rectangle.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() {
		return true
	}
	if r.Empty() {
		return false
	}
	return o.X >= r.X && o.Right() <= r.Right() && o.Y >= r.Y && o.Bottom() <= r.Bottom()
}

// Inset shrinks the rectangle by d on every side (grows it for negative d).
func (r Rect) Inset(d int) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Sub returns r minus o as at most four pairwise-disjoint rectangles:
// the band above o, the band below o, and the parts left and right of o
// between them. If the rectangles don't overlap, the result is r itself.
func (r Rect) Sub(o Rect) []Rect {
	return r.AppendSub(nil, o)
}

// AppendSub appends the pieces of r minus o to dst and returns the extended
// slice. See Sub.
func (r Rect) AppendSub(dst []Rect, o Rect) []Rect {
	if r.Empty() {
		return dst
	}
	if !r.Overlaps(o) {
		return append(dst, r)
	}

	top := max(r.Y, o.Y)
	bottom := min(r.Bottom(), o.Bottom())

	if r.Y < o.Y {
		dst = append(dst, Rect{X: r.X, Y: r.Y, W: r.W, H: o.Y - r.Y})
	}
	if r.Bottom() > o.Bottom() {
		dst = append(dst, Rect{X: r.X, Y: o.Bottom(), W: r.W, H: r.Bottom() - o.Bottom()})
	}
	if r.X < o.X {
		dst = append(dst, Rect{X: r.X, Y: top, W: o.X - r.X, H: bottom - top})
	}
	if r.Right() > o.Right() {
		dst = append(dst, Rect{X: o.Right(), Y: top, W: r.Right() - o.Right(), H: bottom - top})
	}
	return dst
}

// String returns a compact human-readable form, e.g. "(0,0 10x10)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}
