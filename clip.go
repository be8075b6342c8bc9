// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package damage

// Clip is the clip context imposed by the nearest clipping ancestors of a
// scene node. The zero value (NoClip) does not restrict anything.
//
// Clip is an immutable value: nested clips are built with Intersect and
// passed down a traversal, never shared by pointer.
type Clip struct {
	rect   Rect
	active bool
}

// NoClip is the unrestricted clip context.
var NoClip = Clip{}

// ClipTo returns a clip context restricting damage to r.
func ClipTo(r Rect) Clip {
	return Clip{rect: r, active: true}
}

// Active reports whether the clip restricts anything.
func (c Clip) Active() bool {
	return c.active
}

// Rect returns the clip rectangle and whether the clip is active.
func (c Clip) Rect() (Rect, bool) {
	return c.rect, c.active
}

// Intersect returns the clip context of a descendant whose own clip is r.
func (c Clip) Intersect(r Rect) Clip {
	if !c.active {
		return ClipTo(r)
	}
	return ClipTo(c.rect.Intersect(r))
}

// Apply clips r to the context. NoClip returns r unchanged.
func (c Clip) Apply(r Rect) Rect {
	if !c.active {
		return r
	}
	return r.Intersect(c.rect)
}
