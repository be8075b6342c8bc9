// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/gogpu/damage"
	"github.com/gogpu/damage/text"
)

// Kind tags the variant of a Node.
type Kind uint8

const (
	// KindLeaf is a drawable node without children.
	KindLeaf Kind = iota

	// KindGroup is a container of child nodes.
	KindGroup
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindGroup:
		return "Group"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// label is the text content of a leaf.
type label struct {
	text     string
	size     float64
	ascent   int
	measurer *text.Measurer
}

// removal is a child removed from a group together with the screen area it
// covered when it was last presented.
type removal struct {
	node *Node
	last []damage.Rect
}

// Node is an element of the scene tree: a leaf (filled rectangle or text
// label) or a group.
//
// Every mutator marks the node dirty; the Collector turns dirty nodes into
// damage on the next frame and then commits their state. Bounds are screen
// space; transforms are applied by whoever positions the nodes.
//
// Node is not safe for concurrent use.
type Node struct {
	kind Kind
	name string

	// Leaf geometry and paint.
	bounds damage.Rect
	color  color.RGBA
	label  *label

	visible     bool
	dirty       bool
	filter      Filter
	filterDirty bool

	// State as of the last frame, committed by UpdateDirtyRect.
	committed   bool
	prev        damage.Rect
	prevVisible bool
	prevFilter  Filter
	prevClips   bool
	prevClip    damage.Rect

	// Group state.
	children   []*Node
	removed    []removal
	clips      bool
	clip       damage.Rect
	backBuffer bool
}

// NewLeaf creates a rectangle filled with c.
func NewLeaf(name string, bounds damage.Rect, c color.Color) *Node {
	return &Node{
		kind:    KindLeaf,
		name:    name,
		bounds:  bounds,
		color:   toRGBA(c),
		visible: true,
		dirty:   true,
	}
}

// NewLabel creates a text leaf whose top-left corner is (x, y).
// Its bounds are the measured extents of s.
func NewLabel(name string, x, y int, s string, size float64, c color.Color, m *text.Measurer) (*Node, error) {
	n := NewLeaf(name, damage.XYWH(x, y, 0, 0), c)
	n.label = &label{size: size, measurer: m}
	if err := n.SetText(s); err != nil {
		return nil, err
	}
	return n, nil
}

// NewGroup creates a group containing children, drawn in order.
func NewGroup(name string, children ...*Node) *Node {
	n := &Node{
		kind:    KindGroup,
		name:    name,
		visible: true,
		dirty:   true,
	}
	n.Add(children...)
	return n
}

// NewClipGroup creates a group that clips its descendants to clip.
func NewClipGroup(name string, clip damage.Rect, children ...*Node) *Node {
	n := NewGroup(name, children...)
	n.clips = true
	n.clip = clip
	return n
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Visible reports whether the node is drawn.
func (n *Node) Visible() bool { return n.visible }

// Color returns the fill or text color of a leaf.
func (n *Node) Color() color.RGBA { return n.color }

// IsLabel reports whether the node is a text leaf.
func (n *Node) IsLabel() bool { return n.label != nil }

// Text returns the label text, or "" for other nodes.
func (n *Node) Text() string {
	if n.label == nil {
		return ""
	}
	return n.label.text
}

// TextSize returns the label font size, or 0 for other nodes.
func (n *Node) TextSize() float64 {
	if n.label == nil {
		return 0
	}
	return n.label.size
}

// Baseline returns the y coordinate of a label's baseline.
func (n *Node) Baseline() int {
	if n.label == nil {
		return n.bounds.Bottom()
	}
	return n.bounds.Y + n.label.ascent
}

// Measurer returns the measurer a label was created with.
func (n *Node) Measurer() *text.Measurer {
	if n.label == nil {
		return nil
	}
	return n.label.measurer
}

// Bounds returns the current on-screen bounds, ignoring ancestors.
// For a group this is the union of its visible children; hidden nodes have
// empty bounds.
func (n *Node) Bounds() damage.Rect {
	if !n.visible {
		return damage.Rect{}
	}
	if n.kind == KindLeaf {
		return n.bounds
	}
	var b damage.Rect
	for _, c := range n.children {
		b = b.Union(c.Bounds())
	}
	return b
}

// Children returns the children of a group in draw order.
// The returned slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Clip returns the clip rectangle of a group and whether it clips.
func (n *Node) Clip() (damage.Rect, bool) { return n.clip, n.clips }

// Find returns the first node named name in depth-first order.
func (n *Node) Find(name string) *Node {
	if n.name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// =============================================================================
// Collector contract
// =============================================================================

// IsDirty reports whether the node was changed since the last frame.
func (n *Node) IsDirty() bool { return n.dirty }

// DirtyRect returns the bounds committed by the last UpdateDirtyRect, i.e.
// what was on screen in the previous frame.
func (n *Node) DirtyRect() damage.Rect { return n.prev }

// UpdateDirtyRect recomputes the node's bounds, commits them (and the
// visibility, filter and clip that go with them) as the new DirtyRect, and
// reports whether they changed. A group's bounds are the union of its
// children's committed bounds, so children must be updated first.
func (n *Node) UpdateDirtyRect() bool {
	var cur damage.Rect
	if n.visible {
		switch n.kind {
		case KindLeaf:
			cur = n.bounds
		case KindGroup:
			for _, c := range n.children {
				cur = cur.Union(c.prev)
			}
		}
	}
	changed := cur != n.prev
	n.prev = cur
	n.prevVisible = n.visible
	n.prevFilter = n.filter
	n.prevClips = n.clips
	n.prevClip = n.clip
	n.committed = true
	return changed
}

// HasBackBuffer reports whether the group renders through an offscreen
// buffer.
func (n *Node) HasBackBuffer() bool { return n.backBuffer }

// Filter returns the node's post-processing filter, or nil.
func (n *Node) Filter() Filter { return n.filter }

// RemovedNodes returns the children removed since the last frame.
func (n *Node) RemovedNodes() []*Node {
	out := make([]*Node, len(n.removed))
	for i, r := range n.removed {
		out[i] = r.node
	}
	return out
}

// =============================================================================
// Mutators
// =============================================================================

// MarkDirty forces the node and its whole subtree to be redrawn.
func (n *Node) MarkDirty() { n.dirty = true }

// MarkFilterDirty marks the filter output stale, e.g. after an animated
// filter parameter changed.
func (n *Node) MarkFilterDirty() { n.filterDirty = true }

// SetFilter attaches a filter (nil removes it).
func (n *Node) SetFilter(f Filter) {
	n.filter = f
	n.filterDirty = true
}

// SetBackBuffer enables or disables offscreen rendering of a group.
func (n *Node) SetBackBuffer(enabled bool) {
	if n.backBuffer != enabled {
		n.backBuffer = enabled
		n.dirty = true
	}
}

// SetVisible shows or hides the node.
func (n *Node) SetVisible(v bool) {
	if n.visible != v {
		n.visible = v
		n.dirty = true
	}
}

// SetColor changes a leaf's color.
func (n *Node) SetColor(c color.Color) {
	if rgba := toRGBA(c); rgba != n.color {
		n.color = rgba
		n.dirty = true
	}
}

// SetBounds moves and resizes a leaf. Groups ignore it.
func (n *Node) SetBounds(r damage.Rect) {
	if n.kind != KindLeaf || r == n.bounds {
		return
	}
	n.bounds = r
	n.dirty = true
}

// Move translates a leaf, or every leaf and clip of a group.
func (n *Node) Move(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	switch n.kind {
	case KindLeaf:
		n.SetBounds(n.bounds.Translate(dx, dy))
	case KindGroup:
		if n.clips {
			n.clip = n.clip.Translate(dx, dy)
		}
		for _, c := range n.children {
			c.Move(dx, dy)
		}
	}
}

// SetText replaces a label's text and re-measures its bounds.
func (n *Node) SetText(s string) error {
	if n.label == nil {
		return fmt.Errorf("scene: node %q is not a label", n.name)
	}
	if n.label.measurer == nil {
		return fmt.Errorf("scene: label %q has no measurer", n.name)
	}
	ext, err := n.label.measurer.Measure(s, n.label.size)
	if err != nil {
		return fmt.Errorf("scene: measure label %q: %w", n.name, err)
	}
	n.label.text = s
	n.label.ascent = ext.Ascent
	n.bounds = damage.XYWH(n.bounds.X, n.bounds.Y, ext.Width, ext.Height())
	n.dirty = true
	return nil
}

// SetClip makes a group clip its descendants to r.
func (n *Node) SetClip(r damage.Rect) {
	if n.kind != KindGroup {
		return
	}
	n.clips = true
	n.clip = r
}

// ClearClip stops a group from clipping.
func (n *Node) ClearClip() {
	n.clips = false
	n.clip = damage.Rect{}
}

// Add appends children to a group. Leaves ignore it.
func (n *Node) Add(children ...*Node) {
	if n.kind != KindGroup {
		return
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		c.dirty = true
		n.children = append(n.children, c)
	}
}

// Remove detaches child from a group and remembers what it covered on
// screen so the next frame repaints it. Reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	n.removed = append(n.removed, removal{node: child, last: child.lastKnown(nil)})
	return true
}

// lastKnown appends the screen area the subtree covered in the last frame.
func (n *Node) lastKnown(dst []damage.Rect) []damage.Rect {
	if !n.committed || !n.prevVisible {
		return dst
	}
	switch n.kind {
	case KindLeaf:
		if !n.prev.Empty() {
			dst = append(dst, n.prev)
		}
	case KindGroup:
		start := len(dst)
		for _, c := range n.children {
			dst = c.lastKnown(dst)
		}
		for _, r := range n.removed {
			dst = append(dst, r.last...)
		}
		if n.prevClips {
			for i := start; i < len(dst); i++ {
				dst[i] = dst[i].Intersect(n.prevClip)
			}
		}
	}
	if n.prevFilter != nil && !n.prev.Empty() {
		dst = append(dst, expand(n.prevFilter, n.prev))
	}
	return dst
}

// toRGBA converts c to 8-bit RGBA.
func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
