// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"errors"
	"fmt"

	"github.com/gogpu/damage"
)

// ErrFrameNotCleared is returned by Collect when the previous frame's
// result has not been released with Clear.
var ErrFrameNotCleared = errors.New("scene: previous frame not cleared")

// FrameState is the phase of the per-frame damage cycle.
type FrameState uint8

const (
	// StateCleared means the set is empty and a new frame may be collected.
	StateCleared FrameState = iota

	// StateCollecting means a tree walk is in progress.
	StateCollecting

	// StateReady means the result is available until Clear.
	StateReady
)

// String returns the state name.
func (s FrameState) String() string {
	switch s {
	case StateCleared:
		return "CLEARED"
	case StateCollecting:
		return "COLLECTING"
	case StateReady:
		return "READY"
	default:
		return fmt.Sprintf("FrameState(%d)", uint8(s))
	}
}

// Result is the damage of one frame.
type Result struct {
	// Frame is the frame bounds.
	Frame damage.Rect

	// Rects are the disjoint damaged regions. Nil when nothing changed or
	// when FullRedraw is set.
	Rects []damage.Rect

	// FullRedraw means the whole frame must be repainted.
	FullRedraw bool

	// StaleBuffers are the back-buffered groups whose offscreen content
	// must be re-rendered.
	StaleBuffers []*Node
}

// Regions returns the areas to repaint: the frame on full redraw,
// otherwise Rects.
func (r Result) Regions() []damage.Rect {
	if r.FullRedraw {
		if r.Frame.Empty() {
			return nil
		}
		return []damage.Rect{r.Frame}
	}
	return r.Rects
}

// Empty reports whether nothing needs to be repainted.
func (r Result) Empty() bool {
	return len(r.Regions()) == 0
}

// Area returns the number of pixels to repaint.
func (r Result) Area() int {
	a := 0
	for _, rr := range r.Regions() {
		a += rr.Area()
	}
	return a
}

// walkContext is what a node inherits from its ancestors.
type walkContext struct {
	// oldClip is the clip the node was presented under last frame.
	oldClip damage.Clip

	// newClip is the clip the node is presented under this frame.
	newClip damage.Clip

	// dirty forces the whole subtree to report its bounds.
	dirty bool
}

// hidden clips everything away. It is the context of hidden groups.
var hidden = damage.ClipTo(damage.Rect{})

// Collector turns scene changes into per-frame damage.
//
// Each frame goes CLEARED -> COLLECTING -> READY -> CLEARED: Collect walks
// the tree and returns the damage, Clear releases it. A Collector is not
// safe for concurrent use.
type Collector struct {
	merger  *damage.Merger
	state   FrameState
	frames  uint64
	changes int
	full    bool
	stale   []*Node
	pending []damage.Rect
}

// NewCollector creates a collector for a frame of the given bounds.
// The options configure the underlying damage.Merger.
// The first frame is a full redraw.
func NewCollector(frame damage.Rect, opts ...damage.Option) *Collector {
	return &Collector{
		merger: damage.NewMerger(frame, opts...),
		full:   true,
	}
}

// State returns the current frame phase.
func (c *Collector) State() FrameState { return c.state }

// Frame returns the frame bounds.
func (c *Collector) Frame() damage.Rect { return c.merger.Frame() }

// Frames returns the number of frames collected so far.
func (c *Collector) Frames() uint64 { return c.frames }

// Stats returns the merger statistics of the current frame.
func (c *Collector) Stats() damage.Stats { return c.merger.Stats() }

// Resize changes the frame bounds. The next frame is a full redraw.
func (c *Collector) Resize(frame damage.Rect) {
	c.merger.SetFrame(frame)
	c.full = true
}

// InvalidateAll makes the next frame a full redraw.
func (c *Collector) InvalidateAll() {
	c.full = true
}

// Invalidate damages r in the next collected frame regardless of scene
// changes. It is how damage from outside the tree, such as an exposed
// window area, enters the frame.
func (c *Collector) Invalidate(r damage.Rect) {
	if r.Empty() {
		return
	}
	c.pending = append(c.pending, r)
}

// Clear releases the current result and returns to StateCleared.
func (c *Collector) Clear() {
	c.merger.Reset()
	clear(c.stale)
	c.stale = c.stale[:0]
	c.state = StateCleared
}

// Collect walks root, integrates the damage of every change since the
// previous frame, and commits the nodes' state. It fails with
// ErrFrameNotCleared unless the collector is in StateCleared.
//
// Nodes are committed even when the set overflows, so the frame after a
// full redraw starts from an accurate baseline.
func (c *Collector) Collect(root *Node) (Result, error) {
	if c.state != StateCleared {
		return Result{}, fmt.Errorf("%w (state %s)", ErrFrameNotCleared, c.state)
	}
	c.state = StateCollecting
	c.frames++
	c.changes = 0

	if c.full {
		c.merger.Set().Overflow()
		c.full = false
	}
	for _, r := range c.pending {
		c.add(r, damage.NoClip)
	}
	c.pending = c.pending[:0]
	if root != nil {
		c.walk(root, walkContext{oldClip: damage.NoClip, newClip: damage.NoClip})
	}

	set := c.merger.Set()
	res := Result{
		Frame:      c.merger.Frame(),
		Rects:      set.Rects(),
		FullRedraw: set.IsOverflowed(),
	}
	if len(c.stale) > 0 {
		res.StaleBuffers = append([]*Node(nil), c.stale...)
	}
	c.state = StateReady

	st := c.merger.Stats()
	damage.Logger().Debug("scene: frame collected",
		"frame", c.frames,
		"regions", len(res.Rects),
		"area", res.Area(),
		"full", res.FullRedraw,
		"candidates", st.Candidates,
		"merged", st.Merged,
		"stale_buffers", len(res.StaleBuffers))
	return res, nil
}

// add integrates r under clip. Every non-empty r is counted as a change,
// even when clip hides it: filters and back buffers see unclipped content.
func (c *Collector) add(r damage.Rect, clip damage.Clip) {
	if r.Empty() {
		return
	}
	c.changes++
	if clip.Apply(r).Empty() {
		return
	}
	c.merger.AddDirtyRectangle(r, clip)
}

func (c *Collector) walk(n *Node, ctx walkContext) {
	switch n.kind {
	case KindLeaf:
		c.visitLeaf(n, ctx)
	case KindGroup:
		c.visitGroup(n, ctx)
	default:
		panic(fmt.Sprintf("scene: node %q has unknown kind %s", n.name, n.kind))
	}
}

func (c *Collector) visitLeaf(n *Node, ctx walkContext) {
	dirty := ctx.dirty || n.dirty
	mark := c.changes

	oldFilter := n.prevFilter
	old := n.prev
	changed := n.UpdateDirtyRect()
	cur := n.prev

	if changed || dirty {
		c.add(old, ctx.oldClip)
		c.add(cur, ctx.newClip)
	}
	c.visitFilter(n, ctx, old, cur, oldFilter, dirty, mark)
	n.dirty = false
}

func (c *Collector) visitGroup(n *Node, ctx walkContext) {
	committed := n.committed
	dirty := ctx.dirty || n.dirty
	if committed && (n.visible != n.prevVisible || n.clips != n.prevClips) {
		dirty = true
	}
	mark := c.changes

	child := walkContext{oldClip: damage.NoClip, dirty: dirty}
	switch {
	case !committed:
		// Children moved in from elsewhere were clipped by a context we
		// no longer know; the frame bounds are a safe superset.
	case !n.prevVisible:
		child.oldClip = hidden
	case n.prevClips:
		child.oldClip = ctx.oldClip.Intersect(n.prevClip)
	default:
		child.oldClip = ctx.oldClip
	}
	switch {
	case !n.visible:
		child.newClip = hidden
	case n.clips:
		child.newClip = ctx.newClip.Intersect(n.clip)
	default:
		child.newClip = ctx.newClip
	}

	for _, rm := range n.removed {
		for _, r := range rm.last {
			c.add(r, child.oldClip)
		}
	}
	clear(n.removed)
	n.removed = n.removed[:0]

	if committed && !dirty && n.visible && n.clips && n.clip != n.prevClip {
		c.clipDelta(n.prevClip, n.clip, ctx)
	}

	for _, ch := range n.children {
		c.walk(ch, child)
	}

	oldFilter := n.prevFilter
	old := n.prev
	n.UpdateDirtyRect()
	c.visitFilter(n, ctx, old, n.prev, oldFilter, dirty, mark)

	if n.backBuffer && (dirty || c.changes > mark) {
		c.stale = append(c.stale, n)
	}
	n.dirty = false
}

// clipDelta damages the area whose visibility changed because a group's
// clip moved from old to cur.
func (c *Collector) clipDelta(old, cur damage.Rect, ctx walkContext) {
	for _, r := range old.Sub(cur) {
		c.add(r, ctx.oldClip)
	}
	for _, r := range cur.Sub(old) {
		c.add(r, ctx.newClip)
	}
}

// visitFilter damages the output region of a node's filter whenever its
// input changed. The filter draws in the parent's clip context.
func (c *Collector) visitFilter(n *Node, ctx walkContext, old, cur damage.Rect, oldFilter Filter, dirty bool, mark int) {
	defer func() { n.filterDirty = false }()
	if n.filter == nil && oldFilter == nil {
		return
	}
	if !n.filterDirty && !dirty && c.changes == mark {
		return
	}
	c.add(expand(oldFilter, old), ctx.oldClip)
	c.add(expand(n.filter, cur), ctx.newClip)
}
