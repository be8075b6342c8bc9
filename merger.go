// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package damage

import "math/bits"

// crossing is a 4-bit code of the candidate boundary lines a region
// extends past.
type crossing uint8

const (
	crossLeft crossing = 1 << iota
	crossRight
	crossTop
	crossBottom
)

// crossings returns which of c's four edges r extends past.
// r and c must overlap.
func crossings(r, c Rect) crossing {
	var code crossing
	if r.X < c.X {
		code |= crossLeft
	}
	if r.Right() > c.Right() {
		code |= crossRight
	}
	if r.Y < c.Y {
		code |= crossTop
	}
	if r.Bottom() > c.Bottom() {
		code |= crossBottom
	}
	return code
}

// trim returns the part of c that r does not cover when r extends past
// exactly three of c's edges. The result lies on c's uncrossed side.
func trim(c, r Rect, code crossing) Rect {
	switch {
	case code&crossRight == 0:
		return Rect{X: r.Right(), Y: c.Y, W: c.Right() - r.Right(), H: c.H}
	case code&crossLeft == 0:
		return Rect{X: c.X, Y: c.Y, W: r.X - c.X, H: c.H}
	case code&crossBottom == 0:
		return Rect{X: c.X, Y: r.Bottom(), W: c.W, H: c.Bottom() - r.Bottom()}
	default:
		return Rect{X: c.X, Y: c.Y, W: c.W, H: r.Y - c.Y}
	}
}

// Stats counts what a Merger did since the last Reset.
type Stats struct {
	Candidates int  // AddDirtyRectangle calls before overflow
	Dropped    int  // candidates empty after clipping
	Covered    int  // candidates or pieces already covered by the set
	Merged     int  // regions absorbed into a bounding-box merge
	Removed    int  // regions lying inside a candidate
	Shrunk     int  // regions cut back to one remaining piece
	Split      int  // regions cut into two remaining pieces
	Trimmed    int  // candidates cut back by a covering region
	Restaged   int  // pieces pushed back through integration
	Overflowed bool // precise tracking abandoned
}

// pending is a worklist item: a rectangle waiting to be integrated with
// the merge threshold that applies to it.
type pending struct {
	rect      Rect
	threshold int
}

// Merger integrates candidate rectangles into a RegionSet while keeping the
// regions pairwise disjoint and the absorbed non-damaged area bounded.
//
// After every AddDirtyRectangle call that doesn't overflow:
//   - no two regions of the set overlap
//   - every pixel of the clipped candidate is covered by some region
//
// Merger is not safe for concurrent use. All scratch storage belongs to the
// Merger and is reused between calls.
type Merger struct {
	frame Rect
	cfg   Config
	set   *RegionSet
	stats Stats

	work   []pending
	pieces []Rect
	cover  [2][]Rect
}

// NewMerger creates a merger for a frame of the given bounds.
// Candidates are clipped to the frame; an empty frame drops everything.
// Invalid option values are replaced by defaults.
func NewMerger(frame Rect, opts ...Option) *Merger {
	cfg := NewConfig(opts...).normalize()
	return &Merger{
		frame:  frame,
		cfg:    cfg,
		set:    NewRegionSet(cfg.Capacity),
		work:   make([]pending, 0, 8),
		pieces: make([]Rect, 0, 4),
	}
}

// Frame returns the frame bounds candidates are clipped to.
func (m *Merger) Frame() Rect {
	return m.frame
}

// SetFrame changes the frame bounds, e.g. after a resize.
// The current set is left untouched.
func (m *Merger) SetFrame(frame Rect) {
	m.frame = frame
}

// Config returns the effective configuration.
func (m *Merger) Config() Config {
	return m.cfg
}

// Set returns the region set the merger writes to.
// The set must be treated as read-only by callers.
func (m *Merger) Set() *RegionSet {
	return m.set
}

// Stats returns counters accumulated since the last Reset.
func (m *Merger) Stats() Stats {
	s := m.stats
	s.Overflowed = m.set.IsOverflowed()
	return s
}

// Reset clears the set, the overflow flag, and the statistics.
func (m *Merger) Reset() {
	m.set.Clear()
	m.stats = Stats{}
	m.work = m.work[:0]
}

// AddDirtyRectangle integrates candidate r into the set.
//
// r is clipped to the frame and to clip; empty results are dropped. If r is
// already covered by the set nothing changes, so adding the same candidate
// twice is the same as adding it once. Once the set has overflowed the call
// is a no-op.
func (m *Merger) AddDirtyRectangle(r Rect, clip Clip) {
	if m.set.IsOverflowed() {
		return
	}
	m.stats.Candidates++

	r = clip.Apply(r.Intersect(m.frame))
	if r.Empty() {
		m.stats.Dropped++
		return
	}
	if m.covered(r) {
		m.stats.Covered++
		return
	}

	m.work = append(m.work[:0], pending{rect: r, threshold: m.cfg.MergeThreshold})
	for n := 0; len(m.work) > 0; n++ {
		if n == m.cfg.MaxIterations {
			m.overflow("iteration cap reached")
			return
		}
		p := m.work[len(m.work)-1]
		m.work = m.work[:len(m.work)-1]

		m.integrate(p.rect, p.threshold)
		if m.set.IsOverflowed() {
			m.work = m.work[:0]
			return
		}
	}
}

// integrate resolves c against every region of the set and inserts what is
// left of it. Pieces of regions cut by c are pushed onto the worklist.
func (m *Merger) integrate(c Rect, threshold int) {
	s := m.set
	for i := 0; i < len(s.rects); {
		r := s.rects[i]
		if r.ContainsRect(c) {
			m.stats.Covered++
			return
		}

		inter := r.Intersect(c)
		u := r.Union(c)
		extra := u.Area() + inter.Area() - r.Area() - c.Area()
		if extra < threshold {
			// The union may now reach regions already scanned.
			s.Remove(i)
			c = u
			m.stats.Merged++
			i = 0
			continue
		}
		if inter.Empty() {
			i++
			continue
		}

		code := crossings(r, c)
		switch bits.OnesCount8(uint8(code)) {
		case 0:
			s.Remove(i)
			m.stats.Removed++
		case 1, 2:
			s.Remove(i)
			m.restage(r, c)
		case 3:
			c = trim(c, r, code)
			if c.Empty() {
				m.stats.Covered++
				return
			}
			m.stats.Trimmed++
			i++
		default:
			m.stats.Covered++
			return
		}
	}

	if len(s.rects) == cap(s.rects) {
		m.overflow("capacity exceeded")
		return
	}
	s.Add(c)
}

// restage pushes the pieces of r outside c onto the worklist.
func (m *Merger) restage(r, c Rect) {
	m.pieces = r.AppendSub(m.pieces[:0], c)
	if len(m.pieces) == 1 {
		m.stats.Shrunk++
	} else {
		m.stats.Split++
	}
	for _, p := range m.pieces {
		m.work = append(m.work, pending{rect: p, threshold: m.cfg.RestageThreshold})
		m.stats.Restaged++
	}
}

// covered reports whether the union of the set's regions contains c.
// It gives up (returns false) once c has been cut into too many pieces.
func (m *Merger) covered(c Rect) bool {
	if len(m.set.rects) == 0 {
		return false
	}
	limit := 4 * m.cfg.Capacity

	rest := append(m.cover[0][:0], c)
	next := m.cover[1][:0]
	defer func() { m.cover[0], m.cover[1] = rest, next }()

	for _, r := range m.set.rects {
		next = next[:0]
		for _, p := range rest {
			next = p.AppendSub(next, r)
		}
		rest, next = next, rest
		if len(rest) == 0 {
			return true
		}
		if len(rest) > limit {
			return false
		}
	}
	return false
}

// overflow abandons precise tracking for the rest of the frame.
func (m *Merger) overflow(reason string) {
	m.set.Overflow()
	m.work = m.work[:0]
	Logger().Warn("damage: region overflow, falling back to full redraw",
		"reason", reason,
		"capacity", m.cfg.Capacity,
		"candidates", m.stats.Candidates)
}
