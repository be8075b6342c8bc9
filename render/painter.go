// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/damage"
	"github.com/gogpu/damage/internal/cache"
	"github.com/gogpu/damage/scene"
)

// PaintStats describes the work done by the last Paint call.
type PaintStats struct {
	// Regions is the number of rectangles repainted.
	Regions int

	// Pixels is the number of pixels cleared to the background.
	Pixels int

	// Leaves is the number of leaf draws, counted once per region.
	Leaves int

	// Filters is the number of filtered nodes rendered offscreen.
	Filters int
}

// Painter repaints damaged regions of a scene.
// It is not safe for concurrent use.
type Painter struct {
	background *image.Uniform
	stats      PaintStats

	// filtered holds filter outputs of the current Paint call, so a node
	// spanning several regions is filtered once.
	filtered map[*scene.Node]*image.RGBA

	// kernels holds Gaussian kernels by blur radius.
	kernels *cache.Cache[int, []float32]
}

// NewPainter creates a painter clearing damaged regions to bg.
// A nil bg is transparent.
func NewPainter(bg color.Color) *Painter {
	if bg == nil {
		bg = color.Transparent
	}
	return &Painter{
		background: image.NewUniform(bg),
		filtered:   make(map[*scene.Node]*image.RGBA),
		kernels:    cache.New[int, []float32](kernelCacheSize),
	}
}

// Background returns the clear color.
func (p *Painter) Background() color.Color {
	return p.background.C
}

// SetBackground changes the clear color. The caller must invalidate the
// frame for the change to show everywhere.
func (p *Painter) SetBackground(bg color.Color) {
	if bg == nil {
		bg = color.Transparent
	}
	p.background = image.NewUniform(bg)
}

// Stats returns the statistics of the last Paint call.
func (p *Painter) Stats() PaintStats {
	return p.stats
}

// Paint repaints every region of res into dst. Pixels outside the regions
// are left untouched.
func (p *Painter) Paint(dst draw.Image, root *scene.Node, res scene.Result) error {
	p.stats = PaintStats{}
	defer clear(p.filtered)
	bounds := damage.FromImage(dst.Bounds())
	for _, r := range res.Regions() {
		r = r.Intersect(bounds)
		if r.Empty() {
			continue
		}
		p.stats.Regions++
		p.stats.Pixels += r.Area()

		draw.Draw(dst, r.Image(), p.background, image.Point{}, draw.Src)
		if root == nil {
			continue
		}
		if err := p.paint(dst, root, damage.ClipTo(r)); err != nil {
			return err
		}
	}
	return nil
}

// paint draws n and its descendants restricted to clip.
func (p *Painter) paint(dst draw.Image, n *scene.Node, clip damage.Clip) error {
	if !n.Visible() {
		return nil
	}
	if f := n.Filter(); f != nil {
		return p.paintFiltered(dst, n, f, clip)
	}
	return p.paintContent(dst, n, clip)
}

// paintFiltered renders n offscreen, filters it and composites the part of
// the output inside clip. Only the node's own clip applies to the filter
// input; ancestors clip the output.
func (p *Painter) paintFiltered(dst draw.Image, n *scene.Node, f scene.Filter, clip damage.Clip) error {
	out := f.ExpandBounds(n.Bounds())
	area := clip.Apply(out)
	if area.Empty() {
		return nil
	}
	img, ok := p.filtered[n]
	if !ok {
		src := image.NewRGBA(out.Image())
		if err := p.paintContent(src, n, damage.NoClip); err != nil {
			return err
		}
		img = p.applyFilter(f, src)
		p.filtered[n] = img
		p.stats.Filters++
	}
	draw.Draw(dst, area.Image(), img, area.Image().Min, draw.Over)
	return nil
}

func (p *Painter) paintContent(dst draw.Image, n *scene.Node, clip damage.Clip) error {
	switch n.Kind() {
	case scene.KindLeaf:
		area := clip.Apply(n.Bounds())
		if area.Empty() {
			return nil
		}
		p.stats.Leaves++
		if n.IsLabel() {
			return p.drawLabel(dst, n, area)
		}
		draw.Draw(dst, area.Image(), image.NewUniform(n.Color()), image.Point{}, draw.Over)
	case scene.KindGroup:
		if r, ok := n.Clip(); ok {
			clip = clip.Intersect(r)
			if cr, _ := clip.Rect(); cr.Empty() {
				return nil
			}
		}
		for _, c := range n.Children() {
			if err := p.paint(dst, c, clip); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("render: node %q has unknown kind %s", n.Name(), n.Kind())
	}
	return nil
}

func (p *Painter) drawLabel(dst draw.Image, n *scene.Node, area damage.Rect) error {
	m := n.Measurer()
	if m == nil {
		return nil
	}
	sub := &clipped{Image: dst, r: area.Image()}
	if err := m.Draw(sub, n.Text(), n.TextSize(), n.Bounds().X, n.Baseline(), n.Color()); err != nil {
		return fmt.Errorf("render: draw label %q: %w", n.Name(), err)
	}
	return nil
}

// clipped restricts drawing into an image to a rectangle.
type clipped struct {
	draw.Image
	r image.Rectangle
}

func (c *clipped) Bounds() image.Rectangle {
	return c.r.Intersect(c.Image.Bounds())
}

func (c *clipped) Set(x, y int, col color.Color) {
	if (image.Point{X: x, Y: y}).In(c.r) {
		c.Image.Set(x, y, col)
	}
}
