// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/damage"
)

// DrawOutlines strokes a one-pixel outline of every rectangle in color c.
// It is used to visualize damage.
func DrawOutlines(dst draw.Image, rects []damage.Rect, c color.Color) {
	src := image.NewUniform(c)
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		edges := [...]damage.Rect{
			damage.XYWH(r.X, r.Y, r.W, 1),
			damage.XYWH(r.X, r.Bottom()-1, r.W, 1),
			damage.XYWH(r.X, r.Y, 1, r.H),
			damage.XYWH(r.Right()-1, r.Y, 1, r.H),
		}
		for _, e := range edges {
			draw.Draw(dst, e.Image(), src, image.Point{}, draw.Over)
		}
	}
}
