// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/damage"
)

// halfBlock is drawn in every cell: the foreground paints the upper pixel
// and the background the lower one.
const halfBlock = '▀'

// TerminalSurface presents into a terminal through tcell.
//
// Every cell shows two vertically stacked pixels, so a screen of C columns
// and R rows is a C x 2R pixel surface. Only the cells covered by the
// presented rectangles are rewritten before Show.
type TerminalSurface struct {
	screen tcell.Screen
	owned  bool
	stats  PresentStats
	rects  []damage.Rect
	closed bool
}

var _ Surface = (*TerminalSurface)(nil)

// NewTerminalSurface wraps an initialized screen. The caller keeps
// ownership: Close does not finalize it.
func NewTerminalSurface(screen tcell.Screen) *TerminalSurface {
	return &TerminalSurface{screen: screen}
}

// openTerminal creates a surface on the controlling terminal.
func openTerminal() (*TerminalSurface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("surface: open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("surface: init terminal: %w", err)
	}
	return &TerminalSurface{screen: screen, owned: true}, nil
}

// Screen returns the underlying tcell screen, e.g. for polling events.
func (s *TerminalSurface) Screen() tcell.Screen {
	return s.screen
}

// Width returns the number of columns.
func (s *TerminalSurface) Width() int {
	w, _ := s.screen.Size()
	return w
}

// Height returns twice the number of rows.
func (s *TerminalSurface) Height() int {
	_, h := s.screen.Size()
	return 2 * h
}

// Present rewrites the cells covering rects from src and shows them.
func (s *TerminalSurface) Present(src image.Image, rects []damage.Rect) error {
	if s.closed {
		return ErrClosed
	}
	s.stats.Presents++
	s.rects = clipRects(s.rects[:0], rects, Bounds(s))
	if len(s.rects) == 0 {
		return nil
	}

	sb := src.Bounds()
	for _, r := range s.rects {
		// Cells are two pixels high; round the row range outward.
		for row := r.Y / 2; row < (r.Bottom()+1)/2; row++ {
			for x := r.X; x < r.Right(); x++ {
				top := sample(src, sb, x, 2*row)
				bottom := sample(src, sb, x, 2*row+1)
				style := tcell.StyleDefault.Foreground(top).Background(bottom)
				s.screen.SetContent(x, row, halfBlock, nil, style)
			}
		}
		s.stats.Rects++
		s.stats.Pixels += r.Area()
	}
	s.screen.Show()
	return nil
}

// Stats returns the accumulated presentation counters.
func (s *TerminalSurface) Stats() PresentStats {
	return s.stats
}

// Close finalizes the screen if the surface opened it.
func (s *TerminalSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.owned {
		s.screen.Fini()
	}
	return nil
}

// sample returns the terminal color of pixel (x, y), black outside b.
func sample(src image.Image, b image.Rectangle, x, y int) tcell.Color {
	if !(image.Point{X: x, Y: y}).In(b) {
		return tcell.ColorBlack
	}
	c := color.RGBAModel.Convert(src.At(x, y)).(color.RGBA)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
