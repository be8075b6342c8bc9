// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tiles tracks externally reported damage on a tile grid.
package tiles

import (
	"math/bits"
	"sync/atomic"

	"github.com/gogpu/damage"
)

// DefaultTileSize is the tile edge in pixels.
const DefaultTileSize = 16

// Bitmap marks tiles of a frame dirty, one bit per tile.
//
// All methods are safe for concurrent use: goroutines mark tiles while the
// frame goroutine drains them.
type Bitmap struct {
	// words packs the tile bits; bit index = ty*cols + tx.
	words []atomic.Uint64

	frame      damage.Rect
	size       int
	cols, rows int
}

// New creates an empty bitmap covering frame with square tiles of the given
// size. A non-positive size uses DefaultTileSize.
func New(frame damage.Rect, size int) *Bitmap {
	if size <= 0 {
		size = DefaultTileSize
	}
	b := &Bitmap{frame: frame, size: size}
	if !frame.Empty() {
		b.cols = (frame.W + size - 1) / size
		b.rows = (frame.H + size - 1) / size
	}
	b.words = make([]atomic.Uint64, (b.cols*b.rows+63)/64)
	return b
}

// Frame returns the covered frame.
func (b *Bitmap) Frame() damage.Rect { return b.frame }

// TileSize returns the tile edge in pixels.
func (b *Bitmap) TileSize() int { return b.size }

// Tiles returns the grid dimensions.
func (b *Bitmap) Tiles() (cols, rows int) { return b.cols, b.rows }

// Mark marks tile (tx, ty). Out-of-range tiles are ignored.
func (b *Bitmap) Mark(tx, ty int) {
	if tx < 0 || tx >= b.cols || ty < 0 || ty >= b.rows {
		return
	}
	i := ty*b.cols + tx
	b.words[i/64].Or(1 << (i & 63))
}

// MarkRect marks every tile r touches.
func (b *Bitmap) MarkRect(r damage.Rect) {
	r = r.Intersect(b.frame)
	if r.Empty() {
		return
	}
	x0 := (r.X - b.frame.X) / b.size
	y0 := (r.Y - b.frame.Y) / b.size
	x1 := (r.Right() - 1 - b.frame.X) / b.size
	y1 := (r.Bottom() - 1 - b.frame.Y) / b.size
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			b.Mark(tx, ty)
		}
	}
}

// MarkAll marks every tile.
func (b *Bitmap) MarkAll() {
	n := b.cols * b.rows
	for i := range b.words {
		bitsLeft := n - i*64
		if bitsLeft >= 64 {
			b.words[i].Store(^uint64(0))
		} else {
			b.words[i].Store(1<<bitsLeft - 1)
		}
	}
}

// IsDirty reports whether tile (tx, ty) is marked.
func (b *Bitmap) IsDirty(tx, ty int) bool {
	if tx < 0 || tx >= b.cols || ty < 0 || ty >= b.rows {
		return false
	}
	i := ty*b.cols + tx
	return b.words[i/64].Load()&(1<<(i&63)) != 0
}

// IsEmpty reports whether no tile is marked.
func (b *Bitmap) IsEmpty() bool {
	for i := range b.words {
		if b.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of marked tiles.
func (b *Bitmap) Count() int {
	n := 0
	for i := range b.words {
		n += bits.OnesCount64(b.words[i].Load())
	}
	return n
}

// Drain clears the bitmap and appends the marked area to dst as one
// rectangle per horizontal run of tiles, clipped to the frame.
// Tiles marked concurrently with Drain are either returned or kept.
func (b *Bitmap) Drain(dst []damage.Rect) []damage.Rect {
	if len(b.words) == 0 {
		return dst
	}
	snap := make([]uint64, len(b.words))
	marked := false
	for i := range b.words {
		snap[i] = b.words[i].Swap(0)
		marked = marked || snap[i] != 0
	}
	if !marked {
		return dst
	}

	set := func(tx, ty int) bool {
		i := ty*b.cols + tx
		return snap[i/64]&(1<<(i&63)) != 0
	}
	for ty := 0; ty < b.rows; ty++ {
		for tx := 0; tx < b.cols; {
			if !set(tx, ty) {
				tx++
				continue
			}
			start := tx
			for tx < b.cols && set(tx, ty) {
				tx++
			}
			r := damage.XYWH(b.frame.X+start*b.size, b.frame.Y+ty*b.size, (tx-start)*b.size, b.size)
			dst = append(dst, r.Intersect(b.frame))
		}
	}
	return dst
}
