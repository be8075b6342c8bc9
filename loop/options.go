// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package loop

import (
	"image/color"

	"github.com/gogpu/damage"
)

// DefaultQueueSize is the capacity of the task queue.
const DefaultQueueSize = 256

type config struct {
	damage     []damage.Option
	background color.Color
	queueSize  int
	tileSize   int
}

// Option configures a Loop.
type Option func(*config)

// WithDamageOptions configures the damage merger of the collector.
func WithDamageOptions(opts ...damage.Option) Option {
	return func(c *config) {
		c.damage = append(c.damage, opts...)
	}
}

// WithBackground sets the color damaged regions are cleared to.
// Default: opaque black.
func WithBackground(bg color.Color) Option {
	return func(c *config) {
		c.background = bg
	}
}

// WithQueueSize sets the task queue capacity. Non-positive values keep the
// default.
func WithQueueSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithExposeTileSize sets the tile edge, in pixels, that exposed areas are
// rounded out to. Non-positive values use the tiles package default.
func WithExposeTileSize(px int) Option {
	return func(c *config) {
		c.tileSize = px
	}
}
