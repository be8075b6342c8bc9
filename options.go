// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package damage

import (
	"errors"
	"fmt"
)

// Default tuning values.
const (
	// DefaultMergeThreshold is the default amount of non-damaged area, in
	// pixels, a merge may absorb: a 32x32 block.
	DefaultMergeThreshold = 32 * 32

	// DefaultRestageThreshold only merges restaged pieces that fit exactly.
	DefaultRestageThreshold = 1

	// iterationsPerRegion scales the default worklist cap with capacity.
	iterationsPerRegion = 8
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("damage: invalid config")

// Config holds the tuning parameters of a Merger.
type Config struct {
	// Capacity is the maximum number of disjoint regions per frame.
	// Default: DefaultCapacity.
	Capacity int

	// MergeThreshold is the largest non-damaged area (pixels) a merge of a
	// candidate with an existing region may introduce. A merge happens when
	// the introduced area is strictly below the threshold, so 0 disables
	// merging. Larger values mean fewer rectangles and less CPU at the cost
	// of more redrawn pixels.
	MergeThreshold int

	// RestageThreshold is the merge threshold applied to pieces of regions
	// that were shrunk or split while integrating a candidate.
	RestageThreshold int

	// MaxIterations caps the number of worklist items processed for one
	// candidate. Reaching the cap overflows the set.
	// Default: 8 * Capacity.
	MaxIterations int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Capacity:         DefaultCapacity,
		MergeThreshold:   DefaultMergeThreshold,
		RestageThreshold: DefaultRestageThreshold,
		MaxIterations:    iterationsPerRegion * DefaultCapacity,
	}
}

// Validate reports configuration values that can't be used.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity %d must be positive", ErrInvalidConfig, c.Capacity)
	case c.MergeThreshold < 0:
		return fmt.Errorf("%w: merge threshold %d is negative", ErrInvalidConfig, c.MergeThreshold)
	case c.RestageThreshold < 0:
		return fmt.Errorf("%w: restage threshold %d is negative", ErrInvalidConfig, c.RestageThreshold)
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations %d must be positive", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

// normalize replaces unusable values with defaults.
func (c Config) normalize() Config {
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.MergeThreshold < 0 {
		c.MergeThreshold = 0
	}
	if c.RestageThreshold < 0 {
		c.RestageThreshold = 0
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = iterationsPerRegion * c.Capacity
	}
	return c
}

// Option configures a Merger during creation.
//
// Example:
//
//	m := damage.NewMerger(frame,
//	    damage.WithCapacity(32),
//	    damage.WithMergeThreshold(0),
//	)
type Option func(*Config)

// WithConfig replaces the whole configuration. Later options still apply.
func WithConfig(c Config) Option {
	return func(o *Config) {
		*o = c
	}
}

// WithCapacity sets the maximum number of regions per frame.
// When MaxIterations was not set explicitly it follows the capacity.
func WithCapacity(n int) Option {
	return func(o *Config) {
		if o.MaxIterations == iterationsPerRegion*o.Capacity {
			o.MaxIterations = iterationsPerRegion * n
		}
		o.Capacity = n
	}
}

// WithMergeThreshold sets the merge area threshold.
func WithMergeThreshold(area int) Option {
	return func(o *Config) {
		o.MergeThreshold = area
	}
}

// WithRestageThreshold sets the threshold used for restaged pieces.
func WithRestageThreshold(area int) Option {
	return func(o *Config) {
		o.RestageThreshold = area
	}
}

// WithMaxIterations sets the per-candidate worklist cap.
func WithMaxIterations(n int) Option {
	return func(o *Config) {
		o.MaxIterations = n
	}
}

// NewConfig applies opts to the default configuration.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}
