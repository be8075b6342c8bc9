// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package damage

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if c.Capacity != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c.Capacity, DefaultCapacity)
	}
	if c.MergeThreshold != DefaultMergeThreshold {
		t.Errorf("MergeThreshold = %d, want %d", c.MergeThreshold, DefaultMergeThreshold)
	}
	if c.MaxIterations != 8*DefaultCapacity {
		t.Errorf("MaxIterations = %d, want %d", c.MaxIterations, 8*DefaultCapacity)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"zero threshold", func(c *Config) { c.MergeThreshold = 0 }, false},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, true},
		{"negative threshold", func(c *Config) { c.MergeThreshold = -1 }, true},
		{"negative restage", func(c *Config) { c.RestageThreshold = -1 }, true},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	c := NewConfig(
		WithCapacity(16),
		WithMergeThreshold(10),
		WithRestageThreshold(0),
		nil,
	)
	if c.Capacity != 16 || c.MergeThreshold != 10 || c.RestageThreshold != 0 {
		t.Errorf("NewConfig() = %+v", c)
	}
	if c.MaxIterations != 8*16 {
		t.Errorf("MaxIterations = %d, want it to follow capacity (%d)", c.MaxIterations, 8*16)
	}

	c = NewConfig(WithMaxIterations(5), WithCapacity(16))
	if c.MaxIterations != 5 {
		t.Errorf("explicit MaxIterations overridden: %d", c.MaxIterations)
	}

	c = NewConfig(WithConfig(Config{Capacity: 3}), WithMergeThreshold(7))
	if c.Capacity != 3 || c.MergeThreshold != 7 {
		t.Errorf("WithConfig() = %+v", c)
	}
}

func TestNewMergerNormalizesConfig(t *testing.T) {
	m := NewMerger(XYWH(0, 0, 10, 10), WithConfig(Config{Capacity: -1, MergeThreshold: -5}))
	c := m.Config()
	if err := c.Validate(); err != nil {
		t.Fatalf("normalized config invalid: %v", err)
	}
	if c.Capacity != DefaultCapacity || c.MergeThreshold != 0 {
		t.Errorf("normalized = %+v", c)
	}
	if m.Set().Cap() != DefaultCapacity {
		t.Errorf("Set().Cap() = %d, want %d", m.Set().Cap(), DefaultCapacity)
	}
}
