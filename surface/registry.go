// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/damage"
)

// Factory creates a Surface for opts.
type Factory func(opts Options) (Surface, error)

// Accept reports whether a backend can serve opts. A nil Accept accepts
// everything.
type Accept func(opts Options) bool

// BackendError reports why a named backend did not produce a surface.
// It unwraps to ErrNotFound, ErrUnavailable or the factory's error.
type BackendError struct {
	Name string
	Err  error
}

func (e *BackendError) Error() string {
	return "surface: backend " + e.Name + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error { return e.Err }

type backend struct {
	name     string
	priority int
	open     Factory
	accept   Accept
}

func (b backend) accepts(opts Options) bool {
	return b.accept == nil || b.accept(opts)
}

// Registry picks a surface backend for a set of Options.
// The zero value is empty and ready to use.
type Registry struct {
	mu sync.RWMutex

	// backends is ordered by priority, highest first, then by name.
	backends []backend
}

var defaultRegistry Registry

// Register adds a backend to the default registry. Registering an existing
// name replaces it.
func Register(name string, priority int, open Factory, accept Accept) {
	defaultRegistry.Register(name, priority, open, accept)
}

// Open creates a surface from the default registry.
func Open(opts Options) (Surface, error) {
	return defaultRegistry.Open(opts)
}

// Register adds a backend. Registering an existing name replaces it.
func (r *Registry) Register(name string, priority int, open Factory, accept Accept) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backends = slices.DeleteFunc(r.backends, func(b backend) bool { return b.name == name })
	r.backends = append(r.backends, backend{name: name, priority: priority, open: open, accept: accept})
	slices.SortStableFunc(r.backends, func(a, b backend) int {
		if a.priority != b.priority {
			return b.priority - a.priority
		}
		return strings.Compare(a.name, b.name)
	})
}

// Open creates a surface.
//
// With opts.Backend set only that backend is tried. Otherwise every
// backend that accepts opts is tried in priority order, and a
// failing factory falls through to the next one.
func (r *Registry) Open(opts Options) (Surface, error) {
	r.mu.RLock()
	backends := slices.Clone(r.backends)
	r.mu.RUnlock()

	if opts.Backend != "" {
		i := slices.IndexFunc(backends, func(b backend) bool { return b.name == opts.Backend })
		if i < 0 {
			return nil, &BackendError{Name: opts.Backend, Err: ErrNotFound}
		}
		if !backends[i].accepts(opts) {
			return nil, &BackendError{Name: opts.Backend, Err: ErrUnavailable}
		}
		return backends[i].create(opts)
	}

	var errs []error
	for _, b := range backends {
		if !b.accepts(opts) {
			continue
		}
		s, err := b.create(opts)
		if err == nil {
			return s, nil
		}
		damage.Logger().Debug("surface: backend unusable, trying next", "backend", b.name, "err", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrNoBackend
	}
	return nil, errors.Join(errs...)
}

func (b backend) create(opts Options) (Surface, error) {
	s, err := b.open(opts)
	if err != nil {
		return nil, &BackendError{Name: b.name, Err: err}
	}
	damage.Logger().Debug("surface: opened", "backend", b.name, "width", s.Width(), "height", s.Height())
	return s, nil
}

func init() {
	Register("terminal", 20, func(opts Options) (Surface, error) {
		if opts.Screen != nil {
			return NewTerminalSurface(opts.Screen), nil
		}
		return openTerminal()
	}, func(opts Options) bool {
		return opts.Screen != nil || (!opts.sized() && terminalUsable())
	})
	Register("image", 10, func(opts Options) (Surface, error) {
		return NewImageSurface(opts.Width, opts.Height), nil
	}, Options.sized)
}
