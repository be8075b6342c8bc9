// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package loop

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/damage"
	"github.com/gogpu/damage/internal/tiles"
	"github.com/gogpu/damage/render"
	"github.com/gogpu/damage/scene"
	"github.com/gogpu/damage/surface"
)

var (
	// ErrClosed is returned by Post and Frame after Close.
	ErrClosed = errors.New("loop: closed")

	// ErrQueueFull is returned by Post when the task queue is full.
	ErrQueueFull = errors.New("loop: task queue full")
)

// FrameStats describes one frame.
type FrameStats struct {
	// Frame is the frame number, starting at 1.
	Frame uint64

	// Tasks is the number of posted tasks run before collecting.
	Tasks int

	// Exposed is the number of exposed areas integrated into the frame.
	Exposed int

	// Regions are the repainted rectangles.
	Regions []damage.Rect

	// Area is the number of repainted pixels.
	Area int

	// FullRedraw reports whether the frame fell back to a full redraw.
	FullRedraw bool

	// StaleBuffers is the number of back-buffered groups to re-render.
	StaleBuffers int

	// Duration is the wall time of the frame.
	Duration time.Duration
}

// Loop runs the collect, paint, present, clear cycle.
type Loop struct {
	root      *scene.Node
	collector *scene.Collector
	painter   *render.Painter
	target    *render.PixmapTarget
	surface   surface.Surface
	exposed   atomic.Pointer[tiles.Bitmap]
	scratch   []damage.Rect

	mu     sync.Mutex
	closed bool
	tasks  chan func()
}

// New creates a loop presenting root to s. The frame is the size of s.
func New(root *scene.Node, s surface.Surface, opts ...Option) *Loop {
	cfg := config{
		background: color.Black,
		queueSize:  DefaultQueueSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	w, h := s.Width(), s.Height()
	l := &Loop{
		root:      root,
		collector: scene.NewCollector(damage.XYWH(0, 0, w, h), cfg.damage...),
		painter:   render.NewPainter(cfg.background),
		target:    render.NewPixmapTarget(w, h),
		surface:   s,
		tasks:     make(chan func(), cfg.queueSize),
	}
	l.exposed.Store(tiles.New(damage.XYWH(0, 0, w, h), cfg.tileSize))
	return l
}

// Root returns the scene root.
func (l *Loop) Root() *scene.Node { return l.root }

// Collector returns the damage collector.
func (l *Loop) Collector() *scene.Collector { return l.collector }

// Target returns the frame buffer.
func (l *Loop) Target() *render.PixmapTarget { return l.target }

// Surface returns the output surface.
func (l *Loop) Surface() surface.Surface { return l.surface }

// Post queues fn to run on the loop goroutine before the next frame is
// collected. It never blocks.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	select {
	case l.tasks <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// Expose reports that r of the surface lost its content and must be
// repainted next frame. It is safe to call from any goroutine and is
// rounded out to whole tiles.
func (l *Loop) Expose(r damage.Rect) {
	l.exposed.Load().MarkRect(r)
}

// Close stops accepting tasks. Queued tasks are dropped. The surface is
// not closed.
func (l *Loop) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	for {
		select {
		case <-l.tasks:
		default:
			return nil
		}
	}
}

func (l *Loop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// drain runs the queued tasks and returns how many ran.
func (l *Loop) drain() int {
	n := 0
	for {
		select {
		case fn := <-l.tasks:
			if fn != nil {
				fn()
			}
			n++
		default:
			return n
		}
	}
}

// syncSize follows surface size changes.
func (l *Loop) syncSize() {
	w, h := l.surface.Width(), l.surface.Height()
	if w == l.target.Width() && h == l.target.Height() {
		return
	}
	damage.Logger().Info("loop: surface resized", "width", w, "height", h)
	frame := damage.XYWH(0, 0, w, h)
	l.target.Resize(w, h)
	l.collector.Resize(frame)
	// Pending exposes are covered by the full redraw.
	l.exposed.Store(tiles.New(frame, l.exposed.Load().TileSize()))
}

// integrateExposed moves exposed tiles into the collector.
func (l *Loop) integrateExposed() int {
	l.scratch = l.exposed.Load().Drain(l.scratch[:0])
	for _, r := range l.scratch {
		l.collector.Invalidate(r)
	}
	return len(l.scratch)
}

// Frame runs one frame.
func (l *Loop) Frame(ctx context.Context) (FrameStats, error) {
	if err := ctx.Err(); err != nil {
		return FrameStats{}, err
	}
	if l.isClosed() {
		return FrameStats{}, ErrClosed
	}
	start := time.Now()

	tasks := l.drain()
	l.syncSize()
	exposed := l.integrateExposed()

	res, err := l.collector.Collect(l.root)
	if err != nil {
		return FrameStats{}, err
	}
	defer l.collector.Clear()

	if err := l.painter.Paint(l.target.Image(), l.root, res); err != nil {
		return FrameStats{}, fmt.Errorf("loop: paint: %w", err)
	}
	regions := res.Regions()
	if len(regions) > 0 {
		if err := l.surface.Present(l.target.Image(), regions); err != nil {
			return FrameStats{}, fmt.Errorf("loop: present: %w", err)
		}
	}

	st := FrameStats{
		Frame:        l.collector.Frames(),
		Tasks:        tasks,
		Exposed:      exposed,
		Regions:      append([]damage.Rect(nil), regions...),
		Area:         res.Area(),
		FullRedraw:   res.FullRedraw,
		StaleBuffers: len(res.StaleBuffers),
		Duration:     time.Since(start),
	}
	damage.Logger().Debug("loop: frame presented",
		"frame", st.Frame,
		"tasks", st.Tasks,
		"exposed", st.Exposed,
		"regions", len(st.Regions),
		"area", st.Area,
		"full", st.FullRedraw,
		"duration", st.Duration)
	return st, nil
}

// Run calls update and then Frame every interval until ctx is done or a
// frame fails. update may be nil. Run returns ctx.Err() when ctx ends it.
func (l *Loop) Run(ctx context.Context, interval time.Duration, update func(frame uint64)) error {
	if interval <= 0 {
		return fmt.Errorf("loop: invalid frame interval %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if update != nil {
				update(l.collector.Frames() + 1)
			}
			if _, err := l.Frame(ctx); err != nil {
				return err
			}
		}
	}
}
