// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package loop

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/damage"
	"github.com/gogpu/damage/scene"
	"github.com/gogpu/damage/surface"
)

var red = color.RGBA{R: 255, A: 255}

func newTestLoop(t *testing.T, opts ...Option) (*Loop, *scene.Node, *surface.ImageSurface) {
	t.Helper()
	leaf := scene.NewLeaf("box", damage.XYWH(0, 0, 10, 10), red)
	root := scene.NewGroup("root", leaf)
	s := surface.NewImageSurface(64, 64)
	t.Cleanup(func() { s.Close() })
	return New(root, s, opts...), leaf, s
}

func TestLoop_FirstFrameFullRedraw(t *testing.T) {
	l, _, s := newTestLoop(t, WithBackground(color.White))

	st, err := l.Frame(context.Background())
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if !st.FullRedraw || st.Frame != 1 || st.Area != 64*64 {
		t.Errorf("FrameStats = %+v", st)
	}
	if got := s.Image().RGBAAt(5, 5); got != red {
		t.Errorf("presented leaf pixel = %v, want %v", got, red)
	}
	if got := s.Image().RGBAAt(40, 40); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("presented background = %v, want white", got)
	}
}

func TestLoop_PostAppliesBeforeCollect(t *testing.T) {
	l, leaf, s := newTestLoop(t, WithDamageOptions(damage.WithMergeThreshold(0)))
	ctx := context.Background()
	if _, err := l.Frame(ctx); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := l.Post(func() { leaf.Move(30, 30) }); err != nil {
			t.Errorf("Post() error = %v", err)
		}
	}()
	wg.Wait()

	st, err := l.Frame(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Tasks != 1 || st.FullRedraw || st.Area != 200 || len(st.Regions) != 2 {
		t.Errorf("FrameStats = %+v", st)
	}
	if got := s.Image().RGBAAt(35, 35); got != red {
		t.Errorf("moved leaf pixel = %v, want %v", got, red)
	}
	if got := s.Image().RGBAAt(5, 5); got != (color.RGBA{A: 255}) {
		t.Errorf("vacated pixel = %v, want black background", got)
	}

	presented := s.Stats().Pixels
	st, err = l.Frame(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Regions) != 0 || s.Stats().Pixels != presented {
		t.Errorf("idle frame presented %v", st.Regions)
	}
}

func TestLoop_QueueFull(t *testing.T) {
	l, _, _ := newTestLoop(t, WithQueueSize(1))

	if err := l.Post(func() {}); err != nil {
		t.Fatalf("first Post() error = %v", err)
	}
	if err := l.Post(func() {}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("second Post() error = %v, want ErrQueueFull", err)
	}

	st, err := l.Frame(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Tasks != 1 {
		t.Errorf("Tasks = %d, want 1", st.Tasks)
	}
	if err := l.Post(func() {}); err != nil {
		t.Errorf("Post() after drain error = %v", err)
	}
}

func TestLoop_Close(t *testing.T) {
	l, _, _ := newTestLoop(t)
	ran := false
	if err := l.Post(func() { ran = true }); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := l.Post(func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Post() after Close error = %v, want ErrClosed", err)
	}
	if _, err := l.Frame(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Frame() after Close error = %v, want ErrClosed", err)
	}
	if ran {
		t.Error("queued task should be dropped by Close")
	}
}

func TestLoop_FrameCanceled(t *testing.T) {
	l, _, _ := newTestLoop(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Frame(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Frame() error = %v, want context.Canceled", err)
	}
}

func TestLoop_FollowsSurfaceResize(t *testing.T) {
	l, _, s := newTestLoop(t)
	ctx := context.Background()
	if _, err := l.Frame(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.Resize(100, 20); err != nil {
		t.Fatal(err)
	}
	st, err := l.Frame(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !st.FullRedraw || st.Area != 100*20 {
		t.Errorf("FrameStats after resize = %+v", st)
	}
	if l.Target().Width() != 100 || l.Collector().Frame() != damage.XYWH(0, 0, 100, 20) {
		t.Error("target and collector should follow the surface size")
	}
}

func TestLoop_Expose(t *testing.T) {
	l, _, s := newTestLoop(t, WithExposeTileSize(8), WithDamageOptions(damage.WithMergeThreshold(0)))
	ctx := context.Background()
	if _, err := l.Frame(ctx); err != nil {
		t.Fatal(err)
	}

	// The surface loses content outside the scene; Expose brings it back.
	s.Image().SetRGBA(42, 42, red)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Expose(damage.XYWH(41, 41, 2, 2))
	}()
	wg.Wait()

	st, err := l.Frame(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Exposed != 1 || st.FullRedraw || len(st.Regions) != 1 || st.Regions[0] != damage.XYWH(40, 40, 8, 8) {
		t.Errorf("FrameStats = %+v, want one 8x8 exposed tile", st)
	}
	if got := s.Image().RGBAAt(42, 42); got != (color.RGBA{A: 255}) {
		t.Errorf("exposed pixel = %v, want background", got)
	}

	st, err = l.Frame(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Exposed != 0 || len(st.Regions) != 0 {
		t.Errorf("exposed area should be repainted once, got %+v", st)
	}
}

func TestLoop_Run(t *testing.T) {
	l, leaf, _ := newTestLoop(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames []uint64
	err := l.Run(ctx, time.Millisecond, func(frame uint64) {
		frames = append(frames, frame)
		leaf.Move(1, 0)
		if len(frames) == 5 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(frames) != 5 {
		t.Fatalf("update called %d times, want 5", len(frames))
	}
	for i, f := range frames {
		if f != uint64(i+1) {
			t.Errorf("update frame[%d] = %d, want %d", i, f, i+1)
		}
	}
	if l.Collector().Frames() != 4 {
		t.Errorf("Frames() = %d, want 4 (the last frame was canceled)", l.Collector().Frames())
	}
	if l.Root().Bounds().X != 5 {
		t.Errorf("leaf X = %d, want 5", l.Root().Bounds().X)
	}
}

func TestLoop_RunInvalidInterval(t *testing.T) {
	l, _, _ := newTestLoop(t)
	if err := l.Run(context.Background(), 0, nil); err == nil {
		t.Error("Run() with zero interval should fail")
	}
}

func TestLoop_Accessors(t *testing.T) {
	l, _, s := newTestLoop(t)
	if l.Surface() != surface.Surface(s) {
		t.Error("Surface() should return the output surface")
	}
	if l.Root().Name() != "root" {
		t.Errorf("Root().Name() = %q", l.Root().Name())
	}
}
