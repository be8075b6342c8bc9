// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/damage"
	"github.com/gogpu/damage/scene"
)

// =============================================================================
// Kernels and filters
// =============================================================================

func TestGaussianKernel(t *testing.T) {
	for _, radius := range []int{1, 3, 10} {
		k := gaussianKernel(radius)
		if len(k) != 2*radius+1 {
			t.Errorf("radius %d: len = %d, want %d", radius, len(k), 2*radius+1)
		}
		var sum float64
		for i, v := range k {
			sum += float64(v)
			if v != k[len(k)-1-i] {
				t.Errorf("radius %d: kernel not symmetric at %d", radius, i)
			}
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Errorf("radius %d: sum = %v, want 1", radius, sum)
		}
		if k[radius] <= k[0] {
			t.Errorf("radius %d: center %v should exceed edge %v", radius, k[radius], k[0])
		}
	}
}

func TestBlurStaysWithinRadius(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 21, 21))
	img.SetRGBA(10, 10, red)

	blur(img, gaussianKernel(3))

	if got := img.RGBAAt(10, 10); got.A == 0 || got.A == 255 {
		t.Errorf("center alpha = %d, want partially covered", got.A)
	}
	if img.RGBAAt(11, 10).A == 0 {
		t.Error("blur should spread to neighbors")
	}
	for _, p := range []image.Point{{14, 10}, {10, 6}, {0, 0}} {
		if got := img.RGBAAt(p.X, p.Y); got != (color.RGBA{}) {
			t.Errorf("pixel %v = %v, want transparent beyond the radius", p, got)
		}
	}
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > img.Pix[i+3] {
			t.Fatalf("channel exceeds alpha at byte %d", i)
		}
	}
}

func TestBlurZeroRadius(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, red)
	p := NewPainter(nil)
	blur(img, p.kernel(0))
	if img.RGBAAt(1, 1) != red || img.RGBAAt(2, 1) != (color.RGBA{}) {
		t.Error("zero radius should leave the image unchanged")
	}
}

func TestPainter_KernelCached(t *testing.T) {
	p := NewPainter(nil)
	a := p.kernel(4)
	b := p.kernel(4)
	if len(a) != 9 || &a[0] != &b[0] {
		t.Error("kernel() should return the cached kernel for the same radius")
	}
	if st := p.kernels.Stats(); st.Len != 1 || st.Hits != 1 {
		t.Errorf("kernel cache stats = %+v, want one entry and one hit", st)
	}
	if NewPainter(nil).kernels == p.kernels {
		t.Error("painters should not share kernel caches")
	}
}

func TestDropShadow(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.SetRGBA(2, 2, red)

	out := dropShadow(img, scene.DropShadow{DX: 3, DY: 4}, nil)

	if out.RGBAAt(2, 2) != red {
		t.Errorf("content = %v, want red on top", out.RGBAAt(2, 2))
	}
	if got := out.RGBAAt(5, 6); got.R != 0 || got.A != 128 {
		t.Errorf("shadow = %v, want translucent black", got)
	}
	if out.RGBAAt(3, 3).A != 0 {
		t.Error("no shadow expected between content and offset")
	}
}

func TestAdjustColor(t *testing.T) {
	tests := []struct {
		name string
		f    scene.ColorAdjust
		in   color.RGBA
		want color.RGBA
	}{
		{"Identity", scene.ColorAdjust{}, red, red},
		{"Grayscale", scene.ColorAdjust{Grayscale: true}, color.RGBA{R: 100, G: 100, B: 100, A: 255}, color.RGBA{R: 100, G: 100, B: 100, A: 255}},
		{"Darken", scene.ColorAdjust{Brightness: -1}, red, color.RGBA{A: 255}},
		{"BrightenClampsToAlpha", scene.ColorAdjust{Brightness: 1}, color.RGBA{R: 10, A: 128}, color.RGBA{R: 128, G: 128, B: 128, A: 128}},
		{"Transparent", scene.ColorAdjust{Brightness: 1}, color.RGBA{}, color.RGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 1, 1))
			img.SetRGBA(0, 0, tt.in)
			adjustColor(img, tt.f)
			if got := img.RGBAAt(0, 0); got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyFilterChain(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 12, 12))
	img.SetRGBA(3, 3, color.RGBA{R: 200, G: 100, B: 0, A: 255})

	out := NewPainter(nil).applyFilter(scene.Chain{scene.ColorAdjust{Grayscale: true}, nil, scene.DropShadow{DX: 2, DY: 2}}, img)

	if got := out.RGBAAt(3, 3); got.R != got.G || got.G != got.B {
		t.Errorf("content = %v, want gray", got)
	}
	if out.RGBAAt(5, 5).A == 0 {
		t.Error("chain should draw the shadow")
	}
}

// =============================================================================
// Painting filtered nodes
// =============================================================================

func TestPainter_BlurredLeaf(t *testing.T) {
	frame := damage.XYWH(0, 0, 40, 40)
	leaf := scene.NewLeaf("a", damage.XYWH(10, 10, 10, 10), red)
	leaf.SetFilter(scene.Blur{Radius: 4})
	root := scene.NewGroup("root", leaf)
	target := NewPixmapTarget(40, 40)
	p := NewPainter(white)

	if err := p.Paint(target.Image(), root, fullResult(frame)); err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(target.Image(), 8, 15); got == white {
		t.Error("blur should bleed outside the leaf")
	}
	if got := rgbaAt(target.Image(), 5, 15); got != white {
		t.Errorf("pixel beyond the radius = %v, want background", got)
	}
	if st := p.Stats(); st.Filters != 1 {
		t.Errorf("Filters = %d, want 1", st.Filters)
	}
}

func TestPainter_FilterOncePerPaint(t *testing.T) {
	leaf := scene.NewLeaf("a", damage.XYWH(10, 10, 20, 20), red)
	leaf.SetFilter(scene.Blur{Radius: 2})
	root := scene.NewGroup("root", leaf)
	target := NewPixmapTarget(40, 40)
	p := NewPainter(white)

	res := scene.Result{
		Frame: damage.XYWH(0, 0, 40, 40),
		Rects: []damage.Rect{damage.XYWH(0, 0, 40, 15), damage.XYWH(0, 25, 40, 15)},
	}
	if err := p.Paint(target.Image(), root, res); err != nil {
		t.Fatal(err)
	}
	if st := p.Stats(); st.Regions != 2 || st.Filters != 1 {
		t.Errorf("Stats() = %+v, want 2 regions and 1 filter render", st)
	}
}

func TestPainter_FilterClippedByParent(t *testing.T) {
	leaf := scene.NewLeaf("a", damage.XYWH(10, 10, 10, 10), red)
	leaf.SetFilter(scene.Blur{Radius: 6})
	root := scene.NewClipGroup("root", damage.XYWH(0, 0, 20, 40), leaf)
	target := NewPixmapTarget(40, 40)
	p := NewPainter(white)

	if err := p.Paint(target.Image(), root, fullResult(damage.XYWH(0, 0, 40, 40))); err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(target.Image(), 21, 15); got != white {
		t.Errorf("pixel outside the parent clip = %v, want background", got)
	}
	if got := rgbaAt(target.Image(), 8, 15); got == white {
		t.Error("blur inside the parent clip should be drawn")
	}
}

// TestPainter_IncrementalMatchesFull checks that repainting only the
// collected damage produces the same frame as repainting everything.
func TestPainter_IncrementalMatchesFull(t *testing.T) {
	frame := damage.XYWH(0, 0, 64, 64)

	blurred := scene.NewLeaf("blurred", damage.XYWH(4, 4, 8, 8), red)
	blurred.SetFilter(scene.Blur{Radius: 3})
	mover := scene.NewLeaf("mover", damage.XYWH(30, 30, 6, 6), blue)
	shadowed := scene.NewGroup("shadowed", mover,
		scene.NewLeaf("still", damage.XYWH(40, 40, 6, 6), magenta))
	shadowed.SetFilter(scene.DropShadow{DX: 3, DY: 2, Radius: 2})
	inner := scene.NewLeaf("inner", damage.XYWH(12, 44, 10, 6), color.RGBA{G: 200, A: 255})
	nested := scene.NewGroup("nested", inner)
	nested.SetFilter(scene.Chain{scene.Blur{Radius: 2}, scene.ColorAdjust{Brightness: -0.2}})
	win := scene.NewClipGroup("win", damage.XYWH(10, 40, 30, 16), nested)
	root := scene.NewGroup("root", blurred, shadowed, win)

	c := scene.NewCollector(frame)
	incremental := NewPixmapTarget(64, 64)
	full := NewPixmapTarget(64, 64)
	p := NewPainter(white)

	for i := range 24 {
		switch {
		case i%2 == 0:
			blurred.Move(2, 1)
		default:
			blurred.Move(-1, 0)
		}
		if i%3 == 0 {
			mover.Move(1, -1)
		}
		inner.Move(2, 0)
		switch i {
		case 7:
			nested.SetVisible(false)
		case 10:
			win.SetClip(damage.XYWH(5, 36, 40, 24))
		case 12:
			nested.SetVisible(true)
		case 15:
			blurred.SetFilter(scene.Blur{Radius: 5})
		case 18:
			shadowed.SetFilter(nil)
		}

		res, err := c.Collect(root)
		if err != nil {
			t.Fatal(err)
		}
		if err := p.Paint(incremental.Image(), root, res); err != nil {
			t.Fatal(err)
		}
		c.Clear()
		if err := p.Paint(full.Image(), root, fullResult(frame)); err != nil {
			t.Fatal(err)
		}

		for y := 0; y < 64; y++ {
			for x := 0; x < 64; x++ {
				if a, b := rgbaAt(incremental.Image(), x, y), rgbaAt(full.Image(), x, y); a != b {
					t.Fatalf("frame %d: pixel (%d,%d) = %v, full redraw has %v; regions %v",
						i, x, y, a, b, res.Regions())
				}
			}
		}
	}
}
