// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/damage/scene"
)

// shadowAlpha is the opacity of drop shadows.
const shadowAlpha = 0.5

// kernelCacheSize bounds the Gaussian kernels a Painter keeps.
const kernelCacheSize = 32

// applyFilter runs f over img and returns the result, which may be img.
// img must already cover f's output bounds. Filters of unknown types only
// affect damage, so they are drawn unfiltered.
func (p *Painter) applyFilter(f scene.Filter, img *image.RGBA) *image.RGBA {
	switch f := f.(type) {
	case scene.Blur:
		blur(img, p.kernel(f.Radius))
	case scene.DropShadow:
		img = dropShadow(img, f, p.kernel(f.Radius))
	case scene.ColorAdjust:
		adjustColor(img, f)
	case scene.Chain:
		for _, g := range f {
			if g != nil {
				img = p.applyFilter(g, img)
			}
		}
	}
	return img
}

// kernel returns the Gaussian kernel for radius, or nil for radius <= 0.
func (p *Painter) kernel(radius int) []float32 {
	if radius <= 0 {
		return nil
	}
	if k, ok := p.kernels.Get(radius); ok {
		return k
	}
	k := gaussianKernel(radius)
	p.kernels.Set(radius, k)
	return k
}

// gaussianKernel returns a normalized kernel of 2*radius+1 taps. Sigma is
// radius/3, so the kernel never reaches past the radius.
func gaussianKernel(radius int) []float32 {
	k := make([]float32, 2*radius+1)
	sigma := float64(radius) / 3
	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	vals := make([]float64, len(k))
	for i := range vals {
		x := float64(i - radius)
		vals[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += vals[i]
	}
	for i, v := range vals {
		k[i] = float32(v / sum)
	}
	return k
}

// blur convolves img in place with kernel horizontally and vertically.
// Pixels outside img are transparent. A kernel of fewer than three taps
// leaves img unchanged.
func blur(img *image.RGBA, kernel []float32) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	radius := len(kernel) / 2
	if radius <= 0 || w == 0 || h == 0 {
		return
	}
	temp := make([]float32, w*h*4)

	// Horizontal pass: img -> temp.
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			var acc [4]float32
			for i, kv := range kernel {
				sx := x + i - radius
				if sx < 0 || sx >= w {
					continue
				}
				p := row[sx*4 : sx*4+4 : sx*4+4]
				acc[0] += kv * float32(p[0])
				acc[1] += kv * float32(p[1])
				acc[2] += kv * float32(p[2])
				acc[3] += kv * float32(p[3])
			}
			copy(temp[(y*w+x)*4:], acc[:])
		}
	}

	// Vertical pass: temp -> img.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [4]float32
			for i, kv := range kernel {
				sy := y + i - radius
				if sy < 0 || sy >= h {
					continue
				}
				p := temp[(sy*w+x)*4 : (sy*w+x)*4+4]
				acc[0] += kv * p[0]
				acc[1] += kv * p[1]
				acc[2] += kv * p[2]
				acc[3] += kv * p[3]
			}
			setPremul(img.Pix[y*img.Stride+x*4:], acc)
		}
	}
}

// dropShadow draws img over an offset, translucent black copy of its alpha
// blurred with kernel.
func dropShadow(img *image.RGBA, s scene.DropShadow, kernel []float32) *image.RGBA {
	b := img.Bounds()
	shadow := image.NewRGBA(b)
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		ty := y + s.DY
		if ty < 0 || ty >= h {
			continue
		}
		for x := 0; x < w; x++ {
			tx := x + s.DX
			if tx < 0 || tx >= w {
				continue
			}
			a := img.Pix[y*img.Stride+x*4+3]
			shadow.Pix[ty*shadow.Stride+tx*4+3] = uint8(float64(a)*shadowAlpha + 0.5)
		}
	}
	blur(shadow, kernel)
	draw.Draw(shadow, b, img, b.Min, draw.Over)
	return shadow
}

// adjustColor applies a ColorAdjust in place on premultiplied pixels.
func adjustColor(img *image.RGBA, f scene.ColorAdjust) {
	if f.Brightness == 0 && !f.Grayscale {
		return
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			a := float32(row[i+3])
			if a == 0 {
				continue
			}
			px := [4]float32{float32(row[i]), float32(row[i+1]), float32(row[i+2]), a}
			if f.Grayscale {
				l := 0.299*px[0] + 0.587*px[1] + 0.114*px[2]
				px[0], px[1], px[2] = l, l, l
			}
			d := float32(f.Brightness) * a
			px[0] += d
			px[1] += d
			px[2] += d
			setPremul(row[i:], px)
		}
	}
}

// setPremul stores a premultiplied pixel, keeping every channel within
// [0, alpha].
func setPremul(dst []uint8, px [4]float32) {
	a := clamp8(px[3])
	dst[3] = a
	for c := 0; c < 3; c++ {
		dst[c] = min(clamp8(px[c]), a)
	}
}

func clamp8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
