// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/gogpu/damage"
	"github.com/gogpu/damage/scene"
	"github.com/gogpu/damage/text"
)

var palette = []color.RGBA{
	{R: 0xe6, G: 0x39, B: 0x46, A: 0xff},
	{R: 0xf1, G: 0xfa, B: 0xee, A: 0xff},
	{R: 0xa8, G: 0xda, B: 0xdc, A: 0xff},
	{R: 0x45, G: 0x7b, B: 0x9d, A: 0xff},
	{R: 0xff, G: 0xb7, B: 0x03, A: 0xff},
	{R: 0x2a, G: 0x9d, B: 0x8f, A: 0xc0},
}

type sprite struct {
	node   *scene.Node
	dx, dy int
}

// demo is an animated scene exercising every kind of damage source:
// moving leaves, a sliding leaf under a pulsing clip, an animated filter,
// and a text label inside a back-buffered group.
type demo struct {
	frame   damage.Rect
	root    *scene.Node
	sprites []sprite
	window  *scene.Node
	slider  *scene.Node
	glow    *scene.Node
	label   *scene.Node
	player  *scene.Node
}

func newDemo(frame damage.Rect, sprites int, m *text.Measurer) (*demo, error) {
	d := &demo{frame: frame, root: scene.NewGroup("root")}
	rng := rand.New(rand.NewPCG(1, 2))

	for i := range sprites {
		size := 4 + rng.IntN(max(frame.H/6, 1))
		n := scene.NewLeaf(fmt.Sprintf("sprite-%d", i),
			damage.XYWH(rng.IntN(max(frame.W-size, 1)), rng.IntN(max(frame.H-size, 1)), size, size),
			palette[i%len(palette)])
		d.sprites = append(d.sprites, sprite{node: n, dx: 1 + rng.IntN(3), dy: 1 + rng.IntN(2)})
		d.root.Add(n)
	}

	win := damage.XYWH(frame.W/2-frame.W/8, frame.H/2-frame.H/8, frame.W/4, frame.H/4)
	d.slider = scene.NewLeaf("slider", damage.XYWH(win.X-win.W/2, win.Y+win.H/4, win.W/2, win.H/2), palette[4])
	d.window = scene.NewClipGroup("window", win, d.slider)
	d.root.Add(d.window)

	glowing := scene.NewLeaf("glowing", damage.XYWH(frame.W/10, frame.H-frame.H/4, frame.W/12+1, frame.W/12+1), palette[2])
	d.glow = scene.NewGroup("glow", glowing)
	d.glow.SetFilter(scene.Blur{Radius: 2})
	d.root.Add(d.glow)

	d.player = scene.NewLeaf("player", damage.XYWH(frame.W-frame.W/8, frame.H/8, 6, 4), palette[1])
	d.player.SetFilter(scene.DropShadow{DX: 2, DY: 2, Radius: 1})
	d.root.Add(d.player)

	label, err := scene.NewLabel("counter", 4, 4, "frame 0", 12, color.White, m)
	if err != nil {
		return nil, err
	}
	d.label = label
	hud := scene.NewGroup("hud", label)
	hud.SetBackBuffer(true)
	d.root.Add(hud)
	return d, nil
}

// step advances the animation to frame.
func (d *demo) step(frame uint64) error {
	for i := range d.sprites {
		s := &d.sprites[i]
		b := s.node.Bounds()
		if b.X+s.dx < d.frame.X || b.Right()+s.dx > d.frame.Right() {
			s.dx = -s.dx
		}
		if b.Y+s.dy < d.frame.Y || b.Bottom()+s.dy > d.frame.Bottom() {
			s.dy = -s.dy
		}
		s.node.Move(s.dx, s.dy)
	}

	clip, _ := d.window.Clip()
	sb := d.slider.Bounds()
	if sb.X > clip.Right() {
		d.slider.Move(-(sb.X - clip.X + 2*sb.W), 0)
	} else {
		d.slider.Move(2, 0)
	}

	// The window breathes: every 30 frames its clip grows or shrinks.
	if frame%30 == 0 {
		delta := 4
		if frame%60 == 0 {
			delta = -4
		}
		d.window.SetClip(clip.Inset(delta))
	}

	if frame%10 == 0 {
		step := int(frame/10) % 4
		d.glow.SetFilter(scene.Chain{
			scene.Blur{Radius: 2 + step},
			scene.ColorAdjust{Brightness: 0.1 * float64(step)},
		})
	}

	if frame%5 == 0 {
		if err := d.label.SetText(fmt.Sprintf("frame %d", frame)); err != nil {
			return err
		}
	}
	return nil
}

// movePlayer moves the player, keeping it inside the frame.
func (d *demo) movePlayer(dx, dy int) {
	b := d.player.Bounds().Translate(dx, dy)
	if d.frame.ContainsRect(b) {
		d.player.SetBounds(b)
	}
}

// resize changes the area sprites bounce in.
func (d *demo) resize(frame damage.Rect) {
	d.frame = frame
}
