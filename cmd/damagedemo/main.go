// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command damagedemo animates a scene and repaints only what changed.
//
// By default it renders a fixed number of frames into an image surface and
// writes the last frame as a PNG, optionally with a second PNG outlining
// the damage of every frame. With -term it animates in the terminal
// (arrow keys move the player, q quits).
//
//	damagedemo -frames 200 -overlay -output out.png
//	damagedemo -config demo.toml -term
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"

	"github.com/gogpu/damage"
	"github.com/gogpu/damage/loop"
	"github.com/gogpu/damage/render"
	"github.com/gogpu/damage/surface"
	"github.com/gogpu/damage/text"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("damagedemo: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, dump, err := loadConfig(args, stderr)
	if err != nil {
		return err
	}
	if dump {
		return writeConfig(stdout, cfg)
	}

	if cfg.Verbose {
		damage.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer damage.SetLogger(nil)
	}

	m, err := text.NewDefaultMeasurer()
	if err != nil {
		return err
	}
	defer m.Close()

	// A size hint selects the offscreen image surface.
	opts := surface.Options{Width: cfg.Width, Height: cfg.Height}
	if cfg.Terminal {
		opts = surface.Options{Backend: "terminal"}
	}
	s, err := surface.Open(opts)
	if err != nil {
		return err
	}
	switch s := s.(type) {
	case *surface.TerminalSurface:
		return runTerminal(cfg, m, s)
	case *surface.ImageSurface:
		return runImage(cfg, m, s, stdout)
	default:
		s.Close()
		return fmt.Errorf("unsupported surface %T", s)
	}
}

func loopOptions(cfg config) []loop.Option {
	bg, _ := parseHexColor(cfg.Background)
	return []loop.Option{
		loop.WithBackground(bg),
		loop.WithDamageOptions(
			damage.WithCapacity(cfg.Capacity),
			damage.WithMergeThreshold(cfg.MergeThreshold),
		),
	}
}

// runImage renders cfg.Frames frames off screen and writes PNGs.
func runImage(cfg config, m *text.Measurer, s *surface.ImageSurface, stdout io.Writer) error {
	defer s.Close()

	d, err := newDemo(surface.Bounds(s), cfg.Sprites, m)
	if err != nil {
		return err
	}
	l := loop.New(d.root, s, loopOptions(cfg)...)
	defer l.Close()

	ctx := context.Background()
	var (
		area, regions, full, stale int
		history                    []damage.Rect
	)
	for i := range cfg.Frames {
		if err := d.step(uint64(i + 1)); err != nil {
			return err
		}
		st, err := l.Frame(ctx)
		if err != nil {
			return err
		}
		area += st.Area
		regions += len(st.Regions)
		stale += st.StaleBuffers
		if st.FullRedraw {
			full++
		} else {
			history = append(history, st.Regions...)
		}
	}

	final := s.Snapshot()
	if err := writePNG(cfg.Output, final); err != nil {
		return err
	}
	if cfg.Overlay {
		overlay := image.NewRGBA(final.Bounds())
		draw.Copy(overlay, image.Point{}, final, final.Bounds(), draw.Src, nil)
		render.DrawOutlines(overlay, history, color.RGBA{R: 0xff, G: 0xff, A: 0xa0})
		if err := writePNG(overlayPath(cfg.Output), overlay); err != nil {
			return err
		}
	}

	total := cfg.Frames * cfg.Width * cfg.Height
	pct := 0.0
	if total > 0 {
		pct = 100 * float64(area) / float64(total)
	}
	fmt.Fprintf(stdout, "%d frames, %d regions, %d full redraws, %d stale buffers: repainted %d of %d pixels (%.1f%%)\n",
		cfg.Frames, regions, full, stale, area, total, pct)
	return nil
}

// overlayPath derives the damage overlay file name from the output name.
func overlayPath(output string) string {
	return strings.TrimSuffix(output, ".png") + "-damage.png"
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// runTerminal animates the scene in the terminal until q, Esc, Ctrl-C or
// an interrupt.
func runTerminal(cfg config, m *text.Measurer, ts *surface.TerminalSurface) error {
	defer ts.Close()

	d, err := newDemo(surface.Bounds(ts), cfg.Sprites, m)
	if err != nil {
		return err
	}
	l := loop.New(d.root, ts, loopOptions(cfg)...)
	defer l.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go pollInput(ts.Screen(), l, d, cancel)

	err = l.Run(ctx, time.Second/time.Duration(cfg.FPS), func(frame uint64) {
		if err := d.step(frame); err != nil {
			damage.Logger().Error("damagedemo: animation step failed", "frame", frame, "err", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// pollInput forwards terminal events to the loop goroutine. It returns
// when the screen is finalized.
func pollInput(screen tcell.Screen, l *loop.Loop, d *demo, quit func()) {
	post := func(fn func()) {
		if err := l.Post(fn); err != nil && !errors.Is(err, loop.ErrClosed) {
			damage.Logger().Warn("damagedemo: input dropped", "err", err)
		}
	}
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
			post(func() { d.resize(surface.Bounds(l.Surface())) })
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				quit()
				return
			case tcell.KeyLeft:
				post(func() { d.movePlayer(-2, 0) })
			case tcell.KeyRight:
				post(func() { d.movePlayer(2, 0) })
			case tcell.KeyUp:
				post(func() { d.movePlayer(0, -2) })
			case tcell.KeyDown:
				post(func() { d.movePlayer(0, 2) })
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q':
					quit()
					return
				case 'r':
					l.Expose(surface.Bounds(l.Surface()))
				}
			}
		}
	}
}
