// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// config holds the demo settings. Values come from the defaults, then an
// optional TOML file, then command-line flags.
type config struct {
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	Frames         int    `toml:"frames"`
	FPS            int    `toml:"fps"`
	Sprites        int    `toml:"sprites"`
	Capacity       int    `toml:"capacity"`
	MergeThreshold int    `toml:"merge_threshold"`
	Background     string `toml:"background"`
	Output         string `toml:"output"`
	Overlay        bool   `toml:"overlay"`
	Terminal       bool   `toml:"terminal"`
	Verbose        bool   `toml:"verbose"`
}

func defaultConfig() config {
	return config{
		Width:          320,
		Height:         200,
		Frames:         120,
		FPS:            30,
		Sprites:        6,
		Capacity:       64,
		MergeThreshold: 32 * 32,
		Background:     "#101820",
		Output:         "damagedemo.png",
	}
}

func (c config) validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", c.FPS))
	}
	if c.Sprites < 0 {
		errs = append(errs, fmt.Errorf("sprites %d must not be negative", c.Sprites))
	}
	if _, err := parseHexColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// loadConfig parses args. Flags given explicitly override the file named
// by -config.
func loadConfig(args []string, stderr io.Writer) (config, bool, error) {
	def := defaultConfig()
	fromFlags := def

	fs := flag.NewFlagSet("damagedemo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("config", "", "TOML config file")
	dump := fs.Bool("dump-config", false, "print the effective config as TOML and exit")
	fs.IntVar(&fromFlags.Width, "width", def.Width, "frame width in pixels")
	fs.IntVar(&fromFlags.Height, "height", def.Height, "frame height in pixels")
	fs.IntVar(&fromFlags.Frames, "frames", def.Frames, "frames to render in image mode")
	fs.IntVar(&fromFlags.FPS, "fps", def.FPS, "frames per second in terminal mode")
	fs.IntVar(&fromFlags.Sprites, "sprites", def.Sprites, "number of bouncing sprites")
	fs.IntVar(&fromFlags.Capacity, "capacity", def.Capacity, "damage region capacity")
	fs.IntVar(&fromFlags.MergeThreshold, "threshold", def.MergeThreshold, "merge threshold in pixels")
	fs.StringVar(&fromFlags.Background, "bg", def.Background, "background color (#rrggbb)")
	fs.StringVar(&fromFlags.Output, "output", def.Output, "output PNG file")
	fs.BoolVar(&fromFlags.Overlay, "overlay", def.Overlay, "also write a PNG with the damage of every frame outlined")
	fs.BoolVar(&fromFlags.Terminal, "term", def.Terminal, "animate in the terminal instead of writing a PNG")
	fs.BoolVar(&fromFlags.Verbose, "v", def.Verbose, "log per-frame damage")
	if err := fs.Parse(args); err != nil {
		return config{}, false, err
	}

	cfg := def
	if *path != "" {
		if _, err := toml.DecodeFile(*path, &cfg); err != nil {
			return config{}, false, fmt.Errorf("read config %s: %w", *path, err)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = fromFlags.Width
		case "height":
			cfg.Height = fromFlags.Height
		case "frames":
			cfg.Frames = fromFlags.Frames
		case "fps":
			cfg.FPS = fromFlags.FPS
		case "sprites":
			cfg.Sprites = fromFlags.Sprites
		case "capacity":
			cfg.Capacity = fromFlags.Capacity
		case "threshold":
			cfg.MergeThreshold = fromFlags.MergeThreshold
		case "bg":
			cfg.Background = fromFlags.Background
		case "output":
			cfg.Output = fromFlags.Output
		case "overlay":
			cfg.Overlay = fromFlags.Overlay
		case "term":
			cfg.Terminal = fromFlags.Terminal
		case "v":
			cfg.Verbose = fromFlags.Verbose
		}
	})
	if err := cfg.validate(); err != nil {
		return config{}, false, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, *dump, nil
}

// writeConfig encodes cfg as TOML.
func writeConfig(w io.Writer, cfg config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// parseHexColor parses "#rgb" or "#rrggbb".
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
