// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package text

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/damage/internal/cache"
)

// extentsCacheSize bounds the number of memoized measurements.
const extentsCacheSize = 512

// ErrInvalidSize is returned for non-positive font sizes.
var ErrInvalidSize = errors.New("text: font size must be positive")

// Extents are the integer pixel extents of a shaped line.
type Extents struct {
	// Width is the total advance, rounded up.
	Width int

	// Ascent is the distance from the top of the line to the baseline.
	Ascent int

	// Descent is the distance from the baseline to the bottom of the line.
	Descent int

	// Direction is the base direction the line was shaped with.
	Direction Direction
}

// Height returns the line height.
func (e Extents) Height() int {
	return e.Ascent + e.Descent
}

// Measurer shapes and measures text with one font.
// It is not safe for concurrent use.
type Measurer struct {
	// shaper holds a reusable HarfBuzz buffer.
	shaper shaping.HarfbuzzShaper

	// shapingFace is the go-text face used for shaping.
	shapingFace *gotext.Face

	// otFont is the x/image parsed font used for metrics and drawing.
	otFont *opentype.Font

	// faces caches x/image faces by size.
	faces map[float64]font.Face

	// extents memoizes Measure; labels are re-measured on every SetText.
	extents *cache.Cache[measureKey, Extents]
}

type measureKey struct {
	s    string
	size float64
}

// NewMeasurer parses TrueType/OpenType font data.
func NewMeasurer(ttf []byte) (*Measurer, error) {
	sf, err := gotext.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("text: parse font for shaping: %w", err)
	}
	of, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("text: parse font for drawing: %w", err)
	}
	return &Measurer{
		shapingFace: sf,
		otFont:      of,
		faces:       make(map[float64]font.Face),
		extents:     cache.New[measureKey, Extents](extentsCacheSize),
	}, nil
}

// NewDefaultMeasurer returns a Measurer for the Go Regular font.
func NewDefaultMeasurer() (*Measurer, error) {
	return NewMeasurer(goregular.TTF)
}

// Face returns the x/image face for size, creating it on first use.
func (m *Measurer) Face(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if f, ok := m.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(m.otFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("text: create face: %w", err)
	}
	m.faces[size] = f
	return f, nil
}

// Measure shapes s at the given size and returns its extents.
// The empty string measures as zero width with the line's vertical metrics.
func (m *Measurer) Measure(s string, size float64) (Extents, error) {
	if size <= 0 {
		return Extents{}, ErrInvalidSize
	}
	return m.extents.GetOrCreate(measureKey{s, size}, func() (Extents, error) {
		return m.measure(s, size)
	})
}

// CacheStats returns the hit and miss counts of the measurement cache.
func (m *Measurer) CacheStats() (hits, misses uint64) {
	st := m.extents.Stats()
	return st.Hits, st.Misses
}

func (m *Measurer) measure(s string, size float64) (Extents, error) {
	face, err := m.Face(size)
	if err != nil {
		return Extents{}, err
	}
	metrics := face.Metrics()
	ext := Extents{
		Ascent:  metrics.Ascent.Ceil(),
		Descent: metrics.Descent.Ceil(),
	}
	if s == "" {
		return ext, nil
	}

	runes := []rune(s)
	ext.Direction = BaseDirection(s)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: mapDirection(ext.Direction),
		Face:      m.shapingFace,
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	out := m.shaper.Shape(input)

	var advance fixed.Int26_6
	for _, g := range out.Glyphs {
		advance += g.Advance
	}
	ext.Width = advance.Ceil()
	return ext, nil
}

// Draw draws s into dst with its baseline origin at (x, y).
// Drawing is clipped to dst's bounds, so passing a sub-image restricts it
// to a damaged region.
func (m *Measurer) Draw(dst draw.Image, s string, size float64, x, y int, c color.Color) error {
	if s == "" {
		return nil
	}
	face, err := m.Face(size)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
	return nil
}

// Close releases the cached faces.
func (m *Measurer) Close() error {
	m.extents.Clear()
	var errs []error
	for size, f := range m.faces {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(m.faces, size)
	}
	return errors.Join(errs...)
}

// mapDirection converts a Direction to go-text's di.Direction.
func mapDirection(d Direction) di.Direction {
	if d == DirectionRTL {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a font size to 26.6 fixed point.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}
