// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package text measures and draws single-line labels.
//
// Measurement shapes the string with go-text/typesetting's HarfBuzz port,
// so the advance reflects kerning and ligatures. Vertical metrics and
// drawing use golang.org/x/image/font with an OpenType face parsed from the
// same font data. The default font is Go Regular.
//
//	m, err := text.NewDefaultMeasurer()
//	if err != nil {
//	    return err
//	}
//	ext, err := m.Measure("Frame 42", 14)
//	// ext.Width, ext.Height() are integer pixel extents
//
// A Measurer caches faces and a shaper buffer, and is therefore confined to
// one goroutine (the frame loop).
package text
