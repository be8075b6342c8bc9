// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package text

import "golang.org/x/text/unicode/bidi"

// Direction is the base direction of a line.
type Direction uint8

const (
	// DirectionLTR is left-to-right (Latin, Cyrillic, CJK, ...).
	DirectionLTR Direction = iota

	// DirectionRTL is right-to-left (Arabic, Hebrew, ...).
	DirectionRTL
)

// String returns "LTR" or "RTL".
func (d Direction) String() string {
	if d == DirectionRTL {
		return "RTL"
	}
	return "LTR"
}

// BaseDirection returns the direction of the logically first bidi run of s.
// Text without strong characters is left-to-right.
func BaseDirection(s string) Direction {
	if s == "" {
		return DirectionLTR
	}

	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil {
		return DirectionLTR
	}

	first, dir := -1, DirectionLTR
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		start, _ := run.Pos()
		if first != -1 && start >= first {
			continue
		}
		first = start
		dir = DirectionLTR
		if run.Direction() == bidi.RightToLeft {
			dir = DirectionRTL
		}
	}
	return dir
}
