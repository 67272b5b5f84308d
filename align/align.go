// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package align defines the normalized intermediate alignment record
// that every format converter reads from and writes to (design note
// "Polymorphism over formats" in the design notes of the format spec),
// and the strand/coordinate arithmetic shared by all three formats.
package align

import (
	"github.com/pkg/errors"
	"github.com/wgatools/wga/cigar"
)

// Strand is the orientation of a sequence in an alignment.
type Strand byte

// The two strand values. Target strand is always Plus in a Record.
const (
	Plus  Strand = '+'
	Minus Strand = '-'
)

func (s Strand) String() string { return string(rune(s)) }

// Opposite returns the other strand.
func (s Strand) Opposite() Strand {
	if s == Plus {
		return Minus
	}
	return Plus
}

// ParseStrand converts a strand token ('+', '-', or the
// CHAIN-style "1"/"-1") to a Strand.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+", "1":
		return Plus, nil
	case "-", "-1":
		return Minus, nil
	default:
		return 0, errors.Errorf("align: invalid strand %q", s)
	}
}

// Tag is a single typed key/value annotation carried through from a PAF
// record (e.g. "NM:i:3") so that converters which do not understand a
// tag can still round-trip it.
type Tag struct {
	Kind  byte // 'A','i','f','Z','H','B' per the PAF/SAM tag type alphabet
	Value string
}

// Record is the normalized alignment record shared by all converters.
// Target coordinates are always expressed on the '+' strand; query
// coordinates are expressed on QStrand. Both start/end pairs are
// 0-based half-open.
type Record struct {
	TName        string
	TLen         int
	TStart, TEnd int
	QName        string
	QLen         int
	QStart, QEnd int
	QStrand      Strand
	Cigar        cigar.Cigar
	Score        *int
	Tags         map[string]Tag
}

// StrandProject maps a half-open interval [start, end) expressed on one
// strand of a sequence of length srcLen onto the opposite strand. This
// is the single function that performs reverse-complement coordinate
// arithmetic; every converter and format emitter goes through it rather
// than open-coding "srcLen - end" (design notes, "Reverse-complement
// and strand").
func StrandProject(start, end, srcLen int, strand Strand) (projStart, projEnd int) {
	if strand == Plus {
		return start, end
	}
	return srcLen - end, srcLen - start
}
