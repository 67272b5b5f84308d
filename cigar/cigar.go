// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cigar implements the compact alignment op model shared by the
// MAF, PAF and CHAIN converters and by the variant caller. It is the
// single place that knows how an operation advances target and query
// coordinates; every other package drives alignment bookkeeping through
// a Cursor rather than re-deriving the consumption table.
package cigar

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Op is a single CIGAR operation kind.
type Op byte

// The operation kinds named in the CIGAR grammar.
const (
	Eq       Op = '=' // sequence match
	Diff     Op = 'X' // sequence mismatch
	Match    Op = 'M' // match or mismatch, bases unresolved
	Ins      Op = 'I' // insertion to the query
	Del      Op = 'D' // deletion from the query
	Skip     Op = 'N' // skipped reference region, treated as D for coordinates
	SoftClip Op = 'S' // soft clip, consumes neither
	HardClip Op = 'H' // hard clip, consumes neither
	Padding  Op = 'P' // padding, consumes neither
)

// IsValid reports whether o is one of the known operation kinds.
func (o Op) IsValid() bool {
	switch o {
	case Eq, Diff, Match, Ins, Del, Skip, SoftClip, HardClip, Padding:
		return true
	}
	return false
}

// Consume reports whether operations of kind o advance the target and/or
// query coordinate, per the table in §4.2 of the format spec.
type Consume struct {
	Target bool
	Query  bool
}

var consumeTable = map[Op]Consume{
	Eq:       {Target: true, Query: true},
	Diff:     {Target: true, Query: true},
	Match:    {Target: true, Query: true},
	Ins:      {Target: false, Query: true},
	Del:      {Target: true, Query: false},
	Skip:     {Target: true, Query: false},
	SoftClip: {},
	HardClip: {},
	Padding:  {},
}

// Consumes returns the consumption behaviour of o. It panics if o is not
// a valid operation; callers are expected to have validated o via
// IsValid or through Parse, which never returns an invalid Op.
func (o Op) Consumes() Consume {
	c, ok := consumeTable[o]
	if !ok {
		panic(fmt.Sprintf("cigar: unknown op %q", byte(o)))
	}
	return c
}

func (o Op) String() string { return string(rune(o)) }

// Unit is a single (kind, length) pair.
type Unit struct {
	Op  Op
	Len int
}

func (u Unit) String() string { return strconv.Itoa(u.Len) + u.Op.String() }

// Cigar is an ordered, order-significant sequence of Units.
type Cigar []Unit

// String renders c in the standard `<len><op>...` form, e.g. "8M2I4D".
func (c Cigar) String() string {
	if len(c) == 0 {
		return "*"
	}
	var b bytes.Buffer
	for _, u := range c {
		b.WriteString(u.String())
	}
	return b.String()
}

// Lengths returns the total target and query span implied by c.
func (c Cigar) Lengths() (target, query int) {
	for _, u := range c {
		con := u.Op.Consumes()
		if con.Target {
			target += u.Len
		}
		if con.Query {
			query += u.Len
		}
	}
	return target, query
}

// Parse reads a CIGAR string of the form `(uint op)+` and returns the
// typed operation sequence. It is the "nom-style" lazy grammar of the
// format spec realized eagerly, since every caller in this module
// consumes the whole sequence immediately.
func Parse(s string) (Cigar, error) {
	if s == "" || s == "*" {
		return nil, nil
	}
	var c Cigar
	n := 0
	haveDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			n = n*10 + int(r-'0')
			haveDigit = true
		default:
			op := Op(r)
			if !haveDigit || n == 0 {
				return nil, errors.Errorf("cigar: malformed op length before %q in %q", r, s)
			}
			if !op.IsValid() {
				return nil, errors.Errorf("cigar: unknown op %q in %q", r, s)
			}
			c = append(c, Unit{Op: op, Len: n})
			n = 0
			haveDigit = false
		}
	}
	if haveDigit {
		return nil, errors.Errorf("cigar: trailing length without op in %q", s)
	}
	return c, nil
}

// Cursor walks a Cigar, advancing running target/query positions. It is
// the shared primitive for conversion and variant calling: every
// consumer advances the same cursor instead of re-deriving coordinate
// arithmetic from the consumption table.
type Cursor struct {
	TPos, QPos int
}

// NewCursor returns a Cursor initialized at the given starting
// coordinates.
func NewCursor(tStart, qStart int) Cursor {
	return Cursor{TPos: tStart, QPos: qStart}
}

// Advance moves the cursor past u and returns the target/query spans
// consumed by u.
func (c *Cursor) Advance(u Unit) (dTarget, dQuery int) {
	con := u.Op.Consumes()
	if con.Target {
		dTarget = u.Len
		c.TPos += u.Len
	}
	if con.Query {
		dQuery = u.Len
		c.QPos += u.Len
	}
	return dTarget, dQuery
}

// Span returns the total target and query length consumed by walking
// the whole of c from (tStart, qStart).
func Span(c Cigar, tStart, qStart int) (tEnd, qEnd int) {
	cur := NewCursor(tStart, qStart)
	for _, u := range c {
		cur.Advance(u)
	}
	return cur.TPos, cur.QPos
}

// Normalize folds = and X into M when useM is true; when useM is false
// the ops are kept as they are. In both cases adjacent units with the
// same op are merged into one. It is used by round-trip comparisons (PAF -> CHAIN -> PAF) that
// must treat "8=2X" and "10M" as equivalent after renormalization, per
// the round-trip law in the format spec.
func Normalize(c Cigar, useM bool) Cigar {
	if len(c) == 0 {
		return c
	}
	out := make(Cigar, 0, len(c))
	for _, u := range c {
		op := u.Op
		if useM && (op == Eq || op == Diff) {
			op = Match
		}
		if n := len(out); n > 0 && out[n-1].Op == op {
			out[n-1].Len += u.Len
			continue
		}
		out = append(out, Unit{Op: op, Len: u.Len})
	}
	return out
}
