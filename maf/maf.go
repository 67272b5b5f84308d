// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package maf implements MAF (Multiple Alignment Format) block reading
// and writing, per §4.3.1 of the format spec. A block opens with an `a`
// line, is followed by two or more `s` lines, optional `i`/`q`/`e`
// lines, and is terminated by a blank line or EOF. Leading `#` lines are
// header comments, preserved on pass-through.
package maf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/wgatools/wga/align"
	"github.com/wgatools/wga/cigar"
	"github.com/wgatools/wga/errkind"
	"github.com/wgatools/wga/ioutil"
)

// Line is a single `s` sequence line in a MAF block.
type Line struct {
	Name    string
	Start   int // 0-based; measured from the reverse-complement origin if Strand is '-'
	Size    int // ungapped length
	Strand  align.Strand
	SrcSize int    // total length of the source sequence
	Seq     string // gapped sequence, retains '-' gap characters
}

// GapCount returns the number of gap characters in the line's sequence.
func (l Line) GapCount() int { return strings.Count(l.Seq, "-") }

// Block is a single alignment block: a score, two or more sequence
// lines sharing a common gapped length, and optional annotation lines
// carried through verbatim on pass-through.
type Block struct {
	Score    *float64
	Lines    []Line
	IQELines []string // raw i/q/e annotation lines, preserved verbatim
}

// GappedLen returns the common gapped column count of the block, or 0
// if the block has no sequence lines.
func (b Block) GappedLen() int {
	if len(b.Lines) == 0 {
		return 0
	}
	return len(b.Lines[0].Seq)
}

// Validate checks the invariants of §3: every line shares the block's
// gapped length, and each line's Size equals its ungapped length.
func (b Block) Validate() error {
	if len(b.Lines) < 2 {
		return errors.New("maf: block has fewer than two sequence lines")
	}
	n := b.GappedLen()
	for i, l := range b.Lines {
		if len(l.Seq) != n {
			return errors.Errorf("maf: line %d (%s) gapped length %d != block length %d", i, l.Name, len(l.Seq), n)
		}
		if want := len(l.Seq) - l.GapCount(); want != l.Size {
			return errors.Errorf("maf: line %d (%s) size %d != ungapped length %d", i, l.Name, l.Size, want)
		}
	}
	return nil
}

// Reader reads MAF blocks from an underlying source.
type Reader struct {
	src         *ioutil.Source
	Headers     []string // leading '#' comment lines, preserved verbatim
	pending     string
	havePending bool
	done        bool
}

// NewReader reads and stashes the leading '#' header comments, then
// returns a Reader positioned at the first block.
func NewReader(src *ioutil.Source) (*Reader, error) {
	r := &Reader{src: src}
	for {
		line, err := src.ReadLine()
		if err != nil {
			r.done = true
			return r, nil
		}
		if strings.HasPrefix(line, "#") {
			r.Headers = append(r.Headers, line)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.pending = line
		r.havePending = true
		break
	}
	return r, nil
}

// Read returns the next Block, or io.EOF-equivalent nil,nil at end of
// stream (mirrors the spec's "terminated by blank line or EOF").
func (r *Reader) Read() (*Block, error) {
	if r.done && !r.havePending {
		return nil, nil
	}
	var line string
	var err error
	if r.havePending {
		line = r.pending
		r.havePending = false
	} else {
		for {
			line, err = r.src.ReadLine()
			if err != nil {
				r.done = true
				return nil, nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			break
		}
	}

	if !strings.HasPrefix(line, "a") {
		return nil, errkind.Wrapf(errkind.Parse, r.src.Path(), r.src.Line(), "maf: expected block start 'a' line, got %q", line)
	}
	block := &Block{}
	if score, ok := scoreTag(line); ok {
		block.Score = &score
	}

	for {
		line, err = r.src.ReadLine()
		if err != nil {
			r.done = true
			break
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "s":
			l, err := parseSLine(fields)
			if err != nil {
				return nil, errkind.New(errkind.Parse, r.src.Path(), r.src.Line(), err)
			}
			block.Lines = append(block.Lines, l)
		case "i", "q", "e":
			block.IQELines = append(block.IQELines, line)
		default:
			return nil, errkind.Wrapf(errkind.Parse, r.src.Path(), r.src.Line(), "maf: unknown block line kind %q", fields[0])
		}
	}
	if err := block.Validate(); err != nil {
		return nil, errkind.New(errkind.Semantic, r.src.Path(), r.src.Line(), err)
	}
	return block, nil
}

func scoreTag(aLine string) (float64, bool) {
	for _, f := range strings.Fields(aLine)[1:] {
		if strings.HasPrefix(f, "score=") {
			v, err := strconv.ParseFloat(strings.TrimPrefix(f, "score="), 64)
			if err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// ParseSLine parses a raw `s ...` MAF line into a Line. It is exported
// for mafidx, which must parse sequence lines while tracking byte
// offsets itself rather than through Reader.
func ParseSLine(line string) (Line, error) {
	return parseSLine(strings.Fields(line))
}

func parseSLine(fields []string) (Line, error) {
	if len(fields) != 7 {
		return Line{}, errors.Errorf("maf: malformed s line, want 7 fields, got %d", len(fields))
	}
	start, err := strconv.Atoi(fields[2])
	if err != nil {
		return Line{}, errors.Wrap(err, "maf: start")
	}
	size, err := strconv.Atoi(fields[3])
	if err != nil {
		return Line{}, errors.Wrap(err, "maf: size")
	}
	strand, err := align.ParseStrand(fields[4])
	if err != nil {
		return Line{}, err
	}
	srcSize, err := strconv.Atoi(fields[5])
	if err != nil {
		return Line{}, errors.Wrap(err, "maf: srcSize")
	}
	return Line{
		Name:    fields[1],
		Start:   start,
		Size:    size,
		Strand:  strand,
		SrcSize: srcSize,
		Seq:     fields[6],
	}, nil
}

// Writer writes MAF blocks.
type Writer struct {
	sink *ioutil.Sink
}

// NewWriter writes the given header comment lines and returns a Writer.
func NewWriter(sink *ioutil.Sink, headers []string) (*Writer, error) {
	for _, h := range headers {
		if err := sink.WriteString(h); err != nil {
			return nil, err
		}
	}
	return &Writer{sink: sink}, nil
}

// Write writes a single block followed by a blank separator line.
func (w *Writer) Write(b *Block) error {
	aLine := "a"
	if b.Score != nil {
		aLine += " score=" + formatScore(*b.Score)
	}
	if err := w.sink.WriteString(aLine); err != nil {
		return err
	}
	nameW, startW, sizeW, srcW := columnWidths(b.Lines)
	for _, l := range b.Lines {
		line := fmt.Sprintf("s %-*s %*d %*d %s %*d %s",
			nameW, l.Name, startW, l.Start, sizeW, l.Size, l.Strand.String(), srcW, l.SrcSize, l.Seq)
		if err := w.sink.WriteString(line); err != nil {
			return err
		}
	}
	for _, extra := range b.IQELines {
		if err := w.sink.WriteString(extra); err != nil {
			return err
		}
	}
	return w.sink.WriteString("")
}

func columnWidths(lines []Line) (name, start, size, src int) {
	for _, l := range lines {
		if len(l.Name) > name {
			name = len(l.Name)
		}
		if n := len(strconv.Itoa(l.Start)); n > start {
			start = n
		}
		if n := len(strconv.Itoa(l.Size)); n > size {
			size = n
		}
		if n := len(strconv.Itoa(l.SrcSize)); n > src {
			src = n
		}
	}
	return name, start, size, src
}

func formatScore(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// DeriveCigar walks two equal-length gapped sequences in lockstep and
// returns the CIGAR that reproduces the alignment, along with the
// number of matching bases and the block length (matches + mismatches
// + indels), per the MAF -> PAF conversion rule of §4.4.
func DeriveCigar(target, query string) (c cigar.Cigar, matches, blockLen int) {
	n := len(target)
	i := 0
	for i < n {
		switch {
		case target[i] == '-':
			j := i
			for j < n && target[j] == '-' {
				j++
			}
			c = append(c, cigar.Unit{Op: cigar.Ins, Len: j - i})
			blockLen += j - i
			i = j
		case query[i] == '-':
			j := i
			for j < n && query[j] == '-' {
				j++
			}
			c = append(c, cigar.Unit{Op: cigar.Del, Len: j - i})
			blockLen += j - i
			i = j
		default:
			j := i
			eq := basesEqualCaseInsensitive(target[i], query[i])
			for j < n && target[j] != '-' && query[j] != '-' &&
				basesEqualCaseInsensitive(target[j], query[j]) == eq {
				j++
			}
			op := cigar.Diff
			if eq {
				op = cigar.Eq
				matches += j - i
			}
			c = append(c, cigar.Unit{Op: op, Len: j - i})
			blockLen += j - i
			i = j
		}
	}
	return mergeRuns(c), matches, blockLen
}

func basesEqualCaseInsensitive(a, b byte) bool {
	return upper(a) == upper(b)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func mergeRuns(c cigar.Cigar) cigar.Cigar {
	if len(c) == 0 {
		return c
	}
	out := cigar.Cigar{c[0]}
	for _, u := range c[1:] {
		last := &out[len(out)-1]
		if last.Op == u.Op {
			last.Len += u.Len
			continue
		}
		out = append(out, u)
	}
	return out
}

// ExpandCigar re-inserts gaps into an ungapped target/query base pair
// according to c, producing the two gapped sequences a MAF `s` line
// pair requires. It is the inverse of DeriveCigar, used by PAF -> MAF
// and CHAIN -> MAF once bases have been fetched.
func ExpandCigar(c cigar.Cigar, target, query string) (gappedTarget, gappedQuery string) {
	var bt, bq strings.Builder
	ti, qi := 0, 0
	for _, u := range c {
		con := u.Op.Consumes()
		switch {
		case con.Target && con.Query:
			bt.WriteString(target[ti : ti+u.Len])
			bq.WriteString(query[qi : qi+u.Len])
			ti += u.Len
			qi += u.Len
		case con.Target && !con.Query:
			bt.WriteString(target[ti : ti+u.Len])
			bq.WriteString(strings.Repeat("-", u.Len))
			ti += u.Len
		case !con.Target && con.Query:
			bt.WriteString(strings.Repeat("-", u.Len))
			bq.WriteString(query[qi : qi+u.Len])
			qi += u.Len
		}
	}
	return bt.String(), bq.String()
}
