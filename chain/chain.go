// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chain implements UCSC CHAIN format record reading and
// writing, per §4.3.3 of the format spec: a `chain` header line
// followed by lines of one or three integers, terminated by a
// single-integer line, with chains separated by a blank line.
package chain

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/wgatools/wga/align"
	"github.com/wgatools/wga/cigar"
	"github.com/wgatools/wga/errkind"
	"github.com/wgatools/wga/ioutil"
)

// Segment is one (size, dt, dq) triple, or a terminating (size) with
// Last set to true.
type Segment struct {
	Size int
	DT   int // gap in target following this run; 0 on the terminating segment
	DQ   int // gap in query following this run; 0 on the terminating segment
	Last bool
}

// Record is a single chain: its header fields plus the ordered run-length
// segments.
type Record struct {
	Score        float64
	TName        string
	TSize        int
	TStrand      align.Strand
	TStart, TEnd int
	QName        string
	QSize        int
	QStrand      align.Strand
	QStart, QEnd int
	ID           string
	Segments     []Segment
}

// Validate checks the invariant of §3: the sum of segment sizes plus dt
// (respectively dq) equals the target (respectively query) span.
func (r *Record) Validate() error {
	var sumSize, sumDT, sumDQ int
	for _, s := range r.Segments {
		sumSize += s.Size
		sumDT += s.DT
		sumDQ += s.DQ
	}
	if sumSize+sumDT != r.TEnd-r.TStart {
		return errors.Errorf("chain: sum(size)+sum(dt) = %d, want tEnd-tStart = %d", sumSize+sumDT, r.TEnd-r.TStart)
	}
	if sumSize+sumDQ != r.QEnd-r.QStart {
		return errors.Errorf("chain: sum(size)+sum(dq) = %d, want qEnd-qStart = %d", sumSize+sumDQ, r.QEnd-r.QStart)
	}
	return nil
}

// Reader reads chain records separated by blank lines.
type Reader struct {
	src *ioutil.Source
}

// NewReader returns a Reader over src.
func NewReader(src *ioutil.Source) *Reader { return &Reader{src: src} }

// Read returns the next Record, or nil, nil at end of stream.
func (r *Reader) Read() (*Record, error) {
	var header string
	for {
		var err error
		header, err = r.src.ReadLine()
		if err != nil {
			return nil, nil
		}
		if strings.TrimSpace(header) != "" {
			break
		}
	}
	rec, err := parseHeader(header)
	if err != nil {
		return nil, errkind.New(errkind.Parse, r.src.Path(), r.src.Line(), err)
	}
	for {
		line, err := r.src.ReadLine()
		if err != nil {
			break
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		seg, err := parseSegment(line)
		if err != nil {
			return nil, errkind.New(errkind.Parse, r.src.Path(), r.src.Line(), err)
		}
		rec.Segments = append(rec.Segments, seg)
	}
	if err := rec.Validate(); err != nil {
		return nil, errkind.New(errkind.Semantic, r.src.Path(), r.src.Line(), err)
	}
	return rec, nil
}

func parseHeader(line string) (*Record, error) {
	f := strings.Fields(line)
	if len(f) < 12 || f[0] != "chain" {
		return nil, errors.Errorf("chain: malformed header %q", line)
	}
	rec := &Record{}
	var err error
	if rec.Score, err = strconv.ParseFloat(f[1], 64); err != nil {
		return nil, errors.Wrap(err, "chain: score")
	}
	rec.TName = f[2]
	if rec.TSize, err = strconv.Atoi(f[3]); err != nil {
		return nil, errors.Wrap(err, "chain: tSize")
	}
	if rec.TStrand, err = align.ParseStrand(f[4]); err != nil {
		return nil, err
	}
	if rec.TStart, err = strconv.Atoi(f[5]); err != nil {
		return nil, errors.Wrap(err, "chain: tStart")
	}
	if rec.TEnd, err = strconv.Atoi(f[6]); err != nil {
		return nil, errors.Wrap(err, "chain: tEnd")
	}
	rec.QName = f[7]
	if rec.QSize, err = strconv.Atoi(f[8]); err != nil {
		return nil, errors.Wrap(err, "chain: qSize")
	}
	if rec.QStrand, err = align.ParseStrand(f[9]); err != nil {
		return nil, err
	}
	if rec.QStart, err = strconv.Atoi(f[10]); err != nil {
		return nil, errors.Wrap(err, "chain: qStart")
	}
	if rec.QEnd, err = strconv.Atoi(f[11]); err != nil {
		return nil, errors.Wrap(err, "chain: qEnd")
	}
	if len(f) > 12 {
		rec.ID = f[12]
	}
	return rec, nil
}

func parseSegment(line string) (Segment, error) {
	f := strings.Fields(line)
	size, err := strconv.Atoi(f[0])
	if err != nil {
		return Segment{}, errors.Wrap(err, "chain: segment size")
	}
	if len(f) == 1 {
		return Segment{Size: size, Last: true}, nil
	}
	if len(f) != 3 {
		return Segment{}, errors.Errorf("chain: segment line must have 1 or 3 fields, got %d", len(f))
	}
	dt, err := strconv.Atoi(f[1])
	if err != nil {
		return Segment{}, errors.Wrap(err, "chain: dt")
	}
	dq, err := strconv.Atoi(f[2])
	if err != nil {
		return Segment{}, errors.Wrap(err, "chain: dq")
	}
	return Segment{Size: size, DT: dt, DQ: dq}, nil
}

// Writer writes chain records.
type Writer struct {
	sink *ioutil.Sink
	n    int
}

// NewWriter returns a Writer over sink.
func NewWriter(sink *ioutil.Sink) *Writer { return &Writer{sink: sink} }

// Write writes a single chain, separated from any previous chain by a
// blank line.
func (w *Writer) Write(r *Record) error {
	if w.n > 0 {
		if err := w.sink.WriteString(""); err != nil {
			return err
		}
	}
	w.n++
	header := strings.Join([]string{
		"chain", formatFloat(r.Score),
		r.TName, strconv.Itoa(r.TSize), r.TStrand.String(), strconv.Itoa(r.TStart), strconv.Itoa(r.TEnd),
		r.QName, strconv.Itoa(r.QSize), r.QStrand.String(), strconv.Itoa(r.QStart), strconv.Itoa(r.QEnd),
	}, " ")
	if r.ID != "" {
		header += " " + r.ID
	}
	if err := w.sink.WriteString(header); err != nil {
		return err
	}
	for _, s := range r.Segments {
		var line string
		if s.Last {
			line = strconv.Itoa(s.Size)
		} else {
			line = strconv.Itoa(s.Size) + "\t" + strconv.Itoa(s.DT) + "\t" + strconv.Itoa(s.DQ)
		}
		if err := w.sink.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FoldCigar collapses a CIGAR into (size, dt, dq) run segments, where
// size is the length of a run of aligned (no-gap) positions, dt is the
// following D/N run length, and dq is the following I run length, per
// the MAF -> CHAIN and PAF -> CHAIN conversion rule of §4.4.
func FoldCigar(c cigar.Cigar) []Segment {
	var segs []Segment
	var size, dt, dq int
	flush := func() {
		if size != 0 || dt != 0 || dq != 0 || len(segs) == 0 {
			segs = append(segs, Segment{Size: size, DT: dt, DQ: dq})
		}
		size, dt, dq = 0, 0, 0
	}
	for _, u := range c {
		switch u.Op {
		case cigar.Eq, cigar.Diff, cigar.Match:
			if dt != 0 || dq != 0 {
				flush()
			}
			size += u.Len
		case cigar.Del, cigar.Skip:
			dt += u.Len
		case cigar.Ins:
			dq += u.Len
		}
	}
	flush()
	if n := len(segs); n > 0 {
		last := segs[n-1]
		if last.DT != 0 || last.DQ != 0 {
			// The CIGAR ends on a gap (D/N or I) with no further aligned
			// run, but chain's grammar requires the terminal segment to
			// be a bare size with no trailing gap. Rather than drop the
			// gap, keep it on the preceding segment and append a
			// zero-length terminal block to carry the required bare line.
			segs = append(segs, Segment{Last: true})
		} else {
			segs[n-1].Last = true
		}
	}
	return segs
}

// ExpandSegments reconstructs a CIGAR as size x {=,M} then dt x D then
// dq x I per segment, per the CHAIN -> MAF / CHAIN -> PAF conversion
// rule of §4.4. Aligned runs are emitted as M, since the chain format
// does not distinguish matches from mismatches.
func ExpandSegments(segs []Segment) cigar.Cigar {
	var c cigar.Cigar
	for _, s := range segs {
		if s.Size > 0 {
			c = append(c, cigar.Unit{Op: cigar.Match, Len: s.Size})
		}
		if s.DT > 0 {
			c = append(c, cigar.Unit{Op: cigar.Del, Len: s.DT})
		}
		if s.DQ > 0 {
			c = append(c, cigar.Unit{Op: cigar.Ins, Len: s.DQ})
		}
	}
	return c
}
