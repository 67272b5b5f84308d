// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package paf implements PAF (Pairwise mApping Format) record reading
// and writing, per §4.3.2 of the format spec: 12 tab-delimited mandatory
// columns followed by key-typed tags such as `cg:Z:...`.
package paf

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/wgatools/wga/align"
	"github.com/wgatools/wga/cigar"
	"github.com/wgatools/wga/errkind"
	"github.com/wgatools/wga/ioutil"
)

// ErrMissingCigar is returned when a conversion requiring the `cg:Z`
// tag is attempted on a record that lacks one.
var ErrMissingCigar = errors.New("paf: missing cg:Z CIGAR tag")

// Record is a single PAF alignment line.
type Record struct {
	QName        string
	QLen         int
	QStart, QEnd int
	Strand       align.Strand
	TName        string
	TLen         int
	TStart, TEnd int
	Matches      int
	BlockLen     int
	MapQ         int
	Tags         map[string]align.Tag // key is the two-letter tag, e.g. "cg", "NM"
}

// Cigar returns the parsed `cg:Z` tag, or ErrMissingCigar if absent.
func (r *Record) Cigar() (cigar.Cigar, error) {
	t, ok := r.Tags["cg"]
	if !ok {
		return nil, ErrMissingCigar
	}
	return cigar.Parse(t.Value)
}

// SetCigar installs c as the record's `cg:Z` tag.
func (r *Record) SetCigar(c cigar.Cigar) {
	if r.Tags == nil {
		r.Tags = make(map[string]align.Tag)
	}
	r.Tags["cg"] = align.Tag{Kind: 'Z', Value: c.String()}
}

// Reader reads PAF records line by line.
type Reader struct {
	src *ioutil.Source
}

// NewReader returns a Reader over src.
func NewReader(src *ioutil.Source) *Reader { return &Reader{src: src} }

// Read returns the next Record, or nil, nil at end of stream.
func (r *Reader) Read() (*Record, error) {
	var line string
	for {
		var err error
		line, err = r.src.ReadLine()
		if err != nil {
			return nil, nil
		}
		if strings.TrimSpace(line) != "" {
			break
		}
	}
	rec, err := Parse(line)
	if err != nil {
		return nil, errkind.New(errkind.Parse, r.src.Path(), r.src.Line(), err)
	}
	return rec, nil
}

// Parse parses a single tab-delimited PAF line.
func Parse(line string) (*Record, error) {
	f := strings.Split(line, "\t")
	if len(f) < 12 {
		return nil, errors.Errorf("paf: want at least 12 fields, got %d", len(f))
	}
	rec := &Record{QName: f[0], TName: f[5]}
	var err error
	if rec.QLen, err = atoi(f[1]); err != nil {
		return nil, err
	}
	if rec.QStart, err = atoi(f[2]); err != nil {
		return nil, err
	}
	if rec.QEnd, err = atoi(f[3]); err != nil {
		return nil, err
	}
	if rec.Strand, err = align.ParseStrand(f[4]); err != nil {
		return nil, err
	}
	if rec.TLen, err = atoi(f[6]); err != nil {
		return nil, err
	}
	if rec.TStart, err = atoi(f[7]); err != nil {
		return nil, err
	}
	if rec.TEnd, err = atoi(f[8]); err != nil {
		return nil, err
	}
	if rec.Matches, err = atoi(f[9]); err != nil {
		return nil, err
	}
	if rec.BlockLen, err = atoi(f[10]); err != nil {
		return nil, err
	}
	if rec.MapQ, err = atoi(f[11]); err != nil {
		return nil, err
	}
	for _, tf := range f[12:] {
		if strings.TrimSpace(tf) == "" {
			continue
		}
		key, tag, err := parseTag(tf)
		if err != nil {
			return nil, err
		}
		if rec.Tags == nil {
			rec.Tags = make(map[string]align.Tag)
		}
		rec.Tags[key] = tag
	}
	return rec, nil
}

func parseTag(s string) (key string, tag align.Tag, err error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || len(parts[1]) != 1 {
		return "", align.Tag{}, errors.Errorf("paf: malformed tag %q", s)
	}
	return parts[0], align.Tag{Kind: parts[1][0], Value: parts[2]}, nil
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "paf: field %q", s)
	}
	return n, nil
}

// String renders rec as a tab-delimited PAF line. Tags are emitted in a
// stable order (cg first, then remaining keys sorted) so output is
// deterministic across runs.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.QName)
	b.WriteByte('\t')
	writeFields(&b,
		strconv.Itoa(r.QLen), strconv.Itoa(r.QStart), strconv.Itoa(r.QEnd),
		r.Strand.String(), r.TName, strconv.Itoa(r.TLen), strconv.Itoa(r.TStart),
		strconv.Itoa(r.TEnd), strconv.Itoa(r.Matches), strconv.Itoa(r.BlockLen), strconv.Itoa(r.MapQ))
	for _, key := range orderedTagKeys(r.Tags) {
		t := r.Tags[key]
		b.WriteByte('\t')
		b.WriteString(key)
		b.WriteByte(':')
		b.WriteByte(t.Kind)
		b.WriteByte(':')
		b.WriteString(t.Value)
	}
	return b.String()
}

func writeFields(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(f)
	}
}

func orderedTagKeys(tags map[string]align.Tag) []string {
	var keys []string
	_, hasCg := tags["cg"]
	if hasCg {
		keys = append(keys, "cg")
	}
	var rest []string
	for k := range tags {
		if k == "cg" {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Writer writes PAF records.
type Writer struct {
	sink *ioutil.Sink
}

// NewWriter returns a Writer over sink.
func NewWriter(sink *ioutil.Sink) *Writer { return &Writer{sink: sink} }

// Write writes a single record.
func (w *Writer) Write(r *Record) error { return w.sink.WriteString(r.String()) }
