// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package variant implements the VCF v4.4 variant caller of §4.6 of
// the format spec: SNP/INS/DEL calls derived by walking a CIGAR
// against its two gapped sequences, plus inversion detection across
// sibling records sharing a target region.
package variant

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wgatools/wga/align"
	"github.com/wgatools/wga/cigar"
)

// Options controls suppression and the SNP/MNV coalescing policy.
type Options struct {
	SuppressSNP        bool
	SuppressShortIndel bool
	SVLenThreshold     int // indels strictly shorter than this are "short"; default 50
	CoalesceMNV        bool
}

// DefaultOptions returns the caller's default thresholds.
func DefaultOptions() Options { return Options{SVLenThreshold: 50} }

// Variant is a single called VCF record.
type Variant struct {
	ID      string
	Chrom   string
	Pos     int // 1-based-equivalent target coordinate of the event's anchor/start
	Ref     string
	Alt     string
	SVType  string // "SNP", "INS", "DEL", "INV"
	SVLen   int
	End     int      // set for INV, INS and DEL; zero for SNP
	InvNest []string // variant IDs nested within an INV, INV records only
	GT      string
	QI      string // name@start@end@strand
}

// Caller calls variants from alignment records and assigns them
// sequential IDs.
type Caller struct {
	Opts   Options
	nextID int
}

// NewCaller returns a Caller configured with opts.
func NewCaller(opts Options) *Caller {
	if opts.SVLenThreshold == 0 {
		opts.SVLenThreshold = 50
	}
	return &Caller{Opts: opts}
}

func (c *Caller) newID() string {
	c.nextID++
	return "var" + strconv.Itoa(c.nextID)
}

// Input pairs a normalized alignment record with the gapped
// target/query sequences its CIGAR was derived from (or expanded
// into, for PAF records resolved through a SequenceFetcher).
type Input struct {
	Rec              align.Record
	TGapped, QGapped string
}

// Call emits the SNP/INS/DEL variants found by walking in.Rec's CIGAR
// against its gapped sequences. It does not perform inversion
// detection; use CallBatch for that.
func (c *Caller) Call(in Input) ([]*Variant, error) {
	t, q := in.TGapped, in.QGapped
	if len(t) != len(q) {
		return nil, fmt.Errorf("variant: gapped sequences differ in length (%d vs %d)", len(t), len(q))
	}
	rec := in.Rec
	qi := formatQI(rec)

	var out []*Variant
	cur := cigar.NewCursor(rec.TStart, rec.QStart)
	gi := 0
	for _, u := range rec.Cigar {
		con := u.Op.Consumes()
		switch u.Op {
		case cigar.Eq, cigar.Diff, cigar.Match:
			out = append(out, c.scanRun(t, q, gi, u.Len, cur.TPos, rec.TName, qi)...)
		case cigar.Ins:
			if v := c.callIndel("INS", t, q, gi, u.Len, cur.TPos, rec.TName, qi); v != nil {
				out = append(out, v)
			}
		case cigar.Del, cigar.Skip:
			if v := c.callIndel("DEL", t, q, gi, u.Len, cur.TPos, rec.TName, qi); v != nil {
				out = append(out, v)
			}
		}
		cur.Advance(u)
		if con.Target || con.Query {
			gi += u.Len
		}
	}
	return out, nil
}

// scanRun walks an Eq/Diff/Match run of length runLen starting at
// gapped offset gi (target position tPos), emitting one SNP per
// mismatching column, or coalesced MNVs when CoalesceMNV is set.
func (c *Caller) scanRun(t, q string, gi, runLen, tPos int, chrom, qi string) []*Variant {
	if c.Opts.SuppressSNP {
		return nil
	}
	var out []*Variant
	col := 0
	for col < runLen {
		if basesEqual(t[gi+col], q[gi+col]) {
			col++
			continue
		}
		span := 1
		if c.Opts.CoalesceMNV {
			for col+span < runLen && !basesEqual(t[gi+col+span], q[gi+col+span]) {
				span++
			}
		}
		out = append(out, &Variant{
			ID:     c.newID(),
			Chrom:  chrom,
			Pos:    tPos + col,
			Ref:    t[gi+col : gi+col+span],
			Alt:    q[gi+col : gi+col+span],
			SVType: "SNP",
			SVLen:  span,
			GT:     "1",
			QI:     qi,
		})
		col += span
	}
	return out
}

// callIndel emits an INS or DEL event of length opLen starting at
// gapped offset gi. The anchor base is the target base immediately
// preceding the event (the last non-gap target column before gi), per
// the VCF anchor-base convention.
func (c *Caller) callIndel(kind string, t, q string, gi, opLen, tPos int, chrom, qi string) *Variant {
	if c.Opts.SuppressShortIndel && opLen < c.Opts.SVLenThreshold {
		return nil
	}
	anchor := precedingBase(t, gi)
	var ref, alt string
	var pos, end int
	switch kind {
	case "INS":
		ins := q[gi : gi+opLen]
		ref = string(anchor)
		alt = string(anchor) + ins
		pos = tPos - 1
		end = pos
	case "DEL":
		del := t[gi : gi+opLen]
		ref = string(anchor) + del
		alt = string(anchor)
		pos = tPos - 1
		end = tPos + opLen - 1
	}
	return &Variant{
		ID:     c.newID(),
		Chrom:  chrom,
		Pos:    pos,
		Ref:    ref,
		Alt:    alt,
		SVType: kind,
		SVLen:  opLen,
		End:    end,
		GT:     "1",
		QI:     qi,
	}
}

// precedingBase returns the last non-gap target base strictly before
// gapped offset gi, or 'N' if none exists (event at sequence start).
func precedingBase(t string, gi int) byte {
	for i := gi - 1; i >= 0; i-- {
		if t[i] != '-' {
			return t[i]
		}
	}
	return 'N'
}

func basesEqual(a, b byte) bool { return upper(a) == upper(b) }

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func formatQI(rec align.Record) string {
	return fmt.Sprintf("%s@%d@%d@%s", rec.QName, rec.QStart, rec.QEnd, rec.QStrand.String())
}

// CallBatch calls variants over every input, then detects inversions:
// a Minus-strand record whose target envelope overlaps a Plus-strand
// sibling's envelope on the same target name emits one INV variant
// spanning its own envelope, with INV_NEST listing the IDs of the
// variants called from that minus-strand record. The full result is
// sorted by (Chrom, Pos), per §4.6.
func (c *Caller) CallBatch(inputs []Input) ([]*Variant, error) {
	var all []*Variant
	perRecord := make([][]*Variant, len(inputs))
	trees := make(map[string]*ivTree)
	plusEnvelope := make(map[string][]int) // chrom -> ids with Plus strand, index into inputs

	for i, in := range inputs {
		vs, err := c.Call(in)
		if err != nil {
			return nil, err
		}
		perRecord[i] = vs
		all = append(all, vs...)

		chrom := in.Rec.TName
		t, ok := trees[chrom]
		if !ok {
			t = &ivTree{}
			trees[chrom] = t
		}
		t.Insert(in.Rec.TStart, in.Rec.TEnd, i)
		if in.Rec.QStrand == align.Plus {
			plusEnvelope[chrom] = append(plusEnvelope[chrom], i)
		}
	}

	for i, in := range inputs {
		if in.Rec.QStrand != align.Minus {
			continue
		}
		t := trees[in.Rec.TName]
		overlaps := t.Overlapping(in.Rec.TStart, in.Rec.TEnd)
		hasPlusSibling := false
		for _, j := range overlaps {
			if j == i {
				continue
			}
			if inputs[j].Rec.QStrand == align.Plus {
				hasPlusSibling = true
				break
			}
		}
		if !hasPlusSibling {
			continue
		}
		var nested []string
		for _, v := range perRecord[i] {
			nested = append(nested, v.ID)
		}
		all = append(all, &Variant{
			ID:      c.newID(),
			Chrom:   in.Rec.TName,
			Pos:     in.Rec.TStart,
			Ref:     ".",
			Alt:     "<INV>",
			SVType:  "INV",
			SVLen:   in.Rec.TEnd - in.Rec.TStart,
			End:     in.Rec.TEnd,
			InvNest: nested,
			GT:      "1",
			QI:      formatQI(in.Rec),
		})
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Chrom != all[j].Chrom {
			return all[i].Chrom < all[j].Chrom
		}
		return all[i].Pos < all[j].Pos
	})
	return all, nil
}

// WriteVCF renders variants as a minimal VCF v4.4 stream to w (via the
// ioutil.Sink write callback pattern used by the rest of the engine):
// a fixed header, then one data line per variant with the INFO/FORMAT
// schema of §4.6.
func WriteVCF(writeLine func(string) error, variants []*Variant) error {
	header := []string{
		"##fileformat=VCFv4.4",
		`##INFO=<ID=SVTYPE,Number=1,Type=String,Description="Type of structural variant">`,
		`##INFO=<ID=SVLEN,Number=1,Type=Integer,Description="Length of variant">`,
		`##INFO=<ID=END,Number=1,Type=Integer,Description="End position of the variant">`,
		`##INFO=<ID=INV_NEST,Number=.,Type=String,Description="IDs of variants nested within an inversion">`,
		`##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`,
		`##FORMAT=<ID=QI,Number=1,Type=String,Description="Query coordinates: name@start@end@strand">`,
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tSAMPLE",
	}
	for _, h := range header {
		if err := writeLine(h); err != nil {
			return err
		}
	}
	for _, v := range variants {
		info := []string{"SVTYPE=" + v.SVType, "SVLEN=" + strconv.Itoa(v.SVLen)}
		if v.End != 0 {
			info = append(info, "END="+strconv.Itoa(v.End))
		}
		if len(v.InvNest) > 0 {
			info = append(info, "INV_NEST="+strings.Join(v.InvNest, ","))
		}
		line := strings.Join([]string{
			v.Chrom, strconv.Itoa(v.Pos), v.ID, v.Ref, v.Alt, ".", ".",
			strings.Join(info, ";"), "GT:QI", v.GT + ":" + v.QI,
		}, "\t")
		if err := writeLine(line); err != nil {
			return err
		}
	}
	return nil
}
