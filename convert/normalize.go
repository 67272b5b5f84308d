// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package convert implements the Conversion Kernel of §4.4 of the
// format spec: six directed converters between MAF, PAF and CHAIN,
// sharing the align.Record normalized intermediate (design notes,
// "Polymorphism over formats": a NormalizedRecord plus parse_X/emit_X
// free functions rather than a deep format hierarchy).
package convert

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/wgatools/wga/align"
	"github.com/wgatools/wga/chain"
	"github.com/wgatools/wga/cigar"
	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/paf"
)

// NormalizeMAF derives the normalized Record for a two-line MAF block,
// computing the CIGAR by walking the gapped sequences in lockstep
// (§4.4, MAF -> PAF). MAF blocks with more than two sequence lines are
// treated pairwise over the first two lines (conventionally target then
// query); additional lines are passengers that only MAF -> MAF passes
// (chunk, rename) preserve.
func NormalizeMAF(b *maf.Block) (align.Record, error) {
	if len(b.Lines) < 2 {
		return align.Record{}, errors.New("convert: MAF block needs at least two sequence lines")
	}
	t, q := b.Lines[0], b.Lines[1]
	c, matches, blockLen := maf.DeriveCigar(t.Seq, q.Seq)
	qStart, qEnd := align.StrandProject(q.Start, q.Start+q.Size, q.SrcSize, q.Strand)
	rec := align.Record{
		TName: t.Name, TLen: t.SrcSize, TStart: t.Start, TEnd: t.Start + t.Size,
		QName: q.Name, QLen: q.SrcSize, QStart: qStart, QEnd: qEnd, QStrand: q.Strand,
		Cigar: c,
	}
	rec.Tags = map[string]align.Tag{
		"__matches":  {Kind: 'i', Value: strconv.Itoa(matches)},
		"__blockLen": {Kind: 'i', Value: strconv.Itoa(blockLen)},
	}
	if b.Score != nil {
		score := int(*b.Score)
		rec.Score = &score
	}
	return rec, nil
}

// DenormalizeMAF rebuilds a two-line MAF block from a normalized
// Record, given the ungapped target/query bases (on their natural '+'
// strands) obtained from a SequenceFetcher. It is the inverse of
// NormalizeMAF, used by PAF -> MAF and CHAIN -> MAF (§4.4).
func DenormalizeMAF(r align.Record, tSeq, qSeq string) *maf.Block {
	gt, gq := maf.ExpandCigar(r.Cigar, tSeq, qSeq)
	qLineStart, qLineEnd := align.StrandProject(r.QStart, r.QEnd, r.QLen, r.QStrand)
	block := &maf.Block{
		Lines: []maf.Line{
			{Name: r.TName, Start: r.TStart, Size: r.TEnd - r.TStart, Strand: align.Plus, SrcSize: r.TLen, Seq: gt},
			{Name: r.QName, Start: qLineStart, Size: qLineEnd - qLineStart, Strand: r.QStrand, SrcSize: r.QLen, Seq: gq},
		},
	}
	if r.Score != nil {
		score := float64(*r.Score)
		block.Score = &score
	}
	return block
}

// NormalizePAF converts a PAF record to the normalized Record. PAF
// coordinates are already expressed in the normalized frame (query
// start/end on the query's forward strand, target always '+'), so this
// is a direct field mapping plus a CIGAR parse.
func NormalizePAF(r *paf.Record) (align.Record, error) {
	c, err := r.Cigar()
	if err != nil {
		return align.Record{}, err
	}
	rec := align.Record{
		TName: r.TName, TLen: r.TLen, TStart: r.TStart, TEnd: r.TEnd,
		QName: r.QName, QLen: r.QLen, QStart: r.QStart, QEnd: r.QEnd, QStrand: r.Strand,
		Cigar: c, Tags: r.Tags,
	}
	score := r.MapQ
	rec.Score = &score
	return rec, nil
}

// DenormalizePAF converts a normalized Record to a PAF record. Matches
// and block length are taken from the __matches/__blockLen bookkeeping
// tags NormalizeMAF attaches when bases were compared; otherwise (e.g.
// from CHAIN, where no base comparison occurred) they are derived from
// CIGAR: block length is the larger of the two spans and every =, X or
// M base counts as a match. MapQ is carried through from r.Score only
// when the record originated from a PAF record (its Tags carry cg, and
// NormalizePAF stashes MapQ in Score); otherwise it is 255.
func DenormalizePAF(r align.Record) *paf.Record {
	rec := &paf.Record{
		QName: r.QName, QLen: r.QLen, QStart: r.QStart, QEnd: r.QEnd, Strand: r.QStrand,
		TName: r.TName, TLen: r.TLen, TStart: r.TStart, TEnd: r.TEnd,
		MapQ: 255,
	}
	if _, fromPAF := r.Tags["cg"]; fromPAF && r.Score != nil {
		rec.MapQ = *r.Score
	}
	if m, bl, ok := bookkeeping(r.Tags); ok {
		rec.Matches, rec.BlockLen = m, bl
	} else {
		tSpan, qSpan := r.Cigar.Lengths()
		rec.BlockLen = max(tSpan, qSpan)
		for _, u := range r.Cigar {
			if u.Op == cigar.Eq || u.Op == cigar.Diff || u.Op == cigar.Match {
				rec.Matches += u.Len
			}
		}
	}
	for k, t := range r.Tags {
		if len(k) >= 2 && k[0] == '_' && k[1] == '_' {
			continue
		}
		if rec.Tags == nil {
			rec.Tags = make(map[string]align.Tag)
		}
		rec.Tags[k] = t
	}
	rec.SetCigar(r.Cigar)
	return rec
}

func bookkeeping(tags map[string]align.Tag) (matches, blockLen int, ok bool) {
	mt, mok := tags["__matches"]
	bt, bok := tags["__blockLen"]
	if !mok || !bok {
		return 0, 0, false
	}
	m, err1 := strconv.Atoi(mt.Value)
	b, err2 := strconv.Atoi(bt.Value)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return m, b, true
}

// NormalizeChain converts a chain Record to the normalized Record,
// reconstructing the CIGAR as size x M then dt x D then dq x I per
// segment (§4.4, CHAIN -> MAF / CHAIN -> PAF).
func NormalizeChain(r *chain.Record) align.Record {
	c := chain.ExpandSegments(r.Segments)
	score := int(r.Score)
	return align.Record{
		TName: r.TName, TLen: r.TSize, TStart: r.TStart, TEnd: r.TEnd,
		QName: r.QName, QLen: r.QSize, QStart: r.QStart, QEnd: r.QEnd, QStrand: r.QStrand,
		Cigar: c, Score: &score,
	}
}

// DenormalizeChain folds a normalized Record's CIGAR into CHAIN
// run-length segments (§4.4, MAF -> CHAIN / PAF -> CHAIN).
func DenormalizeChain(r align.Record) *chain.Record {
	score := 0
	if r.Score != nil {
		score = *r.Score
	}
	return &chain.Record{
		Score: float64(score),
		TName: r.TName, TSize: r.TLen, TStrand: align.Plus, TStart: r.TStart, TEnd: r.TEnd,
		QName: r.QName, QSize: r.QLen, QStrand: r.QStrand, QStart: r.QStart, QEnd: r.QEnd,
		Segments: chain.FoldCigar(r.Cigar),
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
