// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"testing"

	"github.com/wgatools/wga/align"
	"github.com/wgatools/wga/chain"
	"github.com/wgatools/wga/cigar"
	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/paf"
	"github.com/wgatools/wga/seqfetch"
)

func testBlock() *maf.Block {
	return &maf.Block{
		Lines: []maf.Line{
			{Name: "ref.chr1", Start: 10, Size: 5, Strand: align.Plus, SrcSize: 1000, Seq: "ACGT-A"},
			{Name: "qry.chr1", Start: 20, Size: 6, Strand: align.Plus, SrcSize: 1000, Seq: "ACGTTA"},
		},
	}
}

func TestMAF2PAF(t *testing.T) {
	rec, err := MAF2PAF(testBlock())
	if err != nil {
		t.Fatal(err)
	}
	if rec.TName != "ref.chr1" || rec.TStart != 10 || rec.TEnd != 15 {
		t.Errorf("target = %s:%d-%d", rec.TName, rec.TStart, rec.TEnd)
	}
	if rec.QName != "qry.chr1" || rec.QStart != 20 || rec.QEnd != 26 {
		t.Errorf("query = %s:%d-%d", rec.QName, rec.QStart, rec.QEnd)
	}
	c, err := rec.Cigar()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := c.String(), "4=1I1="; got != want {
		t.Errorf("cigar = %s, want %s", got, want)
	}
}

func TestMAF2Chain(t *testing.T) {
	rec, err := MAF2Chain(testBlock())
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Validate(); err != nil {
		t.Fatal(err)
	}
	if rec.TStart != 10 || rec.TEnd != 15 || rec.QStart != 20 || rec.QEnd != 26 {
		t.Errorf("chain coords = t[%d,%d) q[%d,%d)", rec.TStart, rec.TEnd, rec.QStart, rec.QEnd)
	}
}

func testFetcher() seqfetch.MemFetcher {
	return seqfetch.MemFetcher{
		"ref.chr1": "NNNNNNNNNNACGTANNNN",
		"qry.chr1": "NNNNNNNNNNNNNNNNNNNNACGTTANNNN",
	}
}

func TestPAF2MAF(t *testing.T) {
	rec := &paf.Record{
		QName: "qry.chr1", QLen: 1000, QStart: 20, QEnd: 26, Strand: align.Plus,
		TName: "ref.chr1", TLen: 1000, TStart: 10, TEnd: 15,
		Matches: 5, BlockLen: 6, MapQ: 255,
	}
	rec.SetCigar(cigar.Cigar{{Op: cigar.Eq, Len: 4}, {Op: cigar.Ins, Len: 1}, {Op: cigar.Eq, Len: 1}})

	block, err := PAF2MAF(rec, testFetcher())
	if err != nil {
		t.Fatal(err)
	}
	if err := block.Validate(); err != nil {
		t.Fatal(err)
	}
	if block.Lines[0].Seq != "ACGT-A" {
		t.Errorf("target seq = %q, want ACGT-A", block.Lines[0].Seq)
	}
	if block.Lines[1].Seq != "ACGTTA" {
		t.Errorf("query seq = %q, want ACGTTA", block.Lines[1].Seq)
	}
}

func TestPAF2MAFMissingFetcher(t *testing.T) {
	rec := &paf.Record{QName: "q", TName: "t", Strand: align.Plus}
	rec.SetCigar(cigar.Cigar{{Op: cigar.Match, Len: 4}})
	if _, err := PAF2MAF(rec, nil); err == nil {
		t.Error("expected error when fetcher is nil")
	}
}

func TestPAF2Chain(t *testing.T) {
	rec := &paf.Record{
		QName: "q", QLen: 100, QStart: 0, QEnd: 9, Strand: align.Plus,
		TName: "t", TLen: 100, TStart: 0, TEnd: 9,
		Matches: 8, BlockLen: 10, MapQ: 60,
	}
	rec.SetCigar(cigar.Cigar{{Op: cigar.Eq, Len: 4}, {Op: cigar.Ins, Len: 1}, {Op: cigar.Eq, Len: 4}, {Op: cigar.Del, Len: 1}})
	c, err := PAF2Chain(rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestChain2PAFAndBack(t *testing.T) {
	c := &chain.Record{
		Score: 1000,
		TName: "t", TSize: 1000, TStrand: align.Plus, TStart: 10, TEnd: 20,
		QName: "q", QSize: 1000, QStrand: align.Plus, QStart: 30, QEnd: 42,
		Segments: []chain.Segment{{Size: 5, DT: 0, DQ: 2}, {Size: 5, Last: true}},
	}
	rec, err := Chain2PAF(c)
	if err != nil {
		t.Fatal(err)
	}
	back, err := PAF2Chain(rec)
	if err != nil {
		t.Fatal(err)
	}
	if back.TStart != c.TStart || back.TEnd != c.TEnd || back.QStart != c.QStart || back.QEnd != c.QEnd {
		t.Errorf("round trip coords mismatch: got %+v, want %+v", back, c)
	}
}

func TestMAF2PAF2MAFRoundTrip(t *testing.T) {
	orig := testBlock()
	rec, err := MAF2PAF(orig)
	if err != nil {
		t.Fatal(err)
	}
	back, err := PAF2MAF(rec, testFetcher())
	if err != nil {
		t.Fatal(err)
	}
	if back.Lines[0].Seq != orig.Lines[0].Seq || back.Lines[1].Seq != orig.Lines[1].Seq {
		t.Errorf("round trip sequences mismatch: got %q/%q, want %q/%q",
			back.Lines[0].Seq, back.Lines[1].Seq, orig.Lines[0].Seq, orig.Lines[1].Seq)
	}
}

func TestReverseStrandProjection(t *testing.T) {
	block := &maf.Block{
		Lines: []maf.Line{
			{Name: "ref.chr1", Start: 10, Size: 4, Strand: align.Plus, SrcSize: 100, Seq: "ACGT"},
			{Name: "qry.chr1", Start: 6, Size: 4, Strand: align.Minus, SrcSize: 20, Seq: "ACGT"},
		},
	}
	rec, err := MAF2PAF(block)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Strand != align.Minus {
		t.Fatalf("strand = %v, want -", rec.Strand)
	}
	if rec.QStart != 10 || rec.QEnd != 14 {
		t.Errorf("projected query coords = [%d,%d), want [10,14)", rec.QStart, rec.QEnd)
	}
}

func TestPipelineOrdersResultsByInput(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5}
	idx := 0
	var out []int
	p := Pipeline{
		Workers: 4,
		Convert: func(in interface{}) (interface{}, error) {
			n := in.(int)
			return n * n, nil
		},
		Emit: func(o interface{}) error {
			out = append(out, o.(int))
			return nil
		},
	}
	err := p.Run(func() (interface{}, bool, error) {
		if idx >= len(items) {
			return nil, false, nil
		}
		v := items[idx]
		idx++
		return v, true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 4, 9, 16, 25}
	if len(out) != len(want) {
		t.Fatalf("got %d results, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}
