// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package variant

import (
	"testing"

	"github.com/wgatools/wga/align"
	"github.com/wgatools/wga/cigar"
)

func TestCallSNPInsDel(t *testing.T) {
	tSeq := "AAAAA" + "G" + "CCC" + "--" + "TTTT" + "A" + "CCC"
	qSeq := "AAAAA" + "T" + "CCC" + "GG" + "TTTT" + "-" + "CCC"
	c, err := cigar.Parse("5=1X3=2I4=1D3=")
	if err != nil {
		t.Fatal(err)
	}
	rec := align.Record{
		TName: "ref.chr1", TStart: 100, TEnd: 100 + 17,
		QName: "qry.chr1", QStart: 0, QEnd: 18, QStrand: align.Plus,
		Cigar: c,
	}
	caller := NewCaller(DefaultOptions())
	vs, err := caller.Call(Input{Rec: rec, TGapped: tSeq, QGapped: qSeq})
	if err != nil {
		t.Fatal(err)
	}
	var snp, ins, del *Variant
	for _, v := range vs {
		switch v.SVType {
		case "SNP":
			snp = v
		case "INS":
			ins = v
		case "DEL":
			del = v
		}
	}
	if snp == nil || snp.Pos != 105 || snp.Ref != "G" || snp.Alt != "T" {
		t.Errorf("SNP = %+v, want pos=105 ref=G alt=T", snp)
	}
	if ins == nil || ins.Pos != 108 || ins.Ref != "C" || ins.Alt != "CGG" {
		t.Errorf("INS = %+v, want pos=108 ref=C alt=CGG", ins)
	}
	if del == nil || del.Ref[0] != 'T' || len(del.Ref) != 2 {
		t.Errorf("DEL = %+v, want anchor T followed by one deleted base", del)
	}
}

func TestCallSuppressSNP(t *testing.T) {
	c, _ := cigar.Parse("1X")
	rec := align.Record{TName: "t", TStart: 0, TEnd: 1, QName: "q", QStart: 0, QEnd: 1, QStrand: align.Plus, Cigar: c}
	caller := NewCaller(Options{SuppressSNP: true})
	vs, err := caller.Call(Input{Rec: rec, TGapped: "A", QGapped: "G"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vs) != 0 {
		t.Errorf("got %d variants, want 0 with SuppressSNP", len(vs))
	}
}

func TestCallSuppressShortIndel(t *testing.T) {
	c, _ := cigar.Parse("4=2I4=")
	rec := align.Record{TName: "t", TStart: 0, TEnd: 8, QName: "q", QStart: 0, QEnd: 10, QStrand: align.Plus, Cigar: c}
	caller := NewCaller(Options{SuppressShortIndel: true, SVLenThreshold: 50})
	vs, err := caller.Call(Input{Rec: rec, TGapped: "AAAA--AAAA", QGapped: "AAAAGGAAAA"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vs) != 0 {
		t.Errorf("got %d variants, want 0 (indel below svlen threshold suppressed)", len(vs))
	}
}

func TestCallBatchInversion(t *testing.T) {
	caller := NewCaller(DefaultOptions())
	a := align.Record{
		TName: "ref.chr1", TStart: 100, TEnd: 200,
		QName: "qA", QStart: 0, QEnd: 100, QStrand: align.Plus,
		Cigar: cigar.Cigar{{Op: cigar.Eq, Len: 100}},
	}
	b := align.Record{
		TName: "ref.chr1", TStart: 120, TEnd: 180,
		QName: "qB", QStart: 0, QEnd: 60, QStrand: align.Minus,
		Cigar: cigar.Cigar{{Op: cigar.Eq, Len: 60}},
	}
	inputs := []Input{
		{Rec: a, TGapped: repeat("A", 100), QGapped: repeat("A", 100)},
		{Rec: b, TGapped: repeat("A", 60), QGapped: repeat("A", 60)},
	}
	vs, err := caller.CallBatch(inputs)
	if err != nil {
		t.Fatal(err)
	}
	var inv *Variant
	for _, v := range vs {
		if v.SVType == "INV" {
			inv = v
		}
	}
	if inv == nil {
		t.Fatal("expected an INV variant")
	}
	if inv.Pos != 120 || inv.End != 180 {
		t.Errorf("INV = %+v, want pos=120 end=180", inv)
	}
}

func repeat(s string, n int) string {
	b := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		b = append(b, s...)
	}
	return string(b)
}
