// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package auxpass

import (
	"strings"
	"testing"

	"github.com/wgatools/wga/align"
	"github.com/wgatools/wga/cigar"
	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/paf"
)

func TestChunkSplitsByColumns(t *testing.T) {
	tSeq := strings.Repeat("A", 250)
	qSeq := strings.Repeat("A", 250)
	b := &maf.Block{
		Lines: []maf.Line{
			{Name: "ref", Start: 0, Size: 250, Strand: align.Plus, SrcSize: 1000, Seq: tSeq},
			{Name: "qry", Start: 0, Size: 250, Strand: align.Plus, SrcSize: 1000, Seq: qSeq},
		},
	}
	chunks := Chunk(b, 100)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	wantLens := []int{100, 100, 50}
	for i, c := range chunks {
		if c.GappedLen() != wantLens[i] {
			t.Errorf("chunk %d gapped len = %d, want %d", i, c.GappedLen(), wantLens[i])
		}
		if err := c.Validate(); err != nil {
			t.Errorf("chunk %d invalid: %v", i, err)
		}
	}
	if chunks[1].Lines[0].Start != 100 || chunks[2].Lines[0].Start != 200 {
		t.Errorf("chunk starts = %d, %d, want 100, 200", chunks[1].Lines[0].Start, chunks[2].Lines[0].Start)
	}
}

func TestChunkNoSplitWhenUnderLimit(t *testing.T) {
	b := &maf.Block{Lines: []maf.Line{
		{Name: "ref", Seq: "ACGT", Size: 4, SrcSize: 10, Strand: align.Plus},
		{Name: "qry", Seq: "ACGT", Size: 4, SrcSize: 10, Strand: align.Plus},
	}}
	chunks := Chunk(b, 100)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
}

func TestKeepThresholds(t *testing.T) {
	rec := &paf.Record{TStart: 0, TEnd: 40, QLen: 500, BlockLen: 45}
	if !Keep(rec, FilterThresholds{MinBlockLen: 40, MinQuerySize: 400, MinAlignSize: 30}) {
		t.Error("expected record to pass thresholds")
	}
	if Keep(rec, FilterThresholds{MinBlockLen: 100}) {
		t.Error("expected record to fail block length threshold")
	}
}

func TestRenamePAFRejectsDoubleApply(t *testing.T) {
	rec := &paf.Record{TName: "chr1", QName: "chr2"}
	if err := RenamePAF(rec, "REF.", "QUERY."); err != nil {
		t.Fatal(err)
	}
	if rec.TName != "REF.chr1" || rec.QName != "QUERY.chr2" {
		t.Errorf("renamed = %s / %s", rec.TName, rec.QName)
	}
	if err := RenamePAF(rec, "REF.", "QUERY."); err == nil {
		t.Error("expected second rename to be rejected")
	}
}

func TestStatIdentity(t *testing.T) {
	c := cigar.Cigar{{Op: cigar.Eq, Len: 8}, {Op: cigar.Diff, Len: 2}}
	s := Stat(c)
	if s.Matches != 8 || s.Mismatches != 2 || s.AlignedLen != 10 {
		t.Errorf("stat = %+v", s)
	}
	if s.Identity != 0.8 {
		t.Errorf("identity = %v, want 0.8", s.Identity)
	}
}

func TestAggregateStats(t *testing.T) {
	stats := []RecordStat{
		{Matches: 8, Mismatches: 2, AlignedLen: 10, Identity: 0.8},
		{Matches: 10, Mismatches: 0, AlignedLen: 10, Identity: 1.0},
	}
	agg := AggregateStats(stats)
	if agg.Records != 2 || agg.TotalMatches != 18 {
		t.Errorf("aggregate = %+v", agg)
	}
	if agg.MeanIdentity < 0.89 || agg.MeanIdentity > 0.91 {
		t.Errorf("mean identity = %v, want ~0.9", agg.MeanIdentity)
	}
}

func TestCoverageMergesOverlaps(t *testing.T) {
	recs := []*paf.Record{
		{TName: "chr1", TStart: 0, TEnd: 10},
		{TName: "chr1", TStart: 5, TEnd: 15},
	}
	cov := Coverage(recs)
	var total int
	for _, c := range cov {
		total += c.End - c.Start
	}
	if total != 15 {
		t.Errorf("total covered bases = %d, want 15", total)
	}
	foundDepth2 := false
	for _, c := range cov {
		if c.Depth == 2 {
			foundDepth2 = true
			if c.Start != 5 || c.End != 10 {
				t.Errorf("depth-2 interval = [%d,%d), want [5,10)", c.Start, c.End)
			}
		}
	}
	if !foundDepth2 {
		t.Error("expected a depth-2 interval over the overlap")
	}
}
