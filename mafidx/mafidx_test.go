// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mafidx

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const testMAF = "##maf version=1\n" +
	"a score=100\n" +
	"s ref.chr1 10 10 + 1000 ACGTACGTAC\n" +
	"s qry.chr1 20 10 + 1000 ACGTACGTAC\n" +
	"\n" +
	"a score=50\n" +
	"s ref.chr1 30 10 + 1000 TTTTTTTTTT\n" +
	"s qry.chr1 40 10 + 1000 TTTTTTTTTT\n" +
	"\n"

func writeTestMAF(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "t.maf")
	if err := os.WriteFile(path, []byte(testMAF), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildAndQuery(t *testing.T) {
	path := writeTestMAF(t)
	idx, err := Build(path)
	if err != nil {
		t.Fatal(err)
	}
	entries, warn := idx.Query("ref.chr1", 12, 14)
	if warn != "" {
		t.Fatalf("unexpected warning: %s", warn)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Start != 10 || entries[0].End != 20 {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestQueryEdgeCases(t *testing.T) {
	path := writeTestMAF(t)
	idx, err := Build(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, warn := idx.Query("ref.chr1", 5, 5); warn == "" {
		t.Error("expected warning for empty region")
	}
	if _, warn := idx.Query("nope", 0, 10); warn == "" {
		t.Error("expected warning for unknown name")
	}
	if _, warn := idx.Query("ref.chr1", 1000, 2000); warn == "" {
		t.Error("expected warning for uncovered region")
	}
}

func TestExtractClips(t *testing.T) {
	path := writeTestMAF(t)
	idx, err := Build(path)
	if err != nil {
		t.Fatal(err)
	}
	entries, warn := idx.Query("ref.chr1", 12, 14)
	if warn != "" {
		t.Fatal(warn)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	block, err := Extract(f, entries[0], 12, 14)
	if err != nil {
		t.Fatal(err)
	}
	if block.Lines[0].Start != 12 || block.Lines[0].Size != 2 {
		t.Errorf("clipped line = %+v", block.Lines[0])
	}
	if block.Lines[0].Seq != "GT" {
		t.Errorf("clipped seq = %q, want GT", block.Lines[0].Seq)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := writeTestMAF(t)
	idx, err := Build(path)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteTo(&buf, idx); err != nil {
		t.Fatal(err)
	}
	idx2, err := ReadFrom(&buf)
	if err != nil {
		t.Fatal(err)
	}
	entries1, _ := idx.Query("ref.chr1", 0, 1000)
	entries2, _ := idx2.Query("ref.chr1", 0, 1000)
	if len(entries1) != len(entries2) {
		t.Fatalf("round trip entry count mismatch: %d vs %d", len(entries1), len(entries2))
	}
}
