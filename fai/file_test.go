// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fai_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/wgatools/wga/fai"
	"github.com/wgatools/wga/seqfetch"
)

const testFASTA = ">chr1\n" +
	"ACGTACGTACGTACGTACGTACGTACGTACGTACGTACGT\n" +
	">chr2\n" +
	"TTTTGGGGCCCCAAAATTTTGGGGCCCCAAAA\n"

// writeTestFASTA writes a small two-sequence reference and its companion
// FAI index to a temp directory, mirroring how cmd/wgatools's
// readOrBuildFai populates a .fai next to a FASTA the first time it is
// used.
func writeTestFASTA(t *testing.T) (path string, idx fai.Index) {
	t.Helper()
	dir := t.TempDir()
	path = filepath.Join(dir, "ref.fa")
	if err := os.WriteFile(path, []byte(testFASTA), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	idx, err = fai.NewIndex(f)
	if err != nil {
		t.Fatal(err)
	}
	return path, idx
}

func TestFileSeqRange(t *testing.T) {
	path, idx := writeTestFASTA(t)
	f, err := fai.OpenFile(path, idx)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	seq, err := f.SeqRange("chr1", 4, 12)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 8)
	n, err := seq.Read(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("Read: %v", err)
	}
	if got, want := string(buf[:n]), "ACGTACGT"; got != want {
		t.Errorf("SeqRange(chr1, 4, 12) = %q, want %q", got, want)
	}

	seq.Reset()
	n, err = seq.Read(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("Read after Reset: %v", err)
	}
	if got, want := string(buf[:n]), "ACGTACGT"; got != want {
		t.Errorf("after Reset, SeqRange(chr1, 4, 12) = %q, want %q", got, want)
	}

	if _, err := f.SeqRange("chr1", 5, 3); err == nil {
		t.Error("expected an error for an inverted range")
	}
	if _, err := f.Seq("chr3"); err == nil {
		t.Error("expected an error for an unindexed sequence")
	}
}

// TestFASTAFetcherOverFile drives fai.File the way the conversion
// kernel actually does: through seqfetch.FASTAFetcher's Fetch/Len
// call shape, not fai's own lower-level Seq cursor API.
func TestFASTAFetcherOverFile(t *testing.T) {
	path, idx := writeTestFASTA(t)
	fetcher, err := seqfetch.OpenFASTA(path, idx)
	if err != nil {
		t.Fatal(err)
	}
	defer fetcher.Close()

	bases, err := fetcher.Fetch("chr1", 0, 8)
	if err != nil {
		t.Fatal(err)
	}
	if want := "ACGTACGT"; bases != want {
		t.Errorf("Fetch(chr1, 0, 8) = %q, want %q", bases, want)
	}

	n, err := fetcher.Len("chr2")
	if err != nil {
		t.Fatal(err)
	}
	if want := 32; n != want {
		t.Errorf("Len(chr2) = %d, want %d", n, want)
	}

	if got, want := fetcher.Names(), []string{"chr1", "chr2"}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	if _, err := fetcher.Fetch("chr3", 0, 1); err == nil {
		t.Error("expected an error fetching an unindexed sequence")
	}
}
