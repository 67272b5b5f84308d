// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ioutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")

	sink, err := OpenWrite(path, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{"one", "two", "three"} {
		if err := sink.WriteString(line); err != nil {
			t.Fatal(err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	src, err := OpenRead(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	var got []string
	for {
		line, err := src.ReadLine()
		if err != nil {
			break
		}
		got = append(got, line)
	}
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if src.Line() != 3 {
		t.Errorf("Line() = %d, want 3", src.Line())
	}
}

func TestOpenWriteRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenWrite(path, false); err == nil {
		t.Fatal("expected Conflict error for existing path without rewrite")
	}
	if _, err := OpenWrite(path, true); err != nil {
		t.Fatalf("rewrite=true should succeed: %v", err)
	}
}

func TestOpenWriteRejectsBzip2(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bz2")
	if _, err := OpenWrite(path, true); err == nil {
		t.Fatal("expected error writing .bz2")
	}
}

func TestGzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt.gz")
	sink, err := OpenWrite(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.WriteString("compressed"); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	src, err := OpenRead(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	line, err := src.ReadLine()
	if err != nil {
		t.Fatal(err)
	}
	if line != "compressed" {
		t.Errorf("got %q, want %q", line, "compressed")
	}
}
