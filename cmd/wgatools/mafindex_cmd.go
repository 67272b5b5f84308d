// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"

	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/mafidx"
)

// runMAFIndex builds a MAF Index for the file given as the sole
// positional argument and writes it to that path with ".idx" appended
// (or to -o, if given explicitly).
func runMAFIndex(args []string) {
	fs := flag.NewFlagSet("maf-index", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fs.Parse(args)
	logger := newLogger("maf-index")

	path := fs.Arg(0)
	if path == "" || path == "-" {
		usageError("maf-index: requires an uncompressed MAF file path (byte offsets are meaningless over a decompressing stream)")
	}
	idx, err := mafidx.Build(path)
	if err != nil {
		fail(logger, err)
	}

	out := g.out
	if out == "-" {
		out = path + ".idx"
	}
	if _, err := os.Stat(out); err == nil && !g.rewrite {
		logger.Fatalf("refusing to overwrite existing index %s without -r", out)
	}
	f, err := os.Create(out)
	if err != nil {
		fail(logger, err)
	}
	defer f.Close()
	if err := mafidx.WriteTo(f, idx); err != nil {
		fail(logger, err)
	}
	g.debugf(logger, 1, "indexed %d sequences from %s into %s", len(idx.Names()), path, out)
}

// runMAFExtract queries a previously built MAF Index for the blocks
// overlapping --name:--start---end and writes them, clipped to that
// region, to the output.
func runMAFExtract(args []string) {
	fs := flag.NewFlagSet("maf-ext", flag.ExitOnError)
	g := addGlobalFlags(fs)
	idxPath := fs.String("idx", "", "path to a .idx file built by maf-index")
	name := fs.String("name", "", "reference sequence name")
	start := fs.Int("start", 0, "region start (0-based)")
	end := fs.Int("end", 0, "region end (half-open)")
	fs.Parse(args)
	logger := newLogger("maf-ext")

	mafPath := fs.Arg(0)
	if mafPath == "" || *idxPath == "" || *name == "" {
		usageError("maf-ext: usage: maf-ext --idx FILE.idx --name CHROM --start S --end E FILE.maf")
	}

	idxFile, err := os.Open(*idxPath)
	if err != nil {
		fail(logger, err)
	}
	defer idxFile.Close()
	idx, err := mafidx.ReadFrom(idxFile)
	if err != nil {
		fail(logger, err)
	}

	entries, warning := idx.Query(*name, *start, *end)
	if warning != "" {
		logger.Print(warning)
	}
	if len(entries) == 0 {
		return
	}

	mafFile, err := os.Open(mafPath)
	if err != nil {
		fail(logger, err)
	}
	defer mafFile.Close()

	sink, err := g.openSink()
	if err != nil {
		fail(logger, err)
	}
	defer sink.Close()
	w, err := maf.NewWriter(sink, nil)
	if err != nil {
		fail(logger, err)
	}

	for _, e := range entries {
		block, err := mafidx.Extract(mafFile, e, *start, *end)
		if err != nil {
			logger.Printf("skipping block at offset %d: %v", e.Offset, err)
			continue
		}
		if err := w.Write(block); err != nil {
			fail(logger, err)
		}
	}
}
