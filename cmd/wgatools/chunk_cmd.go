// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/wgatools/wga/auxpass"
	"github.com/wgatools/wga/ioutil"
	"github.com/wgatools/wga/maf"
)

func runChunk(args []string) {
	fs := flag.NewFlagSet("chunk", flag.ExitOnError)
	g := addGlobalFlags(fs)
	maxCols := fs.Int("l", 10000, "maximum gapped columns per output block")
	fs.Parse(args)
	logger := newLogger("chunk")

	src, err := ioutil.OpenRead(fs.Arg(0))
	if err != nil {
		fail(logger, err)
	}
	defer src.Close()
	r, err := maf.NewReader(src)
	if err != nil {
		fail(logger, err)
	}
	sink, err := g.openSink()
	if err != nil {
		fail(logger, err)
	}
	defer sink.Close()
	w, err := maf.NewWriter(sink, r.Headers)
	if err != nil {
		fail(logger, err)
	}

	for {
		b, err := r.Read()
		if err != nil {
			fail(logger, err)
		}
		if b == nil {
			break
		}
		for _, chunk := range auxpass.Chunk(b, *maxCols) {
			if err := w.Write(chunk); err != nil {
				fail(logger, err)
			}
		}
	}
}
