// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/wgatools/wga/auxpass"
	"github.com/wgatools/wga/ioutil"
	"github.com/wgatools/wga/paf"
)

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	g := addGlobalFlags(fs)
	minQuery := fs.Int("q", 0, "minimum query sequence length")
	minAlign := fs.Int("a", 0, "minimum target alignment span")
	minBlock := fs.Int("b", 0, "minimum block length")
	fs.Parse(args)
	logger := newLogger("filter")

	thresh := auxpass.FilterThresholds{MinBlockLen: *minBlock, MinQuerySize: *minQuery, MinAlignSize: *minAlign}

	src, err := ioutil.OpenRead(fs.Arg(0))
	if err != nil {
		fail(logger, err)
	}
	defer src.Close()
	r := paf.NewReader(src)
	sink, err := g.openSink()
	if err != nil {
		fail(logger, err)
	}
	defer sink.Close()
	w := paf.NewWriter(sink)

	kept, dropped := 0, 0
	for {
		rec, err := r.Read()
		if err != nil {
			fail(logger, err)
		}
		if rec == nil {
			break
		}
		if !auxpass.Keep(rec, thresh) {
			dropped++
			continue
		}
		kept++
		if err := w.Write(rec); err != nil {
			fail(logger, err)
		}
	}
	g.debugf(logger, 1, "kept %d, dropped %d", kept, dropped)
}
