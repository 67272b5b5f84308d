// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"strings"

	"github.com/wgatools/wga/auxpass"
	"github.com/wgatools/wga/ioutil"
	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/paf"
)

func runRename(args []string) {
	fs := flag.NewFlagSet("rename", flag.ExitOnError)
	g := addGlobalFlags(fs)
	prefixes := fs.String("prefixs", ",", "comma-separated target,query prefixes, e.g. REF.,QUERY.")
	format := fs.String("fmt", "paf", "input/output record format: paf or maf")
	fs.Parse(args)
	logger := newLogger("rename")

	parts := strings.SplitN(*prefixes, ",", 2)
	if len(parts) != 2 {
		usageError("rename: --prefixs wants \"target,query\", got %q", *prefixes)
	}
	targetPrefix, queryPrefix := parts[0], parts[1]

	src, err := ioutil.OpenRead(fs.Arg(0))
	if err != nil {
		fail(logger, err)
	}
	defer src.Close()
	sink, err := g.openSink()
	if err != nil {
		fail(logger, err)
	}
	defer sink.Close()

	switch *format {
	case "paf":
		r := paf.NewReader(src)
		w := paf.NewWriter(sink)
		for {
			rec, err := r.Read()
			if err != nil {
				fail(logger, err)
			}
			if rec == nil {
				break
			}
			if err := auxpass.RenamePAF(rec, targetPrefix, queryPrefix); err != nil {
				logger.Printf("skipping record: %v", err)
				continue
			}
			if err := w.Write(rec); err != nil {
				fail(logger, err)
			}
		}
	case "maf":
		r, err := maf.NewReader(src)
		if err != nil {
			fail(logger, err)
		}
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
			if err := auxpass.RenameMAF(b, targetPrefix, queryPrefix); err != nil {
				logger.Printf("skipping block: %v", err)
				continue
			}
			if err := w.Write(b); err != nil {
				fail(logger, err)
			}
		}
	default:
		usageError("rename: --fmt must be paf or maf, got %q", *format)
	}
}
