// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/wgatools/wga/auxpass"
	"github.com/wgatools/wga/ioutil"
	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/paf"
)

// runPafPseudo buckets an all-vs-all PAF by reference sequence and
// emits one pseudo-MAF per reference. With -o "-" every reference's
// blocks are concatenated to stdout behind a "# reference: NAME"
// marker line; otherwise -o names a directory and one NAME.maf file is
// written per reference.
func runPafPseudo(args []string) {
	fs := flag.NewFlagSet("pafpseudo", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fetcherOf := openFetcherFlag(fs)
	fs.Parse(args)
	logger := newLogger("pafpseudo")

	fetcher, err := fetcherOf()
	if err != nil {
		fail(logger, err)
	}
	if fetcher == nil {
		usageError("pafpseudo: --fasta is required to materialize pseudo-MAF bases")
	}

	src, err := ioutil.OpenRead(fs.Arg(0))
	if err != nil {
		fail(logger, err)
	}
	defer src.Close()
	r := paf.NewReader(src)

	var recs []*paf.Record
	for {
		rec, err := r.Read()
		if err != nil {
			fail(logger, err)
		}
		if rec == nil {
			break
		}
		recs = append(recs, rec)
	}

	byRef, err := auxpass.PseudoMAF(recs, fetcher)
	if err != nil {
		fail(logger, err)
	}
	names := auxpass.RefNames(byRef)

	if g.out == "-" {
		sink, err := g.openSink()
		if err != nil {
			fail(logger, err)
		}
		defer sink.Close()
		for _, name := range names {
			if err := sink.WriteString(fmt.Sprintf("# reference: %s", name)); err != nil {
				fail(logger, err)
			}
			w, err := maf.NewWriter(sink, nil)
			if err != nil {
				fail(logger, err)
			}
			for _, b := range byRef[name] {
				if err := w.Write(b); err != nil {
					fail(logger, err)
				}
			}
		}
		return
	}

	for _, name := range names {
		out := filepath.Join(g.out, name+".maf")
		sink, err := ioutil.OpenWrite(out, g.rewrite)
		if err != nil {
			fail(logger, err)
		}
		w, err := maf.NewWriter(sink, nil)
		if err != nil {
			fail(logger, err)
		}
		for _, b := range byRef[name] {
			if err := w.Write(b); err != nil {
				fail(logger, err)
			}
		}
		if err := sink.Close(); err != nil {
			fail(logger, err)
		}
	}
}
