// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"log"

	"github.com/wgatools/wga/chain"
	"github.com/wgatools/wga/convert"
	"github.com/wgatools/wga/ioutil"
	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/paf"
)

func runMAF2PAF(args []string) {
	fs := flag.NewFlagSet("maf2paf", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fs.Parse(args)
	logger := newLogger("maf2paf")

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
	w := paf.NewWriter(sink)

	next := func() (interface{}, bool, error) {
		b, err := r.Read()
		if err != nil || b == nil {
			return nil, false, err
		}
		return b, true, nil
	}
	runConvertPipeline(g, logger, next, func(in interface{}) (interface{}, error) {
		return convert.MAF2PAF(in.(*maf.Block))
	}, func(out interface{}) error {
		return w.Write(out.(*paf.Record))
	})
}

func runMAF2Chain(args []string) {
	fs := flag.NewFlagSet("maf2chain", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fs.Parse(args)
	logger := newLogger("maf2chain")

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
	w := chain.NewWriter(sink)

	next := func() (interface{}, bool, error) {
		b, err := r.Read()
		if err != nil || b == nil {
			return nil, false, err
		}
		return b, true, nil
	}
	runConvertPipeline(g, logger, next, func(in interface{}) (interface{}, error) {
		return convert.MAF2Chain(in.(*maf.Block))
	}, func(out interface{}) error {
		return w.Write(out.(*chain.Record))
	})
}

func runPAF2MAF(args []string) {
	fs := flag.NewFlagSet("paf2maf", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fetcherOf := openFetcherFlag(fs)
	fs.Parse(args)
	logger := newLogger("paf2maf")

	fetcher, err := fetcherOf()
	if err != nil {
		fail(logger, err)
	}
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
	w, err := maf.NewWriter(sink, nil)
	if err != nil {
		fail(logger, err)
	}

	next := func() (interface{}, bool, error) {
		rec, err := r.Read()
		if err != nil || rec == nil {
			return nil, false, err
		}
		return rec, true, nil
	}
	runConvertPipeline(g, logger, next, func(in interface{}) (interface{}, error) {
		return convert.PAF2MAF(in.(*paf.Record), fetcher)
	}, func(out interface{}) error {
		return w.Write(out.(*maf.Block))
	})
}

func runPAF2Chain(args []string) {
	fs := flag.NewFlagSet("paf2chain", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fs.Parse(args)
	logger := newLogger("paf2chain")

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
	w := chain.NewWriter(sink)

	next := func() (interface{}, bool, error) {
		rec, err := r.Read()
		if err != nil || rec == nil {
			return nil, false, err
		}
		return rec, true, nil
	}
	runConvertPipeline(g, logger, next, func(in interface{}) (interface{}, error) {
		return convert.PAF2Chain(in.(*paf.Record))
	}, func(out interface{}) error {
		return w.Write(out.(*chain.Record))
	})
}

func runChain2MAF(args []string) {
	fs := flag.NewFlagSet("chain2maf", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fetcherOf := openFetcherFlag(fs)
	fs.Parse(args)
	logger := newLogger("chain2maf")

	fetcher, err := fetcherOf()
	if err != nil {
		fail(logger, err)
	}
	src, err := ioutil.OpenRead(fs.Arg(0))
	if err != nil {
		fail(logger, err)
	}
	defer src.Close()
	r := chain.NewReader(src)
	sink, err := g.openSink()
	if err != nil {
		fail(logger, err)
	}
	defer sink.Close()
	w, err := maf.NewWriter(sink, nil)
	if err != nil {
		fail(logger, err)
	}

	next := func() (interface{}, bool, error) {
		rec, err := r.Read()
		if err != nil || rec == nil {
			return nil, false, err
		}
		return rec, true, nil
	}
	runConvertPipeline(g, logger, next, func(in interface{}) (interface{}, error) {
		return convert.Chain2MAF(in.(*chain.Record), fetcher)
	}, func(out interface{}) error {
		return w.Write(out.(*maf.Block))
	})
}

func runChain2PAF(args []string) {
	fs := flag.NewFlagSet("chain2paf", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fs.Parse(args)
	logger := newLogger("chain2paf")

	src, err := ioutil.OpenRead(fs.Arg(0))
	if err != nil {
		fail(logger, err)
	}
	defer src.Close()
	r := chain.NewReader(src)
	sink, err := g.openSink()
	if err != nil {
		fail(logger, err)
	}
	defer sink.Close()
	w := paf.NewWriter(sink)

	next := func() (interface{}, bool, error) {
		rec, err := r.Read()
		if err != nil || rec == nil {
			return nil, false, err
		}
		return rec, true, nil
	}
	runConvertPipeline(g, logger, next, func(in interface{}) (interface{}, error) {
		return convert.Chain2PAF(in.(*chain.Record))
	}, func(out interface{}) error {
		return w.Write(out.(*paf.Record))
	})
}

// runConvertPipeline wires a next()-shaped reader, a convert.Pipeline
// using g.threads workers, and an emit function together, logging and
// exiting on the first unrecoverable error. A per-record Convert
// failure is logged and skipped rather than aborting the whole pass,
// so one malformed record in a large batch does not cost the rest of
// the file's conversions.
func runConvertPipeline(g *globals, logger *log.Logger, next func() (interface{}, bool, error), convertFn func(interface{}) (interface{}, error), emit func(interface{}) error) {
	p := &convert.Pipeline{
		Workers: g.threads,
		Convert: convertFn,
		Emit:    emit,
		OnError: func(in interface{}, err error) error {
			logger.Printf("skipping record: %v", err)
			return nil
		},
	}
	if err := p.Run(next); err != nil {
		fail(logger, err)
	}
}
