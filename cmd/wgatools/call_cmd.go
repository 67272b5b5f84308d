// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/wgatools/wga/convert"
	"github.com/wgatools/wga/ioutil"
	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/paf"
	"github.com/wgatools/wga/seqfetch"
	"github.com/wgatools/wga/variant"
)

func runCall(args []string) {
	fs := flag.NewFlagSet("call", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fetcherOf := openFetcherFlag(fs)
	suppressSNP := fs.Bool("s", false, "suppress SNP calls")
	svLen := fs.Int("l", 50, "indels strictly shorter than this are suppressed when --short-indel is set")
	suppressShortIndel := fs.Bool("short-indel", false, "suppress indels shorter than -l")
	coalesceMNV := fs.Bool("mnv", false, "coalesce consecutive mismatching columns into one MNV instead of per-base SNPs")
	format := fs.String("fmt", "maf", "input record format: maf or paf")
	fs.Parse(args)
	logger := newLogger("call")

	fetcher, err := fetcherOf()
	if err != nil {
		fail(logger, err)
	}

	opts := variant.Options{
		SuppressSNP:        *suppressSNP,
		SuppressShortIndel: *suppressShortIndel,
		SVLenThreshold:     *svLen,
		CoalesceMNV:        *coalesceMNV,
	}
	caller := variant.NewCaller(opts)

	src, err := ioutil.OpenRead(fs.Arg(0))
	if err != nil {
		fail(logger, err)
	}
	defer src.Close()

	var inputs []variant.Input
	switch *format {
	case "maf":
		r, err := maf.NewReader(src)
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
			rec, err := convert.NormalizeMAF(b)
			if err != nil {
				logger.Printf("skipping block: %v", err)
				continue
			}
			inputs = append(inputs, variant.Input{Rec: rec, TGapped: b.Lines[0].Seq, QGapped: b.Lines[1].Seq})
		}
	case "paf":
		if fetcher == nil {
			usageError("call: --fasta is required to materialize bases for PAF input")
		}
		r := paf.NewReader(src)
		for {
			p, err := r.Read()
			if err != nil {
				fail(logger, err)
			}
			if p == nil {
				break
			}
			in, err := pafToInput(p, fetcher)
			if err != nil {
				logger.Printf("skipping %s vs %s: %v", p.QName, p.TName, err)
				continue
			}
			inputs = append(inputs, in)
		}
	default:
		usageError("call: --fmt must be maf or paf, got %q", *format)
	}

	variants, err := caller.CallBatch(inputs)
	if err != nil {
		fail(logger, err)
	}

	sink, err := g.openSink()
	if err != nil {
		fail(logger, err)
	}
	defer sink.Close()
	if err := variant.WriteVCF(sink.WriteString, variants); err != nil {
		fail(logger, err)
	}
}

// pafToInput normalizes a PAF record and materializes its gapped
// target/query sequences through fetcher, expanding the record's CIGAR
// against the fetched bases the same way DenormalizeMAF does for
// PAF2MAF, so the caller can walk them column by column.
func pafToInput(p *paf.Record, fetcher seqfetch.Fetcher) (variant.Input, error) {
	rec, err := convert.NormalizePAF(p)
	if err != nil {
		return variant.Input{}, err
	}
	tSeq, err := fetcher.Fetch(rec.TName, rec.TStart, rec.TEnd)
	if err != nil {
		return variant.Input{}, err
	}
	qSeq, err := seqfetch.FetchStrand(fetcher, rec.QName, rec.QStart, rec.QEnd, rec.QStrand)
	if err != nil {
		return variant.Input{}, err
	}
	tGapped, qGapped := maf.ExpandCigar(rec.Cigar, tSeq, qSeq)
	return variant.Input{Rec: rec, TGapped: tGapped, QGapped: qGapped}, nil
}
