// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"

	"github.com/wgatools/wga/auxpass"
	"github.com/wgatools/wga/ioutil"
	"github.com/wgatools/wga/paf"
)

func runStat(args []string) {
	fs := flag.NewFlagSet("stat", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fs.Parse(args)
	logger := newLogger("stat")

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

	var stats []auxpass.RecordStat
	for {
		rec, err := r.Read()
		if err != nil {
			fail(logger, err)
		}
		if rec == nil {
			break
		}
		c, err := rec.Cigar()
		if err != nil {
			logger.Printf("skipping %s vs %s: %v", rec.QName, rec.TName, err)
			continue
		}
		s := auxpass.Stat(c)
		stats = append(stats, s)
		line := fmt.Sprintf("%s\t%s\tmatches=%d\tmismatches=%d\tins=%d\tdel=%d\tidentity=%.4f",
			rec.TName, rec.QName, s.Matches, s.Mismatches, s.Insertions, s.Deletions, s.Identity)
		if err := sink.WriteString(line); err != nil {
			fail(logger, err)
		}
	}

	agg := auxpass.AggregateStats(stats)
	summary := fmt.Sprintf("# total\trecords=%d\tmatches=%d\tmismatches=%d\tins=%d\tdel=%d\tmean_identity=%.4f\tstddev_identity=%.4f",
		agg.Records, agg.TotalMatches, agg.TotalMismatches, agg.TotalInsertions, agg.TotalDeletions, agg.MeanIdentity, agg.StdDevIdentity)
	if err := sink.WriteString(summary); err != nil {
		fail(logger, err)
	}
}
