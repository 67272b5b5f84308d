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

func runPafCov(args []string) {
	fs := flag.NewFlagSet("pafcov", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fs.Parse(args)
	logger := newLogger("pafcov")

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

	sink, err := g.openSink()
	if err != nil {
		fail(logger, err)
	}
	defer sink.Close()

	for _, c := range auxpass.Coverage(recs) {
		line := fmt.Sprintf("%s\t%d\t%d\t%d", c.Name, c.Start, c.End, c.Depth)
		if err := sink.WriteString(line); err != nil {
			fail(logger, err)
		}
	}
}
