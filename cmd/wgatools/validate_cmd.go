// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"

	"github.com/wgatools/wga/ioutil"
	"github.com/wgatools/wga/paf"
	"github.com/wgatools/wga/validate"
)

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	g := addGlobalFlags(fs)
	fix := fs.Bool("f", false, "repair invalid records in place before writing them out")
	fs.Parse(args)
	logger := newLogger("validate")

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

	var summary validate.Summary
	for {
		rec, err := r.Read()
		if err != nil {
			fail(logger, err)
		}
		if rec == nil {
			break
		}
		rep, err := validate.Check(rec)
		if err != nil {
			logger.Printf("skipping %s vs %s: %v", rec.QName, rec.TName, err)
			continue
		}
		summary.Add(rep)
		if !rep.OK() {
			logger.Printf("%s vs %s: target valid=%v (want tEnd=%d) query valid=%v (want qEnd=%d)",
				rec.QName, rec.TName, rep.TargetValid, rep.WantTEnd, rep.QueryValid, rep.WantQEnd)
			if *fix {
				validate.Fix(rec, rep)
			}
		}
		if err := w.Write(rec); err != nil {
			fail(logger, err)
		}
	}
	fmt.Fprintf(logger.Writer(), "validated %d records: %d target-invalid, %d query-invalid\n",
		summary.Total, summary.TargetInvalid, summary.QueryInvalid)
}
