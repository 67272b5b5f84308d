// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validate implements the PAF coordinate validator of §4.7:
// recomputing target and query spans from a record's CIGAR via the
// cigar package's consumption table and comparing them against the
// header's declared tStart/tEnd/qStart/qEnd fields.
package validate

import (
	"github.com/wgatools/wga/paf"
)

// Report is the outcome of validating one PAF record.
type Report struct {
	Record      *paf.Record
	TargetValid bool
	QueryValid  bool
	WantTEnd    int
	WantQEnd    int
}

// OK reports whether the record's declared spans matched its CIGAR.
func (r Report) OK() bool { return r.TargetValid && r.QueryValid }

// Check recomputes rec's target/query spans from its CIGAR and
// compares them against the declared TStart/TEnd and QStart/QEnd.
func Check(rec *paf.Record) (Report, error) {
	c, err := rec.Cigar()
	if err != nil {
		return Report{}, err
	}
	tSpan, qSpan := c.Lengths()
	wantTEnd := rec.TStart + tSpan
	wantQEnd := rec.QStart + qSpan
	return Report{
		Record:      rec,
		TargetValid: wantTEnd == rec.TEnd,
		QueryValid:  wantQEnd == rec.QEnd,
		WantTEnd:    wantTEnd,
		WantQEnd:    wantQEnd,
	}, nil
}

// Fix rewrites rec's TEnd/QEnd in place to match its CIGAR, preserving
// every other field including the CIGAR itself and all tags.
func Fix(rec *paf.Record, rep Report) {
	rec.TEnd = rep.WantTEnd
	rec.QEnd = rep.WantQEnd
}

// Summary aggregates per-record reports into the counts the CLI
// reports to the user.
type Summary struct {
	Total         int
	TargetInvalid int
	QueryInvalid  int
}

// Add folds rep into s.
func (s *Summary) Add(rep Report) {
	s.Total++
	if !rep.TargetValid {
		s.TargetInvalid++
	}
	if !rep.QueryValid {
		s.QueryInvalid++
	}
}
