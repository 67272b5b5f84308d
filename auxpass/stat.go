// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package auxpass

import (
	"gonum.org/v1/gonum/stat"

	"github.com/wgatools/wga/cigar"
)

// RecordStat is the per-record identity/count breakdown §4.8 asks for.
type RecordStat struct {
	Matches    int
	Mismatches int
	Insertions int
	Deletions  int
	AlignedLen int // matches + mismatches + insertions + deletions
	Identity   float64
}

// Stat walks c and tallies matches/mismatches/indels. A CIGAR using
// `M` rather than `=`/`X` counts every M base as a match, per the same
// convention DenormalizePAF uses when no base comparison is available.
func Stat(c cigar.Cigar) RecordStat {
	var s RecordStat
	for _, u := range c {
		switch u.Op {
		case cigar.Eq, cigar.Match:
			s.Matches += u.Len
		case cigar.Diff:
			s.Mismatches += u.Len
		case cigar.Ins:
			s.Insertions += u.Len
		case cigar.Del, cigar.Skip:
			s.Deletions += u.Len
		}
	}
	s.AlignedLen = s.Matches + s.Mismatches + s.Insertions + s.Deletions
	if s.AlignedLen > 0 {
		s.Identity = float64(s.Matches) / float64(s.AlignedLen)
	}
	return s
}

// Aggregate summarizes a batch of per-record stats: total counts plus
// the mean and standard deviation of per-record identity, computed
// with gonum/stat rather than a hand-rolled accumulator.
type Aggregate struct {
	Records         int
	TotalMatches    int
	TotalMismatches int
	TotalInsertions int
	TotalDeletions  int
	TotalAlignedLen int
	MeanIdentity    float64
	StdDevIdentity  float64
}

// AggregateStats folds a slice of RecordStat into an Aggregate.
func AggregateStats(stats []RecordStat) Aggregate {
	var a Aggregate
	a.Records = len(stats)
	identities := make([]float64, len(stats))
	for i, s := range stats {
		a.TotalMatches += s.Matches
		a.TotalMismatches += s.Mismatches
		a.TotalInsertions += s.Insertions
		a.TotalDeletions += s.Deletions
		a.TotalAlignedLen += s.AlignedLen
		identities[i] = s.Identity
	}
	if len(identities) > 0 {
		a.MeanIdentity = stat.Mean(identities, nil)
		a.StdDevIdentity = stat.StdDev(identities, nil)
	}
	return a
}
