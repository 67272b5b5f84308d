// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package auxpass

import (
	"sort"

	"github.com/wgatools/wga/paf"
)

// CovInterval is one BED-style run of constant per-base target
// coverage depth.
type CovInterval struct {
	Name       string
	Start, End int
	Depth      int
}

// Coverage sweeps the target intervals of recs and returns, per
// sequence name, the maximal runs of constant coverage depth, per
// §4.8's "emit BED-style per-base coverage per sequence by sweeping
// record intervals".
func Coverage(recs []*paf.Record) []CovInterval {
	byName := make(map[string][]point)
	for _, r := range recs {
		byName[r.TName] = append(byName[r.TName], point{pos: r.TStart, delta: 1}, point{pos: r.TEnd, delta: -1})
	}

	var names []string
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	var out []CovInterval
	for _, name := range names {
		pts := byName[name]
		sort.Slice(pts, func(i, j int) bool { return pts[i].pos < pts[j].pos })
		depth := 0
		prevPos := -1
		havePrev := false
		for i := 0; i < len(pts); {
			pos := pts[i].pos
			if havePrev && depth > 0 && pos > prevPos {
				out = append(out, CovInterval{Name: name, Start: prevPos, End: pos, Depth: depth})
			}
			for i < len(pts) && pts[i].pos == pos {
				depth += pts[i].delta
				i++
			}
			prevPos = pos
			havePrev = true
		}
	}
	return out
}

type point struct {
	pos   int
	delta int
}
