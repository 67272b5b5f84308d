// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package auxpass

import (
	"sort"

	"github.com/wgatools/wga/convert"
	"github.com/wgatools/wga/maf"
	"github.com/wgatools/wga/paf"
	"github.com/wgatools/wga/seqfetch"
)

// PseudoMAF buckets an all-vs-all PAF record set by reference (target)
// sequence name and projects each bucket's records into MAF blocks
// against bases resolved through fetcher, per §4.8's "from an
// all-vs-all PAF plus a multi-FASTA, bucket records per reference
// sequence and emit one MAF per reference with all queries projected".
// It reuses convert.PAF2MAF record by record rather than a bespoke
// pseudo-MAF codec.
func PseudoMAF(recs []*paf.Record, fetcher seqfetch.Fetcher) (map[string][]*maf.Block, error) {
	byRef := make(map[string][]*maf.Block)
	for _, r := range recs {
		block, err := convert.PAF2MAF(r, fetcher)
		if err != nil {
			return nil, err
		}
		byRef[r.TName] = append(byRef[r.TName], block)
	}
	return byRef, nil
}

// RefNames returns the reference sequence names present in byRef, in
// sorted order, so callers can emit one output file per reference
// deterministically.
func RefNames(byRef map[string][]*maf.Block) []string {
	names := make([]string, 0, len(byRef))
	for n := range byRef {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
