// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package auxpass implements the auxiliary passes of §4.8: chunk,
// filter, rename, stat, pafcov and pafpseudo, each a small
// transformation over MAF blocks or PAF records that does not need the
// full Conversion Kernel.
package auxpass

import (
	"strings"

	"github.com/wgatools/wga/maf"
)

// Chunk splits b into sub-blocks of at most maxCols aligned (gapped)
// columns, adjusting each line's Start/Size to the sub-block's slice,
// per §4.8.
func Chunk(b *maf.Block, maxCols int) []*maf.Block {
	n := b.GappedLen()
	if maxCols <= 0 || n <= maxCols {
		return []*maf.Block{b}
	}
	var out []*maf.Block
	for col := 0; col < n; col += maxCols {
		end := col + maxCols
		if end > n {
			end = n
		}
		out = append(out, sliceBlock(b, col, end))
	}
	return out
}

func sliceBlock(b *maf.Block, colStart, colEnd int) *maf.Block {
	out := &maf.Block{Score: b.Score}
	for _, l := range b.Lines {
		seq := l.Seq[colStart:colEnd]
		leading := l.Seq[:colStart]
		newStart := l.Start + (len(leading) - strings.Count(leading, "-"))
		newSize := len(seq) - strings.Count(seq, "-")
		out.Lines = append(out.Lines, maf.Line{
			Name:    l.Name,
			Start:   newStart,
			Size:    newSize,
			Strand:  l.Strand,
			SrcSize: l.SrcSize,
			Seq:     seq,
		})
	}
	return out
}
