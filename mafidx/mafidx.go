// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mafidx implements the MAF Index of §4.5 of the format spec: a
// sparse offset index keyed by (sequence name, interval), built by
// scanning an uncompressed MAF file once, then used to extract the
// blocks overlapping a requested region without rescanning the file.
// The on-disk layout is a tab-separated companion file, directly
// modeled on fai.WriteTo/fai.ReadFrom.
package mafidx

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/wgatools/wga/maf"
)

// Entry is a single MAF Index Entry: the reference interval of one
// block and where to find it on disk.
type Entry struct {
	Name   string
	Start  int
	End    int
	Offset int64
	Length int64
}

// Index is a sorted-by-start table of Entry, grouped by reference name.
type Index struct {
	byName map[string][]Entry
}

// Build scans the MAF file at path (must be uncompressed; byte offsets
// are meaningless over a decompressing stream) and returns an Index
// recording, for each block, the name/start/end of its first sequence
// line and the byte offset and length of the block.
func Build(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "mafidx: build")
	}
	defer f.Close()

	idx := &Index{byName: make(map[string][]Entry)}
	br := bufio.NewReader(f)
	var offset int64
	var blockStart int64 = -1
	var first *maf.Line
	haveBlock := false

	flush := func(end int64) {
		if !haveBlock || first == nil {
			haveBlock = false
			first = nil
			return
		}
		e := Entry{
			Name:   first.Name,
			Start:  first.Start,
			End:    first.Start + first.Size,
			Offset: blockStart,
			Length: end - blockStart,
		}
		idx.byName[e.Name] = append(idx.byName[e.Name], e)
		haveBlock = false
		first = nil
	}

	for {
		line, rerr := br.ReadString('\n')
		n := int64(len(line))
		trimmed := strings.TrimRight(line, "\r\n")
		switch {
		case strings.HasPrefix(trimmed, "#"):
			// header comment, not part of any block
		case strings.TrimSpace(trimmed) == "":
			if haveBlock {
				flush(offset)
			}
		case strings.HasPrefix(trimmed, "a"):
			if haveBlock {
				flush(offset)
			}
			blockStart = offset
			haveBlock = true
		case strings.HasPrefix(trimmed, "s"):
			if haveBlock && first == nil {
				l, perr := maf.ParseSLine(trimmed)
				if perr != nil {
					return nil, errors.Wrapf(perr, "mafidx: build: offset %d", offset)
				}
				first = &l
			}
		}
		offset += n
		if rerr == io.EOF {
			if haveBlock {
				flush(offset)
			}
			goto done
		}
		if rerr != nil {
			return nil, errors.Wrap(rerr, "mafidx: build")
		}
	}
done:
	for name := range idx.byName {
		sort.Slice(idx.byName[name], func(i, j int) bool {
			return idx.byName[name][i].Start < idx.byName[name][j].Start
		})
	}
	return idx, nil
}

// Query returns every Entry for name whose interval overlaps
// [start, end). Requests with start >= end, an unknown name, or a
// region entirely outside any block return a nil slice and a warning
// string rather than an error, per §4.5's edge-case handling.
func (idx *Index) Query(name string, start, end int) (entries []Entry, warning string) {
	if start >= end {
		return nil, fmt.Sprintf("mafidx: empty or inverted region %s:%d-%d", name, start, end)
	}
	entries2, ok := idx.byName[name]
	if !ok {
		return nil, fmt.Sprintf("mafidx: unknown sequence %q", name)
	}
	i := sort.Search(len(entries2), func(i int) bool { return entries2[i].End > start })
	for ; i < len(entries2) && entries2[i].Start < end; i++ {
		entries = append(entries, entries2[i])
	}
	if len(entries) == 0 {
		return nil, fmt.Sprintf("mafidx: region %s:%d-%d not covered by any block", name, start, end)
	}
	return entries, ""
}

// Names returns the indexed reference sequence names in sorted order.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.byName))
	for n := range idx.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteTo serializes idx as a tab-separated companion file, one entry
// per line: name, start, end, offset, length. Modeled directly on
// fai.WriteTo.
func WriteTo(w io.Writer, idx *Index) error {
	names := idx.Names()
	for _, name := range names {
		for _, e := range idx.byName[name] {
			_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", e.Name, e.Start, e.End, e.Offset, e.Length)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadFrom parses an index written by WriteTo.
func ReadFrom(r io.Reader) (*Index, error) {
	idx := &Index{byName: make(map[string][]Entry)}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) != 5 {
			return nil, errors.Errorf("mafidx: malformed index line %q", line)
		}
		e := Entry{Name: f[0]}
		var err error
		if e.Start, err = strconv.Atoi(f[1]); err != nil {
			return nil, err
		}
		if e.End, err = strconv.Atoi(f[2]); err != nil {
			return nil, err
		}
		off, err := strconv.ParseInt(f[3], 10, 64)
		if err != nil {
			return nil, err
		}
		e.Offset = off
		ln, err := strconv.ParseInt(f[4], 10, 64)
		if err != nil {
			return nil, err
		}
		e.Length = ln
		idx.byName[e.Name] = append(idx.byName[e.Name], e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for name := range idx.byName {
		sort.Slice(idx.byName[name], func(i, j int) bool {
			return idx.byName[name][i].Start < idx.byName[name][j].Start
		})
	}
	return idx, nil
}

// Extract reads the block at e from the MAF file opened at f (f must be
// the same file Build scanned) and clips it by column so the returned
// block covers exactly [start, end) of e's reference sequence,
// adjusting start/size of every s line and trimming gapped columns on
// both sides, per §4.5.
func Extract(f *os.File, e Entry, start, end int) (*maf.Block, error) {
	buf := make([]byte, e.Length)
	if _, err := f.ReadAt(buf, e.Offset); err != nil {
		return nil, errors.Wrap(err, "mafidx: extract")
	}
	lines := strings.Split(strings.TrimRight(string(buf), "\n"), "\n")
	block := &maf.Block{}
	for _, raw := range lines {
		raw = strings.TrimRight(raw, "\r")
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "a":
			if score, ok := scoreOf(fields); ok {
				block.Score = &score
			}
		case "s":
			l, err := maf.ParseSLine(raw)
			if err != nil {
				return nil, err
			}
			block.Lines = append(block.Lines, l)
		case "i", "q", "e":
			block.IQELines = append(block.IQELines, raw)
		}
	}
	if len(block.Lines) == 0 {
		return nil, errors.New("mafidx: extract: no sequence lines in block")
	}
	return clipColumns(block, start, end)
}

func scoreOf(fields []string) (float64, bool) {
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "score=") {
			v, err := strconv.ParseFloat(strings.TrimPrefix(f, "score="), 64)
			if err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// clipColumns trims the gapped columns of block so that the reference
// line (block.Lines[0]) exactly spans [start, end), and adjusts every
// line's Start/Size to match.
func clipColumns(block *maf.Block, start, end int) (*maf.Block, error) {
	ref := block.Lines[0]
	if start < ref.Start || end > ref.Start+ref.Size {
		return nil, errors.Errorf("mafidx: clip region [%d,%d) outside block reference span [%d,%d)", start, end, ref.Start, ref.Start+ref.Size)
	}

	leadUngapped := start - ref.Start
	keepUngapped := end - start

	colStart, colEnd := -1, -1
	ungapped := 0
	for col := 0; col < len(ref.Seq); col++ {
		if ref.Seq[col] != '-' {
			if ungapped == leadUngapped {
				colStart = col
			}
			ungapped++
			if ungapped == leadUngapped+keepUngapped {
				colEnd = col + 1
				break
			}
		}
	}
	if colStart == -1 {
		colStart = len(ref.Seq)
	}
	if colEnd == -1 {
		colEnd = len(ref.Seq)
	}

	out := &maf.Block{Score: block.Score, IQELines: block.IQELines}
	for _, l := range block.Lines {
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
	return out, nil
}
