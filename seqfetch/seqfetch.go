// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seqfetch implements the SequenceFetcher capability that the
// format spec treats as an external collaborator (§2, §4.4): resolving
// target/query bases by sequence name and half-open range, for the
// conversions that must materialize bases (PAF -> MAF, CHAIN -> MAF)
// and for the variant caller on PAF input.
package seqfetch

import (
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/wgatools/wga/align"
	"github.com/wgatools/wga/fai"
)

// Fetcher resolves bases for a named sequence over a half-open range.
// Implementations must either be safe for concurrent use from multiple
// converter workers, or be wrapped with Synchronized.
type Fetcher interface {
	// Fetch returns the bases of name in [start, end), on the '+'
	// strand of the source sequence, upper-cased.
	Fetch(name string, start, end int) (string, error)
	// Len returns the full length of the named sequence.
	Len(name string) (int, error)
}

// FetchStrand returns the bases of name in [start, end) on the given
// strand, reverse-complementing if strand is Minus. start and end are
// '+'-strand coordinates and are passed to Fetch unchanged; no
// coordinate projection is done here.
func FetchStrand(f Fetcher, name string, start, end int, strand align.Strand) (string, error) {
	bases, err := f.Fetch(name, start, end)
	if err != nil {
		return "", err
	}
	if strand == align.Plus {
		return bases, nil
	}
	return revcomp(bases), nil
}

var complement = map[byte]byte{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C',
	'a': 't', 't': 'a', 'c': 'g', 'g': 'c',
	'N': 'N', 'n': 'n',
}

func revcomp(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c, ok := complement[s[len(s)-1-i]]
		if !ok {
			c = 'N'
		}
		b[i] = c
	}
	return string(b)
}

// FASTAFetcher resolves bases from an FAI-indexed FASTA file, mmapped
// for random access. It is a thin, domain-specific wrapper around
// fai.File: Fetch/Len translate the alignment engine's vocabulary into
// fai's Seq cursor API.
type FASTAFetcher struct {
	f   *fai.File
	idx fai.Index
}

// OpenFASTA opens the FASTA at path using the companion .fai index idx.
func OpenFASTA(path string, idx fai.Index) (*FASTAFetcher, error) {
	f, err := fai.OpenFile(path, idx)
	if err != nil {
		return nil, errors.Wrap(err, "seqfetch: open FASTA")
	}
	return &FASTAFetcher{f: f, idx: idx}, nil
}

// Close releases the underlying mmapped file.
func (f *FASTAFetcher) Close() error { return f.f.Close() }

// Fetch implements Fetcher.
func (f *FASTAFetcher) Fetch(name string, start, end int) (string, error) {
	seq, err := f.f.SeqRange(name, start, end)
	if err != nil {
		return "", errors.Wrapf(err, "seqfetch: %s:%d-%d", name, start, end)
	}
	buf := make([]byte, end-start)
	n, err := io.ReadFull(seq, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errors.Wrapf(err, "seqfetch: %s:%d-%d", name, start, end)
	}
	return strings.ToUpper(string(buf[:n])), nil
}

// Len implements Fetcher by consulting the sequence's FAI record.
func (f *FASTAFetcher) Len(name string) (int, error) {
	rec, ok := f.idx[name]
	if !ok {
		return 0, errors.Errorf("seqfetch: unknown sequence %q (have %v)", name, f.idx.Names())
	}
	return rec.Length, nil
}

// Names returns the sequence names this fetcher can resolve, sorted.
func (f *FASTAFetcher) Names() []string { return f.idx.Names() }

// MemFetcher is an in-memory Fetcher over whole sequences, used by
// tests and by callers that have already loaded small reference sets.
type MemFetcher map[string]string

// Fetch implements Fetcher.
func (m MemFetcher) Fetch(name string, start, end int) (string, error) {
	seq, ok := m[name]
	if !ok {
		return "", errors.Errorf("seqfetch: unknown sequence %q", name)
	}
	if start < 0 || end > len(seq) || start > end {
		return "", errors.Errorf("seqfetch: range [%d,%d) out of bounds for %q (len %d)", start, end, name, len(seq))
	}
	return strings.ToUpper(seq[start:end]), nil
}

// Len implements Fetcher.
func (m MemFetcher) Len(name string) (int, error) {
	seq, ok := m[name]
	if !ok {
		return 0, errors.Errorf("seqfetch: unknown sequence %q", name)
	}
	return len(seq), nil
}

// Synchronized wraps f with a mutex so it can be shared across the
// conversion kernel's parallel workers when f is not already
// thread-safe (§4.4, §5: "The SequenceFetcher must either be
// thread-safe or be accessed behind a mutex").
func Synchronized(f Fetcher) Fetcher { return &syncFetcher{f: f} }

type syncFetcher struct {
	mu sync.Mutex
	f  Fetcher
}

func (s *syncFetcher) Fetch(name string, start, end int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Fetch(name, start, end)
}

func (s *syncFetcher) Len(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Len(name)
}
