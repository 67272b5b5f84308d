// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command wgatools dispatches to one of the engine's subcommands,
// mirroring the thin `os.Args[1]`-based dispatch of
// paper/examples/flagstat rather than a CLI framework: flags are
// parsed per subcommand with the standard library's flag.FlagSet, and
// logging goes to a package-level *log.Logger per subcommand writing
// to stderr (see DESIGN.md for why no third-party alternative is
// wired in for either).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wgatools/wga/errkind"
	"github.com/wgatools/wga/fai"
	"github.com/wgatools/wga/ioutil"
	"github.com/wgatools/wga/seqfetch"
)

// globals holds the flags common to every subcommand: output
// destination, overwrite permission, worker count, and verbosity.
type globals struct {
	out     string
	rewrite bool
	threads int
	verbose int
}

// addGlobalFlags registers the shared flags on fs and returns the
// struct they populate once fs.Parse has run.
func addGlobalFlags(fs *flag.FlagSet) *globals {
	g := &globals{}
	fs.StringVar(&g.out, "o", "-", "output path, or \"-\" for stdout")
	fs.BoolVar(&g.rewrite, "r", false, "allow overwriting an existing output file")
	fs.IntVar(&g.threads, "t", 1, "worker goroutines for internally-parallel passes")
	fs.IntVar(&g.verbose, "v", 0, "verbosity level (e.g. -v 2)")
	return g
}

// newLogger returns a subcommand's logger, gated to stderr with the
// subcommand name as its prefix (mirrors kortschak-loopy/cmd/ranks's
// plain log.New-to-stderr convention).
func newLogger(name string) *log.Logger {
	return log.New(os.Stderr, name+": ", log.LstdFlags)
}

// debugf writes a Debug-level line through logger only when g's
// verbosity is at least level; this is the "tiny internal/loglevel
// shim" the logging design calls for, folded into common.go rather
// than split into its own one-function package.
func (g *globals) debugf(logger *log.Logger, level int, format string, args ...interface{}) {
	if g.verbose >= level {
		logger.Printf(format, args...)
	}
}

// openSink opens g.out for writing, honoring g.rewrite.
func (g *globals) openSink() (*ioutil.Sink, error) {
	return ioutil.OpenWrite(g.out, g.rewrite)
}

// fail logs err through logger, classifying it via errkind when
// possible so the exit code reflects the taxonomy of an IO, Parse,
// Semantic, CapabilityMissing, or Conflict failure rather than a flat
// 1, then exits the process.
func fail(logger *log.Logger, err error) {
	kind := errkind.KindOf(err)
	logger.Printf("%s: %v", kind, err)
	os.Exit(exitCodeFor(kind))
}

func exitCodeFor(k errkind.Kind) int {
	switch k {
	case errkind.IO:
		return 2
	case errkind.Parse:
		return 3
	case errkind.Semantic:
		return 4
	case errkind.CapabilityMissing:
		return 5
	case errkind.Conflict:
		return 6
	default:
		return 1
	}
}

// usageError prints msg to stderr and exits with status 2, for
// argument-shape mistakes caught before a logger exists.
func usageError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

// openFetcherFlag registers a "--fasta PATH" flag on fs and returns a
// thunk that opens (building the companion .fai if absent) and returns
// the resulting seqfetch.Fetcher once fs has been parsed; used by the
// subcommands (paf2maf, chain2maf, call, pafpseudo) that may need to materialize
// bases through a SequenceFetcher.
func openFetcherFlag(fs *flag.FlagSet) func() (seqfetch.Fetcher, error) {
	path := fs.String("fasta", "", "reference FASTA used to resolve bases (builds/reuses a .fai companion)")
	return func() (seqfetch.Fetcher, error) {
		if *path == "" {
			return nil, nil
		}
		return openFASTAFetcher(*path)
	}
}

// openFASTAFetcher opens path's .fai companion, building and caching
// it next to the FASTA if it does not already exist, then returns a
// seqfetch.FASTAFetcher wrapped for concurrent use.
func openFASTAFetcher(path string) (seqfetch.Fetcher, error) {
	faiPath := path + ".fai"
	idx, err := readOrBuildFai(path, faiPath)
	if err != nil {
		return nil, err
	}
	f, err := seqfetch.OpenFASTA(path, idx)
	if err != nil {
		return nil, err
	}
	return seqfetch.Synchronized(f), nil
}

func readOrBuildFai(fastaPath, faiPath string) (fai.Index, error) {
	if fh, err := os.Open(faiPath); err == nil {
		defer fh.Close()
		return fai.ReadFrom(fh)
	}
	fasta, err := os.Open(fastaPath)
	if err != nil {
		return nil, err
	}
	defer fasta.Close()
	idx, err := fai.NewIndex(fasta)
	if err != nil {
		return nil, err
	}
	out, err := os.Create(faiPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	if err := fai.WriteTo(out, idx); err != nil {
		return nil, err
	}
	return idx, nil
}
