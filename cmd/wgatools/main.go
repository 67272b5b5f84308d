// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
)

// cmds maps each subcommand name to its entry point. A subcommand gets
// the remaining arguments (os.Args[2:]) and is responsible for its own
// flag.FlagSet.
var cmds = map[string]func(args []string){
	"maf2paf":   runMAF2PAF,
	"maf2chain": runMAF2Chain,
	"paf2maf":   runPAF2MAF,
	"paf2chain": runPAF2Chain,
	"chain2maf": runChain2MAF,
	"chain2paf": runChain2PAF,

	"maf-index": runMAFIndex,
	"maf-ext":   runMAFExtract,

	"chunk":     runChunk,
	"call":      runCall,
	"stat":      runStat,
	"filter":    runFilter,
	"rename":    runRename,
	"validate":  runValidate,
	"pafcov":    runPafCov,
	"pafpseudo": runPafPseudo,

	// Out of scope for this engine (§9 open questions): a terminal
	// alignment viewer, an HTML dot-plot renderer, SAM/BAM
	// pass-through emission, and shell-completion generation all
	// require collaborators (a TUI, an HTML templating/plotting
	// stack, a BAM writer, a completion-script generator) that no
	// MODULE in the format spec names. They are wired into dispatch
	// so `wgatools <name>` gives a clear diagnosis rather than
	// "unknown subcommand", and exit non-zero.
	"tview":          stubUnimplemented("tview"),
	"dotplot":        stubUnimplemented("dotplot"),
	"maf2sam":        stubUnimplemented("maf2sam"),
	"gen-completion": stubUnimplemented("gen-completion"),
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := cmds[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "wgatools: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	cmd(os.Args[2:])
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wgatools <subcommand> [flags] [args]")
	fmt.Fprintln(os.Stderr, "subcommands:")
	fmt.Fprintln(os.Stderr, "  maf2paf maf2chain paf2maf paf2chain chain2maf chain2paf")
	fmt.Fprintln(os.Stderr, "  maf-index maf-ext chunk call stat filter rename validate pafcov pafpseudo")
}

func stubUnimplemented(name string) func([]string) {
	return func(args []string) {
		fmt.Fprintf(os.Stderr, "wgatools %s: not implemented in this engine (see DESIGN.md)\n", name)
		os.Exit(1)
	}
}
