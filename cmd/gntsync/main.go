// Package main is the entry point for the gntsync CLI.
//
// gntsync reconciles the declared desired state of a Ganeti instance against
// the cluster's remote API and applies the minimal ordered set of operations
// needed to close the gap. Each invocation is one stateless run.
//
// Commands: apply, plan, version.
//
// For detailed usage information, run:
//
//	gntsync --help
package main

import (
	"fmt"
	"os"

	"github.com/clusterkit/gntsync/cmd/gntsync/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
