// Package main is the entry point for the maketest CLI.
//
// maketest is the "make test" driver for the build system: it fetches
// test fixture files on demand, re-runs CMake when new test files appear,
// and runs CTest in the build directory, exiting with CTest's status.
// All functionality lives in the internal/cli package.
package main

import (
	"github.com/shinji-kodama/maketest/internal/cli"
)

// version, commit, and date are set at build time via ldflags
// (see the release configuration). They provide binary identification
// for the --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package. This keeps
	// main.go minimal and decouples the build system from cobra.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
