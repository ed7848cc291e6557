// Package cli implements the cobra-based command-line surface of maketest.
//
// maketest is a single-purpose driver, so unlike multi-command tools there
// are no subcommands: the root command itself runs the test flow (run.go).
// This file defines the root command, the global --verbose flag, and the
// error-to-exit-code translation that maps CLIError values onto the
// process exit status.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/maketest/internal/model"
)

// verbose enables detailed progress logging to stderr. Bound to the
// persistent --verbose flag.
var verbose bool

// Version, Commit, and Date identify the binary. They are injected from
// the main package, which receives them via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
func NewRootCommand() *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "maketest [flags] build_directory",
		Short: "Run the automated test suite for a configured build directory",
		Long: `maketest runs the project's automated test suite via CTest.

If the test fixture files are not present locally, they are first checked
out from the fixture repository (the release branch of the current Git
checkout selects between a release tag and trunk), and CMake is re-run in
the build directory so the new test files are registered.

The build directory must already be configured. It is given either as the
positional argument or resolved from a CMake configure preset:

  maketest build
  maketest --preset release
  maketest --ctest-command ctest3 build`,

		// At most one positional argument; whether one is required
		// depends on --preset, which is validated in runMake.
		Args: cobra.MaximumNArgs(1),

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute formats them with printError instead.
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// RunE is used instead of Run so errors reach the Execute
		// error handler with their exit codes intact.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMake(cmd, args, flags)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Tool command overrides. The defaults shown here are only used when
	// neither the flag nor the config file sets a value; see mergeTools.
	rootCmd.Flags().StringVar(&flags.ctestCommand, "ctest-command", model.DefaultCTestCommand, "Test runner command")
	rootCmd.Flags().StringVar(&flags.cmakeCommand, "cmake-command", model.DefaultCMakeCommand, "Build configurator command")
	rootCmd.Flags().StringVar(&flags.svnCommand, "svn-command", model.DefaultSVNCommand, "SVN client command (fixture checkout)")
	rootCmd.Flags().StringVar(&flags.gitCommand, "git-command", model.DefaultGitCommand, "Git client command (branch inspection)")

	rootCmd.Flags().StringVar(&flags.testsDir, "tests-dir", "", "Fixture directory (default \"../lib/tests\")")
	rootCmd.Flags().StringVar(&flags.repoURL, "repo-url", "", "Fixture repository root URL")
	rootCmd.Flags().StringVar(&flags.preset, "preset", "", "Resolve the build directory from this CMake configure preset")
	rootCmd.Flags().StringVar(&flags.configPath, "config", "", "Config file path (default \".maketest.yml\" in the working directory)")

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError values carry their own exit codes — including propagated
// subprocess statuses — and other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError writes an error line to stderr. Tool-not-found diagnostics
// and subprocess failure summaries both go through here; the child
// process's own stderr has already been streamed through verbatim.
func printError(message string, underlying error) {
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
