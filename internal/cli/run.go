// run.go implements the test-run flow behind the root command.
//
// The flow is strictly linear with a single guard condition:
//
//  1. Merge tool configuration (defaults < config file < flags).
//  2. Resolve the build directory (positional argument or --preset).
//  3. Fail fast if the test runner is not on PATH.
//  4. If the fixture directory is missing: fail fast if the SVN client is
//     not on PATH, detect the release channel from the current Git branch,
//     check out the fixtures, and re-run CMake in the build directory so
//     the new test files are registered.
//  5. Run CTest in the build directory; its exit status becomes ours.
//
// Every failure is terminal — there are no retries and no partial-failure
// recovery. The driver is a build-pipeline gate: the invoking build system
// reacts to the exit status, not to recovered state.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/maketest/internal/cmake"
	"github.com/shinji-kodama/maketest/internal/config"
	"github.com/shinji-kodama/maketest/internal/gitver"
	"github.com/shinji-kodama/maketest/internal/model"
	"github.com/shinji-kodama/maketest/internal/runner"
	"github.com/shinji-kodama/maketest/internal/svnrepo"
)

// defaultTestsDir is the conventional fixture location: a `lib/tests`
// directory next to the source checkout, shared between build directories.
// Relative paths are interpreted against the driver's working directory.
const defaultTestsDir = "../lib/tests"

// runFlags holds the flag values for the root command.
type runFlags struct {
	ctestCommand string // --ctest-command
	cmakeCommand string // --cmake-command
	svnCommand   string // --svn-command
	gitCommand   string // --git-command
	testsDir     string // --tests-dir
	repoURL      string // --repo-url
	preset       string // --preset
	configPath   string // --config
}

// runMake is the orchestration function for the root command.
func runMake(cmd *cobra.Command, args []string, flags *runFlags) error {
	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	// Step 1: configuration. An explicit --config file must exist;
	// the default lookup tolerates absence.
	var cfg *config.File
	if flags.configPath != "" {
		cfg, err = config.Load(flags.configPath)
	} else {
		cfg, err = config.LoadDefault(cwd)
	}
	if err != nil {
		return err
	}

	tools := mergeTools(cmd, cfg, flags)
	VerboseLog("Tools: ctest=%s cmake=%s svn=%s git=%s", tools.CTest, tools.CMake, tools.SVN, tools.Git)

	// Step 2: build directory.
	buildDir, err := resolveBuildDir(cwd, args, flags.preset)
	if err != nil {
		return err
	}
	VerboseLog("Build directory: %s", buildDir)

	// Step 3: the test runner must be resolvable before any other side
	// effect — a missing ctest should not trigger a fixture download.
	if !runner.Available(tools.CTest) {
		return model.ToolNotFoundError(tools.CTest, "run tests")
	}

	// Step 4: conditional fixture fetch.
	testsDir := firstNonEmpty(flags.testsDir, cfg.TestsDir, defaultTestsDir)
	if _, statErr := os.Stat(testsDir); os.IsNotExist(statErr) {
		if fetchErr := fetchFixtures(tools, testsDir, firstNonEmpty(flags.repoURL, cfg.RepoURL, svnrepo.DefaultRepoURL)); fetchErr != nil {
			return fetchErr
		}

		// Re-run cmake so the newly present test files are registered.
		VerboseLog("Reconfiguring %s", buildDir)
		if cfgErr := cmake.Configure(tools.CMake, buildDir); cfgErr != nil {
			return cfgErr
		}
	} else {
		VerboseLog("Test files present at %s", testsDir)
	}

	// Step 5: run the tests. Our exit status is ctest's exit status.
	ctestArgs := append([]string{".", "--output-on-failure"}, cfg.CTestArgs...)
	return runner.Run(buildDir, tools.CTest, ctestArgs...)
}

// fetchFixtures checks out the test fixture files into testsDir from the
// release channel of the current checkout.
func fetchFixtures(tools model.ToolSet, testsDir, repoURL string) error {
	fmt.Println("Test files not found, downloading...")

	if !runner.Available(tools.SVN) {
		return model.ToolNotFoundError(tools.SVN, "checkout test files")
	}

	// The release channel only matters for building the checkout URL,
	// so the branch is inspected here rather than up front: when the
	// fixtures already exist, git is never invoked.
	version, err := gitver.BranchReleaseVersion(tools.Git, "")
	if err != nil {
		return err
	}
	VerboseLog("Release channel: %s", version)

	url := svnrepo.TestsURL(repoURL, version)
	VerboseLog("Checkout URL: %s", url)

	return svnrepo.Checkout(tools.SVN, url, testsDir)
}

// mergeTools layers the tool configuration: built-in defaults, then the
// config file, then flags the user actually set. Flag defaults equal the
// built-in defaults, so Changed() is how an explicit flag is told apart
// from a default that the config file should override.
func mergeTools(cmd *cobra.Command, cfg *config.File, flags *runFlags) model.ToolSet {
	tools := model.DefaultToolSet().Merge(cfg.ToolSet())

	var flagOverlay model.ToolSet
	if cmd.Flags().Changed("ctest-command") {
		flagOverlay.CTest = flags.ctestCommand
	}
	if cmd.Flags().Changed("cmake-command") {
		flagOverlay.CMake = flags.cmakeCommand
	}
	if cmd.Flags().Changed("svn-command") {
		flagOverlay.SVN = flags.svnCommand
	}
	if cmd.Flags().Changed("git-command") {
		flagOverlay.Git = flags.gitCommand
	}

	return tools.Merge(flagOverlay)
}

// resolveBuildDir determines the build directory from the positional
// argument or the --preset flag. Exactly one of the two must be given.
// A preset-resolved directory is additionally checked for a CMake cache,
// since a typo'd preset name would otherwise surface much later as an
// opaque ctest failure.
func resolveBuildDir(cwd string, args []string, preset string) (string, error) {
	if preset != "" && len(args) > 0 {
		return "", model.NewCLIError(model.ExitGeneralError,
			"specify either a build directory or --preset, not both")
	}

	if preset != "" {
		buildDir, err := cmake.ResolveBinaryDir(cwd, preset)
		if err != nil {
			return "", err
		}
		if err := cmake.VerifyConfigured(buildDir); err != nil {
			return "", err
		}
		return buildDir, nil
	}

	if len(args) == 0 {
		return "", model.NewCLIError(model.ExitGeneralError,
			"build directory argument is required (or use --preset)")
	}
	return args[0], nil
}

// firstNonEmpty returns the first non-empty string, implementing the
// flag > config > default precedence for plain string settings.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
