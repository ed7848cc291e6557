// Package svnrepo constructs fixture checkout URLs and performs SVN
// checkouts for the maketest CLI.
//
// Test fixture files are versioned separately from the main source tree,
// in an SVN repository laid out the conventional way:
//
//	<root>/trunk/lib                    — rolling development fixtures
//	<root>/tags/<version>-release/lib   — frozen fixtures for a release
//
// The release channel of the current checkout (see package gitver) selects
// which of the two bases a checkout URL is built from.
package svnrepo

import (
	"fmt"

	"github.com/shinji-kodama/maketest/internal/model"
	"github.com/shinji-kodama/maketest/internal/runner"
)

// DefaultRepoURL is the conventional root of the fixture repository.
// It can be overridden via the --repo-url flag or the config file, which
// is how CI mirrors and air-gapped build farms point the driver at a
// local replica.
const DefaultRepoURL = "https://svn.example.org/svnroot/libraries"

// TestsSuffix is the path segment appended to a libraries base URL to
// reach the test fixture subtree.
const TestsSuffix = "tests"

// LibrariesBaseURL returns the base URL of the libraries subtree for the
// given release channel: the version's tag for a release build, trunk for
// a development build.
func LibrariesBaseURL(repoURL string, version model.ReleaseVersion) string {
	if version.IsRelease() {
		return model.JoinURL(repoURL, fmt.Sprintf("tags/%s-release/lib", version))
	}
	return model.JoinURL(repoURL, "trunk/lib")
}

// TestsURL returns the full checkout URL for the test fixture subtree of
// the given release channel.
func TestsURL(repoURL string, version model.ReleaseVersion) string {
	return model.JoinURL(LibrariesBaseURL(repoURL, version), TestsSuffix)
}

// Checkout checks out the given URL into the target directory using the
// given svn command, streaming svn's output through. The parent of the
// target directory must exist; svn creates the directory itself.
//
// A failed checkout (unreachable remote, authentication failure) returns
// a model.CLIError carrying svn's own exit status.
func Checkout(svnCmd, url, targetDir string) error {
	return runner.Run("", svnCmd, "checkout", url, targetDir)
}
