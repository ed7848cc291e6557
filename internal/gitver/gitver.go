// Package gitver detects the release channel of the current checkout by
// inspecting the Git branch name.
//
// Release branches follow the `v<major>.<minor>[.<patch>]-release` naming
// convention, optionally with a project prefix (e.g. "myproject-v4.0-release").
// Any other branch name — trunk branches, feature branches, or a detached
// HEAD — maps to the development channel, and fixture files are then fetched
// from trunk instead of a release tag.
//
// We shell out to `git rev-parse --abbrev-ref HEAD` rather than reading
// .git/HEAD ourselves: worktrees and submodules store HEAD in non-obvious
// places, and rev-parse resolves all of them.
package gitver

import (
	"regexp"

	"github.com/shinji-kodama/maketest/internal/model"
	"github.com/shinji-kodama/maketest/internal/runner"
)

// releaseBranchRegex matches release branch names and captures the version
// identifier including its leading "v". The optional non-captured prefix
// allows project-qualified branch names like "myproject-v2.81-release".
var releaseBranchRegex = regexp.MustCompile(`(?:^|-)(v\d+\.\d+(?:\.\d+)?)-release$`)

// BranchReleaseVersion returns the release version of the current checkout
// in dir, determined from the branch name reported by the given git command.
// An empty dir means the driver's working directory.
//
// Returns model.Development for any branch that is not a release branch,
// including a detached HEAD (rev-parse reports the literal string "HEAD").
// A git failure (e.g. not inside a repository) is returned as-is and aborts
// the fixture fetch.
func BranchReleaseVersion(gitCmd, dir string) (model.ReleaseVersion, error) {
	branch, err := runner.Output(dir, gitCmd, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return model.Development, err
	}
	return ParseReleaseVersion(branch), nil
}

// ParseReleaseVersion maps a branch name to a release version.
// Non-release branches map to the development sentinel.
func ParseReleaseVersion(branch string) model.ReleaseVersion {
	m := releaseBranchRegex.FindStringSubmatch(branch)
	if m == nil {
		return model.Development
	}
	return model.ReleaseVersion(m[1])
}
