// Package runner provides subprocess invocation for the maketest CLI.
//
// All external tools (ctest, cmake, svn, git) are executed through this
// package. It wraps os/exec with the driver's fail-fast contract: a child
// process exiting non-zero aborts the calling step with a model.CLIError
// carrying the child's own exit status, so the status survives all the way
// to the driver's final os.Exit.
//
// Design decisions:
//   - Working directories are set via exec.Cmd.Dir, never os.Chdir. Each
//     invocation is scoped to its own directory and the driver's working
//     directory stays stable for relative-path resolution (the fixture
//     directory default is relative to where the driver was started).
//   - Run streams child stdout/stderr straight to the driver's own streams.
//     The driver adds no framing of its own: the build system invoking it
//     expects to see ctest and svn output verbatim.
package runner

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/maketest/internal/model"
)

// Available reports whether the given command resolves to an executable.
// Plain names are looked up on PATH; names containing a path separator are
// checked directly, matching shell invocation semantics.
func Available(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// Run executes a command in the specified working directory, streaming its
// stdout and stderr to the driver's own streams.
//
// If dir is empty the child inherits the driver's working directory.
// On a non-zero exit, the returned error is a model.CLIError whose Code is
// the child's exit status. If the process could not be started at all
// (e.g. the executable vanished between the PATH check and the exec), the
// error carries model.ExitGeneralError.
func Run(dir, command string, args ...string) error {
	// #nosec G204 — argv is assembled from config and internal constants,
	// not from untrusted input
	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return wrapRunError(command, args, err)
	}
	return nil
}

// Output executes a command in the specified working directory and returns
// its trimmed stdout. Stderr is captured separately and folded into the
// error message on failure, since callers of Output (branch inspection)
// want a value, not a transcript.
func Output(dir, command string, args ...string) (string, error) {
	// #nosec G204 — argv is assembled from config and internal constants,
	// not from untrusted input
	cmd := exec.Command(command, args...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		runErr := wrapRunError(command, args, err)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			runErr.Message = fmt.Sprintf("%s: %s", runErr.Message, msg)
		}
		return "", runErr
	}

	return strings.TrimSpace(stdout.String()), nil
}

// wrapRunError converts an exec failure into a CLIError. Exit statuses of
// started-but-failed children are preserved; start failures map to the
// general driver error code.
func wrapRunError(command string, args []string, err error) *model.CLIError {
	message := fmt.Sprintf("%s %s failed", command, strings.Join(args, " "))

	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() > 0 {
		return model.WrapCLIError(model.ExitCode(exitErr.ExitCode()), message, err)
	}

	// Start failure, or a child killed by a signal (ExitCode() == -1):
	// there is no meaningful child status to propagate.
	return model.WrapCLIError(model.ExitGeneralError, message, err)
}
