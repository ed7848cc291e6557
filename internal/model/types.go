package model

import (
	"fmt"
	"strings"
)

// Default tool command names. These are the conventional executable names
// looked up on PATH when no override is supplied via flag or config file.
const (
	DefaultCTestCommand = "ctest"
	DefaultCMakeCommand = "cmake"
	DefaultSVNCommand   = "svn"
	DefaultGitCommand   = "git"
)

// ToolSet holds the resolved command names (or paths) for every external
// executable the driver invokes. Values are merged from three layers, in
// increasing precedence: built-in defaults, the optional config file, and
// command-line flags.
//
// A ToolSet never stores resolved absolute paths — names are handed to
// os/exec as-is, so PATH lookup semantics stay identical to invoking the
// tool from a shell.
type ToolSet struct {
	// CTest is the test-runner command, invoked inside the build directory.
	CTest string

	// CMake is the build-configurator command, re-invoked after a fixture
	// fetch so new test files are registered.
	CMake string

	// SVN is the client used to check out fixture files on demand.
	SVN string

	// Git is the client used to inspect the current branch name for
	// release-channel detection.
	Git string
}

// DefaultToolSet returns a ToolSet populated with the conventional
// command names.
func DefaultToolSet() ToolSet {
	return ToolSet{
		CTest: DefaultCTestCommand,
		CMake: DefaultCMakeCommand,
		SVN:   DefaultSVNCommand,
		Git:   DefaultGitCommand,
	}
}

// Merge returns a copy of the receiver with every non-empty field of over
// taking precedence. This implements the defaults ← config ← flags layering:
// callers start from DefaultToolSet and merge each layer in order.
func (t ToolSet) Merge(over ToolSet) ToolSet {
	merged := t
	if over.CTest != "" {
		merged.CTest = over.CTest
	}
	if over.CMake != "" {
		merged.CMake = over.CMake
	}
	if over.SVN != "" {
		merged.SVN = over.SVN
	}
	if over.Git != "" {
		merged.Git = over.Git
	}
	return merged
}

// ReleaseVersion identifies the release channel of the current checkout.
//
// A non-empty value (e.g. "v4.0") means the working tree is on a numbered
// release branch, and fixture files are fetched from that version's tag.
// The empty string is the development sentinel: fixtures come from trunk.
type ReleaseVersion string

// Development is the sentinel ReleaseVersion for in-development builds.
const Development ReleaseVersion = ""

// IsRelease reports whether this is a numbered release build rather than
// a development build.
func (v ReleaseVersion) IsRelease() bool {
	return v != Development
}

// String returns the version identifier, or "development" for the sentinel,
// for use in human-readable output.
func (v ReleaseVersion) String() string {
	if !v.IsRelease() {
		return "development"
	}
	return string(v)
}

// ExitCode defines the CLI exit codes. The driver's contract is
// deliberately narrow: 0 for success, 1 for any driver-level failure
// (most importantly a missing prerequisite tool), and otherwise the
// unmodified exit status of whichever external command failed.
type ExitCode int

const (
	// ExitSuccess indicates the test run completed and passed.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates a driver-level failure: a prerequisite
	// tool missing from PATH, an unusable build directory, or a config
	// error. Subprocess failures do NOT use this code — they propagate
	// the child's own exit status.
	ExitGeneralError ExitCode = 1
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS. For wrapped subprocess
	// failures this is the child process's exit status.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ToolNotFoundError builds the fail-fast error reported when a required
// external tool cannot be resolved on PATH. The message format is part of
// the CLI contract ("<tool> not found, can't <activity>") and is matched
// by build-system wrappers, so it must stay stable.
func ToolNotFoundError(tool, activity string) *CLIError {
	return NewCLIError(ExitGeneralError, fmt.Sprintf("%s not found, can't %s", tool, activity))
}

// JoinURL joins a base URL and a path segment with exactly one slash,
// regardless of whether the base carries a trailing slash. SVN is strict
// about doubled slashes in checkout URLs, so construction goes through
// this helper everywhere.
func JoinURL(base, segment string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(segment, "/")
}
