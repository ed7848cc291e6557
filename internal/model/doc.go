// Package model defines the domain types and value objects for the
// maketest CLI.
//
// This package contains pure data structures with no external dependencies:
// the resolved external tool commands (ToolSet), the release-channel value
// object (ReleaseVersion), and the exit-code machinery (ExitCode, CLIError)
// that lets the CLI layer translate domain errors into OS process exit
// statuses.
//
// Everything here is transient. The driver runs once, front to back, and
// keeps no state between invocations.
package model
