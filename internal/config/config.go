// Package config loads the optional maketest config file.
//
// Build farms run the driver from wrapper makefiles where repeating tool
// overrides on every invocation is noisy, so the same settings can live in
// a `.maketest.yml` next to where the driver is invoked:
//
//	ctest-command: ctest3
//	cmake-command: /opt/cmake/bin/cmake
//	repo-url: https://mirror.internal/svnroot/libraries
//	tests-dir: ../lib/tests
//	ctest-args: ["-j", "8"]
//
// Precedence is defaults < config file < command-line flags; merging happens
// in the CLI layer via model.ToolSet.Merge. A missing config file is not an
// error unless the user pointed at one explicitly with --config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/maketest/internal/model"
)

// DefaultFileName is the config file looked up in the invocation directory
// when --config is not given.
const DefaultFileName = ".maketest.yml"

// File holds the values read from a maketest config file. The zero value
// means "nothing configured" and merges as a no-op.
type File struct {
	// Tool command overrides. Empty fields fall through to defaults.
	CTestCommand string `yaml:"ctest-command"`
	CMakeCommand string `yaml:"cmake-command"`
	SVNCommand   string `yaml:"svn-command"`
	GitCommand   string `yaml:"git-command"`

	// RepoURL overrides the fixture repository root, typically to point
	// at an internal mirror.
	RepoURL string `yaml:"repo-url"`

	// TestsDir overrides the fixture directory location.
	TestsDir string `yaml:"tests-dir"`

	// CTestArgs are extra arguments appended to the final ctest
	// invocation, after the fixed ". --output-on-failure".
	CTestArgs []string `yaml:"ctest-args"`
}

// ToolSet converts the file's tool overrides into a ToolSet overlay
// suitable for model.ToolSet.Merge.
func (f *File) ToolSet() model.ToolSet {
	return model.ToolSet{
		CTest: f.CTestCommand,
		CMake: f.CMakeCommand,
		SVN:   f.SVNCommand,
		Git:   f.GitCommand,
	}
}

// Load reads and parses the config file at path. The file must exist:
// this is the --config code path, where a missing file is a user error.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read config file %s", path), err)
	}
	return parse(path, data)
}

// LoadDefault looks for DefaultFileName in dir and parses it if present.
// A missing file returns an empty File and no error.
func LoadDefault(dir string) (*File, error) {
	path := filepath.Join(dir, DefaultFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &File{}, nil
	}
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read config file %s", path), err)
	}
	return parse(path, data)
}

// parse decodes config YAML with strict field checking, so a typo'd key
// fails loudly instead of being silently ignored.
func parse(path string, data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		// An empty file decodes to io.EOF; treat it as an empty config
		// rather than an error, matching a file of only comments.
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return &f, nil
}
