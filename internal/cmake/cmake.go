// Package cmake wraps the build-configurator side of the driver: re-running
// CMake in an already-configured build directory, and resolving build
// directories from CMake configure presets.
//
// The presets files (CMakePresets.json / CMakeUserPresets.json) officially
// contain strict JSON, but in practice they are hand-edited and frequently
// carry comments and trailing commas, so this package uses
// github.com/tidwall/jsonc to strip JSONC extensions before parsing with
// the standard encoding/json library.
package cmake

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/maketest/internal/model"
	"github.com/shinji-kodama/maketest/internal/runner"
)

// Configure re-invokes the build configurator inside an existing build
// directory with no extra arguments, making it re-scan the source tree.
// This is how newly fetched fixture files get registered as tests: CTest
// only knows about tests that were present at configure time.
//
// A failed configure returns a model.CLIError carrying cmake's own exit
// status.
func Configure(cmakeCmd, buildDir string) error {
	return runner.Run(buildDir, cmakeCmd, ".")
}

// VerifyConfigured checks that the given directory looks like a configured
// CMake build directory (it contains a CMakeCache.txt). Used when the build
// directory comes from a preset, where a typo'd preset name would otherwise
// surface as an opaque ctest failure.
func VerifyConfigured(buildDir string) error {
	info, err := os.Stat(filepath.Join(buildDir, "CMakeCache.txt"))
	if err != nil || info.IsDir() {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%s is not a configured build directory (no CMakeCache.txt)", buildDir))
	}
	return nil
}
