// preset.go resolves CMake configure presets to build directories.
//
// When the driver is invoked with --preset instead of an explicit build
// directory, the build directory is the `binaryDir` of the named configure
// preset, looked up across CMakeUserPresets.json (user-local overrides,
// higher precedence) and CMakePresets.json in the source directory.
//
// Only the subset of the presets schema needed to locate a build directory
// is modeled: preset names, `inherits` chains, and `binaryDir` with the
// ${sourceDir} and ${presetName} macros. Presets often leave binaryDir to
// an inherited base preset, so inheritance has to be followed.
package cmake

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/maketest/internal/model"
)

// presetsFileNames are the files consulted for configure presets, in
// precedence order. CMake itself gives user presets priority over the
// project's checked-in presets.
var presetsFileNames = []string{"CMakeUserPresets.json", "CMakePresets.json"}

// presetsFile represents the subset of a CMake presets file the driver
// reads. Other fields (version, generators, cache variables, build and
// test presets) are silently ignored during parsing.
type presetsFile struct {
	ConfigurePresets []configurePreset `json:"configurePresets"`
}

// configurePreset models a single entry of the configurePresets array.
type configurePreset struct {
	// Name is the preset identifier matched against --preset.
	Name string `json:"name"`

	// Inherits lists base presets this one inherits from. The schema
	// allows a single string or an array of strings, so the raw value
	// is decoded leniently in UnmarshalJSON.
	Inherits []string `json:"-"`

	// BinaryDir is the build directory, possibly containing
	// ${sourceDir} and ${presetName} macros. Empty if inherited.
	BinaryDir string `json:"binaryDir"`
}

// UnmarshalJSON decodes a configure preset, accepting both the string and
// the string-array form of the `inherits` field.
func (p *configurePreset) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string          `json:"name"`
		Inherits  json.RawMessage `json:"inherits"`
		BinaryDir string          `json:"binaryDir"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Name = raw.Name
	p.BinaryDir = raw.BinaryDir

	if len(raw.Inherits) == 0 {
		return nil
	}

	// Try the array form first, then fall back to a single string.
	var list []string
	if err := json.Unmarshal(raw.Inherits, &list); err == nil {
		p.Inherits = list
		return nil
	}
	var single string
	if err := json.Unmarshal(raw.Inherits, &single); err != nil {
		return fmt.Errorf("preset %q: invalid inherits field: %w", raw.Name, err)
	}
	p.Inherits = []string{single}
	return nil
}

// ResolveBinaryDir returns the absolute build directory for the named
// configure preset defined under sourceDir.
//
// The lookup merges presets from CMakeUserPresets.json and
// CMakePresets.json (user presets win on name collisions), follows
// `inherits` chains until a binaryDir is found, and expands the
// ${sourceDir} and ${presetName} macros. ${presetName} expands to the
// name of the preset that was asked for, not the ancestor that defined
// binaryDir, matching CMake's own macro semantics.
func ResolveBinaryDir(sourceDir, presetName string) (string, error) {
	presets, err := loadPresets(sourceDir)
	if err != nil {
		return "", err
	}
	if len(presets) == 0 {
		return "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("no CMakePresets.json found in %s", sourceDir))
	}

	binaryDir, err := lookupBinaryDir(presets, presetName, map[string]bool{})
	if err == errNoBinaryDir {
		return "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("configure preset %q has no binaryDir", presetName))
	}
	if err != nil {
		return "", err
	}

	expanded := expandMacros(binaryDir, sourceDir, presetName)
	if !filepath.IsAbs(expanded) {
		// Relative binaryDir values are relative to the source directory,
		// same as cmake --preset.
		expanded = filepath.Join(sourceDir, expanded)
	}
	return filepath.Clean(expanded), nil
}

// loadPresets reads and merges the presets files under sourceDir.
// Missing files are skipped; a present-but-unparsable file is an error.
// Returns nil (not an error) when no presets file exists at all, so the
// caller can distinguish "no presets" from "empty presets".
func loadPresets(sourceDir string) (map[string]configurePreset, error) {
	var presets map[string]configurePreset

	for _, name := range presetsFileNames {
		path := filepath.Join(sourceDir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to read %s", path), err)
		}

		var file presetsFile
		// jsonc.ToJSON strips comments and trailing commas, yielding
		// strict JSON for the standard decoder.
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to parse %s", path), err)
		}

		if presets == nil {
			presets = make(map[string]configurePreset)
		}
		for _, p := range file.ConfigurePresets {
			// First file wins: user presets shadow project presets.
			if _, exists := presets[p.Name]; !exists {
				presets[p.Name] = p
			}
		}
	}

	return presets, nil
}

// errNoBinaryDir signals that a preset (and its whole inherits chain)
// defines no binaryDir. Internal to the lookup; translated into a
// CLIError with the originally requested preset's name by the caller.
var errNoBinaryDir = errors.New("no binaryDir in inherits chain")

// lookupBinaryDir finds the binaryDir for a preset, following inherits
// chains depth-first in declaration order. The seen map makes the walk
// terminate on diamond inheritance and cycles: a preset already visited
// contributes nothing on a second visit.
func lookupBinaryDir(presets map[string]configurePreset, name string, seen map[string]bool) (string, error) {
	if seen[name] {
		return "", errNoBinaryDir
	}
	seen[name] = true

	preset, ok := presets[name]
	if !ok {
		return "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("unknown configure preset %q", name))
	}

	if preset.BinaryDir != "" {
		return preset.BinaryDir, nil
	}

	for _, base := range preset.Inherits {
		binaryDir, err := lookupBinaryDir(presets, base, seen)
		if err == nil {
			return binaryDir, nil
		}
		// A base without binaryDir is fine — keep scanning the chain.
		// Unknown bases propagate.
		if err != errNoBinaryDir {
			return "", err
		}
	}

	return "", errNoBinaryDir
}

// expandMacros substitutes the supported presets macros in a binaryDir value.
func expandMacros(binaryDir, sourceDir, presetName string) string {
	expanded := strings.ReplaceAll(binaryDir, "${sourceDir}", sourceDir)
	expanded = strings.ReplaceAll(expanded, "${presetName}", presetName)
	return expanded
}
