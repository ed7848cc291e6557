package cmake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/maketest/internal/model"
)

// writePresets writes a presets file with the given name into dir.
func writePresets(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
	require.NoError(t, err)
}

// TestResolveBinaryDir_Simple verifies lookup of a preset with an explicit
// absolute binaryDir.
func TestResolveBinaryDir_Simple(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir, "CMakePresets.json", `{
		"version": 3,
		"configurePresets": [
			{"name": "release", "binaryDir": "/builds/release"}
		]
	}`)

	got, err := ResolveBinaryDir(dir, "release")
	require.NoError(t, err)
	assert.Equal(t, "/builds/release", got)
}

// TestResolveBinaryDir_Macros verifies ${sourceDir} and ${presetName}
// expansion. ${presetName} must expand to the requested preset, not the
// ancestor that defined binaryDir.
func TestResolveBinaryDir_Macros(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir, "CMakePresets.json", `{
		"version": 3,
		"configurePresets": [
			{"name": "base", "binaryDir": "${sourceDir}/build/${presetName}"},
			{"name": "release", "inherits": "base"}
		]
	}`)

	got, err := ResolveBinaryDir(dir, "release")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "build", "release"), got)
}

// TestResolveBinaryDir_RelativeDir verifies that a relative binaryDir is
// resolved against the source directory, matching cmake --preset.
func TestResolveBinaryDir_RelativeDir(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir, "CMakePresets.json", `{
		"configurePresets": [
			{"name": "dev", "binaryDir": "build/dev"}
		]
	}`)

	got, err := ResolveBinaryDir(dir, "dev")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "build", "dev"), got)
}

// TestResolveBinaryDir_JSONC verifies that comments and trailing commas
// are tolerated, since presets files are hand-edited in practice.
func TestResolveBinaryDir_JSONC(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir, "CMakePresets.json", `{
		// project presets
		"configurePresets": [
			{
				"name": "release",
				"binaryDir": "/builds/release", /* frozen path */
			},
		],
	}`)

	got, err := ResolveBinaryDir(dir, "release")
	require.NoError(t, err)
	assert.Equal(t, "/builds/release", got)
}

// TestResolveBinaryDir_InheritsArray verifies the array form of inherits
// and that the chain is scanned in declaration order.
func TestResolveBinaryDir_InheritsArray(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir, "CMakePresets.json", `{
		"configurePresets": [
			{"name": "common"},
			{"name": "dirs", "binaryDir": "/builds/from-dirs"},
			{"name": "release", "inherits": ["common", "dirs"]}
		]
	}`)

	got, err := ResolveBinaryDir(dir, "release")
	require.NoError(t, err)
	assert.Equal(t, "/builds/from-dirs", got)
}

// TestResolveBinaryDir_UserPresetsWin verifies that CMakeUserPresets.json
// shadows the project presets file on name collisions.
func TestResolveBinaryDir_UserPresetsWin(t *testing.T) {
	dir := t.TempDir()
	writePresets(t, dir, "CMakePresets.json", `{
		"configurePresets": [
			{"name": "release", "binaryDir": "/builds/project"}
		]
	}`)
	writePresets(t, dir, "CMakeUserPresets.json", `{
		"configurePresets": [
			{"name": "release", "binaryDir": "/builds/user"}
		]
	}`)

	got, err := ResolveBinaryDir(dir, "release")
	require.NoError(t, err)
	assert.Equal(t, "/builds/user", got)
}

// TestResolveBinaryDir_Errors verifies the failure modes: no presets file,
// unknown preset, and a chain with no binaryDir anywhere.
func TestResolveBinaryDir_Errors(t *testing.T) {
	t.Run("no presets file", func(t *testing.T) {
		_, err := ResolveBinaryDir(t.TempDir(), "release")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no CMakePresets.json")
	})

	t.Run("unknown preset", func(t *testing.T) {
		dir := t.TempDir()
		writePresets(t, dir, "CMakePresets.json", `{
			"configurePresets": [{"name": "release", "binaryDir": "/b"}]
		}`)

		_, err := ResolveBinaryDir(dir, "debug")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown configure preset "debug"`)
	})

	t.Run("no binaryDir in chain", func(t *testing.T) {
		dir := t.TempDir()
		writePresets(t, dir, "CMakePresets.json", `{
			"configurePresets": [
				{"name": "base"},
				{"name": "release", "inherits": "base"}
			]
		}`)

		_, err := ResolveBinaryDir(dir, "release")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `configure preset "release" has no binaryDir`)

		cliErr, ok := err.(*model.CLIError)
		require.True(t, ok)
		assert.Equal(t, model.ExitGeneralError, cliErr.Code)
	})

	t.Run("cyclic inherits terminates", func(t *testing.T) {
		dir := t.TempDir()
		writePresets(t, dir, "CMakePresets.json", `{
			"configurePresets": [
				{"name": "a", "inherits": "b"},
				{"name": "b", "inherits": "a"}
			]
		}`)

		_, err := ResolveBinaryDir(dir, "a")
		require.Error(t, err)
	})
}

// TestVerifyConfigured verifies the CMakeCache.txt presence check.
func TestVerifyConfigured(t *testing.T) {
	dir := t.TempDir()

	err := VerifyConfigured(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a configured build directory")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "CMakeCache.txt"), []byte("# cache\n"), 0644))
	assert.NoError(t, VerifyConfigured(dir))
}
