package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultToolSet verifies the conventional command names are used
// when no overrides are supplied.
func TestDefaultToolSet(t *testing.T) {
	ts := DefaultToolSet()

	assert.Equal(t, "ctest", ts.CTest)
	assert.Equal(t, "cmake", ts.CMake)
	assert.Equal(t, "svn", ts.SVN)
	assert.Equal(t, "git", ts.Git)
}

// TestToolSet_Merge verifies the layered merge semantics: non-empty fields
// of the overlay win, empty fields leave the base value untouched.
func TestToolSet_Merge(t *testing.T) {
	tests := []struct {
		name string
		base ToolSet
		over ToolSet
		want ToolSet
	}{
		{
			name: "empty overlay keeps base",
			base: DefaultToolSet(),
			over: ToolSet{},
			want: DefaultToolSet(),
		},
		{
			name: "single field override",
			base: DefaultToolSet(),
			over: ToolSet{CTest: "ctest3"},
			want: ToolSet{CTest: "ctest3", CMake: "cmake", SVN: "svn", Git: "git"},
		},
		{
			name: "full override",
			base: DefaultToolSet(),
			over: ToolSet{CTest: "/opt/ctest", CMake: "/opt/cmake", SVN: "/opt/svn", Git: "/opt/git"},
			want: ToolSet{CTest: "/opt/ctest", CMake: "/opt/cmake", SVN: "/opt/svn", Git: "/opt/git"},
		},
		{
			name: "layered merges stack",
			base: DefaultToolSet().Merge(ToolSet{CMake: "cmake-from-config"}),
			over: ToolSet{CMake: "cmake-from-flag"},
			want: ToolSet{CTest: "ctest", CMake: "cmake-from-flag", SVN: "svn", Git: "git"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.base.Merge(tt.over))
		})
	}
}

// TestReleaseVersion verifies the development sentinel and the human-readable
// string form used in verbose output.
func TestReleaseVersion(t *testing.T) {
	assert.False(t, Development.IsRelease())
	assert.Equal(t, "development", Development.String())

	v := ReleaseVersion("v4.0")
	assert.True(t, v.IsRelease())
	assert.Equal(t, "v4.0", v.String())
}

// TestCLIError verifies message formatting and error unwrapping for both
// plain and wrapped CLIErrors.
func TestCLIError(t *testing.T) {
	plain := NewCLIError(ExitGeneralError, "something went wrong")
	assert.Equal(t, "something went wrong", plain.Error())
	assert.Equal(t, ExitGeneralError, plain.Code)
	assert.Nil(t, plain.Unwrap())

	underlying := errors.New("permission denied")
	wrapped := WrapCLIError(ExitCode(8), "checkout failed", underlying)
	assert.Equal(t, "checkout failed: permission denied", wrapped.Error())
	assert.Equal(t, ExitCode(8), wrapped.Code)

	// errors.Is must see through the wrapper to the underlying error.
	require.ErrorIs(t, wrapped, underlying)
}

// TestToolNotFoundError verifies the stable diagnostic format that
// build-system wrappers match on.
func TestToolNotFoundError(t *testing.T) {
	err := ToolNotFoundError("ctest", "run tests")
	assert.Equal(t, "ctest not found, can't run tests", err.Error())
	assert.Equal(t, ExitGeneralError, err.Code)

	err = ToolNotFoundError("svn", "checkout test files")
	assert.Equal(t, "svn not found, can't checkout test files", err.Error())
}

// TestJoinURL verifies slash normalization between base URLs and appended
// path segments.
func TestJoinURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		segment string
		want    string
	}{
		{"no trailing slash", "https://svn.example.org/trunk/lib", "tests", "https://svn.example.org/trunk/lib/tests"},
		{"trailing slash on base", "https://svn.example.org/trunk/lib/", "tests", "https://svn.example.org/trunk/lib/tests"},
		{"leading slash on segment", "https://svn.example.org/trunk/lib", "/tests", "https://svn.example.org/trunk/lib/tests"},
		{"both slashes", "https://svn.example.org/trunk/lib/", "/tests", "https://svn.example.org/trunk/lib/tests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinURL(tt.base, tt.segment))
		})
	}
}
