package filelist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/praveenmunagapati/cppcheck/pkg/errors"
	"github.com/praveenmunagapati/cppcheck/pkg/settings"
)

// statusRecorder captures the warnings Prepare emits.
type statusRecorder struct {
	lines []string
}

func (r *statusRecorder) ReportOut(msg string) {
	r.lines = append(r.lines, msg)
}

func TestPrepareMissingIncludePathWarnsAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int x;")

	s := settings.Default()
	s.IncludePaths = []string{filepath.Join(dir, "no-such-dir"), dir}
	status := &statusRecorder{}

	files, err := Prepare([]string{dir}, s, nil, status)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	require.Len(t, status.lines, 1)
	assert.Contains(t, status.lines[0], "Couldn't find path given by -I")
	assert.Contains(t, status.lines[0], "no-such-dir")

	// The missing path is gone from the active set, the valid one stays.
	assert.Equal(t, []string{dir}, s.IncludePaths)
}

func TestPrepareQuietSuppressesIncludeWarning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int x;")

	s := settings.Default()
	s.Quiet = true
	s.IncludePaths = []string{filepath.Join(dir, "no-such-dir")}
	status := &statusRecorder{}

	_, err := Prepare([]string{dir}, s, nil, status)
	require.NoError(t, err)
	assert.Empty(t, status.lines)
	assert.Empty(t, s.IncludePaths)
}

func TestPrepareNoInputFound(t *testing.T) {
	dir := t.TempDir()

	s := settings.Default()
	_, err := Prepare([]string{dir}, s, nil, &statusRecorder{})

	require.Error(t, err)
	assert.True(t, cerr.IsErrorCode(err, cerr.ErrNoInputFound))
	assert.Contains(t, err.Error(), "could not find or open any of the paths given")
}

func TestPrepareAllInputExcluded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int x;")

	s := settings.Default()
	s.IgnoredPaths = []string{"*.c"}
	_, err := Prepare([]string{dir}, s, nil, &statusRecorder{})

	require.Error(t, err)
	assert.True(t, cerr.IsErrorCode(err, cerr.ErrAllInputExcluded))
	// Distinct from the nothing-found condition.
	assert.False(t, cerr.IsErrorCode(err, cerr.ErrNoInputFound))
}

func TestPrepareHeaderExclusionRulesStripped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int x;")

	s := settings.Default()
	s.IgnoredPaths = []string{"api.h", "impl.hpp", "gen/"}
	status := &statusRecorder{}

	files, err := Prepare([]string{dir}, s, nil, status)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	// One combined warning no matter how many header rules existed.
	warned := 0
	for _, line := range status.lines {
		if line == "cppcheck: filename exclusion does not apply to header (.h and .hpp) files." {
			warned++
		}
	}
	assert.Equal(t, 1, warned)

	// Header rules are gone from the active set, the valid rule stays.
	assert.Equal(t, []string{"gen/"}, s.IgnoredPaths)
}

func TestPrepareExclusionKeepsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.c", "int x;")
	writeFile(t, dir, "skip/drop.c", "int y;")

	s := settings.Default()
	s.IgnoredPaths = []string{"skip/"}

	files, err := Prepare([]string{dir}, s, nil, &statusRecorder{})
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Contains(t, files.Paths()[0], "keep.c")
}
