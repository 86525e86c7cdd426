package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveenmunagapati/cppcheck/pkg/engine"
	cerr "github.com/praveenmunagapati/cppcheck/pkg/errors"
	"github.com/praveenmunagapati/cppcheck/pkg/executor"
	"github.com/praveenmunagapati/cppcheck/pkg/filelist"
	"github.com/praveenmunagapati/cppcheck/pkg/report"
	"github.com/praveenmunagapati/cppcheck/pkg/settings"
	"github.com/praveenmunagapati/cppcheck/pkg/suppress"
)

// bugChecker reports one error per "BUG" marker in the file.
type bugChecker struct{}

func (bugChecker) Name() string { return "bugHunter" }

func (bugChecker) Run(path string, contents []byte, rep engine.Reporter) int {
	n := bytes.Count(contents, []byte("BUG"))
	for i := 0; i < n; i++ {
		rep.Report(report.Record{
			Severity:  report.SeverityError,
			Message:   "Planted bug marker",
			ID:        "bugHunter",
			Locations: []report.Location{{File: path, Line: i + 1}},
		})
	}
	return n
}

func (bugChecker) Catalog() []report.Record {
	return []report.Record{{Severity: report.SeverityError, Message: "Planted bug marker", ID: "bugHunter"}}
}

func init() {
	engine.RegisterChecker(bugChecker{})
}

// newRun builds a settings value with a baseline cfg dir and a source tree.
func newRun(t *testing.T, sources map[string]string) (*settings.Settings, string) {
	t.Helper()

	cfgDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "std.cfg"), []byte(`
[library]
functions = ["memcpy"]
`), 0644))

	srcDir := t.TempDir()
	for name, content := range sources {
		path := filepath.Join(srcDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	s := settings.Default()
	s.ConfigDir = cfgDir
	return s, srcDir
}

func runDriver(t *testing.T, s *settings.Settings, supps *suppress.Suppressions, roots ...string) (int, string, string, error) {
	t.Helper()
	var out, errW bytes.Buffer
	sink := report.NewSink(s, &out, &errW)
	code, err := New(s, sink, supps).Run(roots)
	return code, out.String(), errW.String(), err
}

func TestRunReportsDefectsAndExitCode(t *testing.T) {
	s, src := newRun(t, map[string]string{
		"a.c": "BUG one BUG two",
		"b.c": "clean",
	})
	s.ExitCode = 3

	code, out, errOut, err := runDriver(t, s, nil, src)
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	assert.Equal(t, 2, strings.Count(errOut, "Planted bug marker"))

	statusLines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, statusLines, 2)
	assert.Contains(t, statusLines[0], "1/2 files checked")
	assert.Contains(t, statusLines[1], "2/2 files checked")
	assert.Contains(t, statusLines[1], "100% done")
}

func TestRunCleanTreeExitsZero(t *testing.T) {
	s, src := newRun(t, map[string]string{"b.c": "clean"})
	s.ExitCode = 3

	code, _, errOut, err := runDriver(t, s, nil, src)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, errOut)
}

func TestRunQuietSuppressesStatus(t *testing.T) {
	s, src := newRun(t, map[string]string{"a.c": "x", "b.c": "y"})
	s.Quiet = true

	_, out, _, err := runDriver(t, s, nil, src)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunBaselineLoadFailureIsFatal(t *testing.T) {
	s := settings.Default()
	s.ConfigDir = t.TempDir() // no std.cfg inside

	_, _, errOut, err := runDriver(t, s, nil, t.TempDir())
	require.Error(t, err)
	assert.True(t, cerr.IsErrorCode(err, cerr.ErrBaselineConfig))
	assert.Contains(t, errOut, "Failed to load std.cfg")
}

func TestRunAllPathsIgnoredFailsBeforeDispatch(t *testing.T) {
	s, src := newRun(t, map[string]string{"a.c": "BUG"})
	s.IgnoredPaths = []string{"*.c"}
	s.XML = true

	_, _, errOut, err := runDriver(t, s, nil, src)
	require.Error(t, err)
	assert.True(t, cerr.IsErrorCode(err, cerr.ErrAllInputExcluded))
	// Nothing was dispatched: not even the structured header was written.
	assert.Empty(t, errOut)
}

func TestRunStructuredBracketsWrittenOnce(t *testing.T) {
	s, src := newRun(t, map[string]string{"b.c": "clean"})
	s.XML = true
	s.XMLVersion = 2

	_, _, errOut, err := runDriver(t, s, nil, src)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(errOut, `<results version="2">`))
	assert.Equal(t, 1, strings.Count(errOut, "</results>"))
}

func TestRunSuppressedDiagnosticsNotReported(t *testing.T) {
	s, src := newRun(t, map[string]string{"a.c": "BUG"})

	supps := suppress.New()
	require.NoError(t, supps.Parse("bugHunter"))

	_, _, errOut, err := runDriver(t, s, supps, src)
	require.NoError(t, err)
	assert.NotContains(t, errOut, "Planted bug marker")
}

func TestRunUnmatchedSuppressionReported(t *testing.T) {
	s, src := newRun(t, map[string]string{"b.c": "clean"})
	s.Enable = "information"

	supps := suppress.New()
	require.NoError(t, supps.Parse("neverFires"))

	_, _, errOut, err := runDriver(t, s, supps, src)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Unmatched suppression: neverFires")
}

// stubPool stands in for the worker pool collaborator.
type stubPool struct {
	supported bool
	result    int
	got       filelist.FileSet
}

func (p *stubPool) Supported() bool { return p.supported }

func (p *stubPool) RunAll(files filelist.FileSet) int {
	p.got = files
	return p.result
}

func TestRunUnsupportedPoolDegrades(t *testing.T) {
	s, src := newRun(t, map[string]string{"a.c": "BUG"})
	s.Jobs = 4

	var out, errW bytes.Buffer
	sink := report.NewSink(s, &out, &errW)
	d := New(s, sink, nil)
	d.SetPool(&stubPool{supported: false})

	code, err := d.Run([]string{src})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "No thread support yet implemented for this platform.")
}

func TestRunDelegatesToPool(t *testing.T) {
	s, src := newRun(t, map[string]string{"a.c": "BUG", "b.c": "clean"})
	s.Jobs = 2
	s.ExitCode = 5

	var out, errW bytes.Buffer
	sink := report.NewSink(s, &out, &errW)
	d := New(s, sink, nil)
	pool := &stubPool{supported: true, result: 9}
	d.SetPool(pool)

	code, err := d.Run([]string{src})
	require.NoError(t, err)
	assert.Equal(t, 5, code)
	assert.Len(t, pool.got, 2)
}

func TestRunParallelDefaultPool(t *testing.T) {
	s, src := newRun(t, map[string]string{
		"a.c": "BUG BUG",
		"b.c": "BUG",
		"c.c": "clean",
	})
	s.Jobs = 2
	s.Quiet = true

	code, _, errOut, err := runDriver(t, s, nil, src)
	require.NoError(t, err)
	assert.Equal(t, s.ExitCode, code)
	assert.Equal(t, 3, strings.Count(errOut, "Planted bug marker"))
}

var _ executor.Parallel = (*stubPool)(nil)
