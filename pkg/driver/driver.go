// Package driver owns one analysis run end to end: baseline configuration,
// file set preparation, dispatch (optionally under fault interception),
// post-run reporting and the process exit policy.
package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/praveenmunagapati/cppcheck/pkg/engine"
	cerr "github.com/praveenmunagapati/cppcheck/pkg/errors"
	"github.com/praveenmunagapati/cppcheck/pkg/executor"
	"github.com/praveenmunagapati/cppcheck/pkg/fault"
	"github.com/praveenmunagapati/cppcheck/pkg/filelist"
	"github.com/praveenmunagapati/cppcheck/pkg/logging"
	"github.com/praveenmunagapati/cppcheck/pkg/report"
	"github.com/praveenmunagapati/cppcheck/pkg/settings"
	"github.com/praveenmunagapati/cppcheck/pkg/suppress"
)

// Driver coordinates one run. Create one per run; the sink it carries owns
// the run's process-wide dedup state.
type Driver struct {
	settings *settings.Settings
	sink     *report.Sink
	supps    *suppress.Suppressions

	// pool overrides the default worker pool; tests and embedders use this.
	pool executor.Parallel
}

// New creates a driver for the given run configuration.
func New(s *settings.Settings, sink *report.Sink, supps *suppress.Suppressions) *Driver {
	if supps == nil {
		supps = suppress.New()
	}
	return &Driver{settings: s, sink: sink, supps: supps}
}

// SetPool replaces the parallel executor collaborator.
func (d *Driver) SetPool(pool executor.Parallel) {
	d.pool = pool
}

// Run analyzes the requested roots and returns the process exit code:
// 0 on success with zero defects, the configured error exit code when
// defects were found. Setup failures return a non-nil error; the caller
// maps those to the fixed failure exit code.
func (d *Driver) Run(roots []string) (int, error) {
	logger := logging.GetLogger("driver")
	defer logging.LogDuration(time.Now(), "run")

	s := d.settings

	lib, err := d.loadBaseline()
	if err != nil {
		return 0, err
	}

	rep := &filteringReporter{sink: d.sink, supps: d.supps}
	eng := engine.New(s, rep, lib)

	files, err := filelist.Prepare(roots, s, lib.MarkupExtensions(), d.sink)
	if err != nil {
		return 0, err
	}

	if s.ReportProgress {
		d.sink.EnableProgress()
	}

	pool := d.pool
	if pool == nil && s.Jobs > 1 {
		pool = executor.NewPool(s.Jobs, eng.Check)
	}

	d.sink.WriteHeader()

	run := func() int {
		defects := executor.Dispatch(files, s, eng, d.sink, pool)
		if s.Jobs == 1 {
			// The one whole-session post-pass. The parallel collaborator
			// owns this on its own path.
			eng.CheckFunctionUsage()
		}
		return defects
	}

	var defects int
	if s.ExceptionHandling {
		fault.SetOutput(s.ExceptionOutput)
		defects = fault.Protect(run)
	} else {
		defects = run()
	}

	d.reportUnmatchedSuppressions()
	d.reportMissingIncludes(eng)

	d.sink.WriteFooter()

	logger.Info().Int("defects", defects).Msg("run finished")
	if defects > 0 {
		return s.ExitCode, nil
	}
	return 0, nil
}

// loadBaseline loads the std baseline library, plus posix when requested.
// A failed load is fatal to the run with a message naming the missing
// resource and where it was expected.
func (d *Driver) loadBaseline() (*engine.Library, error) {
	s := d.settings

	lib := engine.NewLibrary()
	names := []string{"std"}
	if s.Standards.Posix {
		names = append(names, "posix")
	}

	for _, name := range names {
		if err := lib.Load(name, s.ConfigDir); err != nil {
			msg := fmt.Sprintf(
				"Failed to load %s.cfg. Your Cppcheck installation is broken, please re-install. "+
					"Expected the file in one of: %s.",
				name, strings.Join(engine.SearchPaths(s.ConfigDir), ", "))
			d.sink.ReportInfo(report.Record{
				Severity: report.SeverityInformation,
				Message:  msg,
				ID:       "failedToLoadCfg",
			})
			return nil, cerr.Wrap(err, cerr.ErrBaselineConfig, msg)
		}
	}
	return lib, nil
}

// reportUnmatchedSuppressions emits one information diagnostic per global
// suppression that never matched, when information checks are enabled.
func (d *Driver) reportUnmatchedSuppressions() {
	s := d.settings
	if !s.IsEnabled("information") && !s.CheckConfiguration {
		return
	}
	for _, rule := range d.supps.UnmatchedGlobal() {
		d.sink.ReportInfo(report.Record{
			Severity: report.SeverityInformation,
			Message:  "Unmatched suppression: " + rule.ID,
			ID:       "unmatchedSuppression",
		})
	}
}

// reportMissingIncludes emits the missing-include advisory after the run.
func (d *Driver) reportMissingIncludes(eng engine.Engine) {
	s := d.settings
	if s.CheckConfiguration || !s.IsEnabled("missingInclude") || !eng.MissingIncludes() {
		return
	}
	d.sink.ReportInfo(report.Record{
		Severity: report.SeverityInformation,
		Message:  "Cppcheck cannot find all the include files (use --check-config for details)",
		Verbose: "Cppcheck cannot find all the include files. Cppcheck can check the code without the " +
			"include files found. But the results will probably be more accurate if all the include " +
			"files are found. Please check your project's include directories and add all of them " +
			"as include directories for Cppcheck. To see what files Cppcheck cannot find use " +
			"--check-config.",
		ID: "missingInclude",
	})
}

// filteringReporter drops suppressed diagnostics before they reach the sink.
type filteringReporter struct {
	sink  *report.Sink
	supps *suppress.Suppressions
}

func (f *filteringReporter) Report(r report.Record) {
	if f.supps.IsSuppressed(r) {
		return
	}
	f.sink.Report(r)
}

func (f *filteringReporter) ReportInfo(r report.Record) {
	f.Report(r)
}
