// Package executor dispatches an analysis run over a prepared file set,
// either sequentially on the calling goroutine or delegated whole to a
// parallel worker pool.
package executor

import (
	"github.com/praveenmunagapati/cppcheck/pkg/engine"
	"github.com/praveenmunagapati/cppcheck/pkg/filelist"
	"github.com/praveenmunagapati/cppcheck/pkg/logging"
	"github.com/praveenmunagapati/cppcheck/pkg/report"
	"github.com/praveenmunagapati/cppcheck/pkg/settings"
)

// Parallel is the worker-pool collaborator. The dispatcher hands it the
// whole file set as one blocking call and uses its aggregate defect count
// verbatim; ordering, progress and the whole-session post-pass are the
// collaborator's responsibility.
type Parallel interface {
	// Supported reports whether the platform has a usable pool.
	Supported() bool

	// RunAll analyzes every file and returns the aggregate defect count.
	RunAll(files filelist.FileSet) int
}

// Dispatch runs the file set and returns the aggregate defect count.
//
// With one worker the set is analyzed in two passes: first every file that
// is not a process-after-code markup file, then the markup files that
// declared that preference. Markup analysis may depend on artifacts
// produced while analyzing the code files, hence the ordering.
//
// With more than one worker the whole set is delegated to the pool. If no
// pool is available the run degrades explicitly: an informational message
// and a zero-defect result, not a silent partial run.
func Dispatch(files filelist.FileSet, s *settings.Settings, eng engine.Engine, sink *report.Sink, pool Parallel) int {
	logger := logging.GetLogger("executor")

	if s.Jobs == 1 {
		return runSequential(files, s, eng, sink)
	}

	if pool == nil || !pool.Supported() {
		sink.ReportOut("No thread support yet implemented for this platform.")
		logger.Info().Int("jobs", s.Jobs).Msg("parallel execution unavailable, skipping analysis")
		return 0
	}

	logger.Debug().Int("jobs", s.Jobs).Int("files", len(files)).Msg("delegating to worker pool")
	return pool.RunAll(files)
}

// runSequential is the single-worker path: strictly synchronous, one file
// at a time, with per-file status accounting.
func runSequential(files filelist.FileSet, s *settings.Settings, eng engine.Engine, sink *report.Sink) int {
	lib := eng.Library()
	paths := files.Paths()

	progress := report.Progress{
		FilesTotal: len(paths),
		BytesTotal: files.TotalBytes(),
	}

	defects := 0
	process := func(path string) {
		defects += eng.Check(path)
		progress.FilesDone++
		progress.BytesDone += files[path]
		if !s.Quiet {
			sink.ReportStatus(progress)
		}
	}

	for _, path := range paths {
		if !lib.MarkupFile(path) || !lib.ProcessMarkupAfterCode(path) {
			process(path)
		}
	}

	// Second pass for markup files that cannot be parsed until all code
	// files have been analyzed.
	for _, path := range paths {
		if lib.MarkupFile(path) && lib.ProcessMarkupAfterCode(path) {
			process(path)
		}
	}

	return defects
}
