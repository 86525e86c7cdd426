// Package engine defines the analysis-engine boundary the driver runs
// against: per-file checking, whole-session checks and the baseline library
// configuration that must load before any file is analyzed.
//
// The driver only depends on the Engine interface; the default
// implementation dispatches to registered checkers and carries no analysis
// logic of its own.
package engine

import (
	"os"

	"github.com/praveenmunagapati/cppcheck/pkg/logging"
	"github.com/praveenmunagapati/cppcheck/pkg/report"
	"github.com/praveenmunagapati/cppcheck/pkg/settings"
)

// Reporter is the subset of the sink the engine emits through.
type Reporter interface {
	Report(r report.Record)
	ReportInfo(r report.Record)
}

// Engine is the analysis collaborator contract.
type Engine interface {
	// Check analyzes one file and returns its defect count. A per-file
	// failure is recovered locally: it never aborts the run.
	Check(path string) int

	// CheckFunctionUsage runs the cross-file, whole-session checks. Called
	// exactly once after the sequential file loop.
	CheckFunctionUsage()

	// Library returns the loaded baseline configuration.
	Library() *Library

	// MissingIncludes reports whether any analyzed file referenced headers
	// that could not be found.
	MissingIncludes() bool

	// ErrorCatalog lists every diagnostic the engine can produce, for the
	// --errorlist listing.
	ErrorCatalog() []report.Record
}

// DefaultEngine runs the registered checkers over each file.
type DefaultEngine struct {
	settings *settings.Settings
	reporter Reporter
	library  *Library
	checkers []Checker

	missingIncludes bool
}

// New creates an engine with the given settings, reporter and library.
func New(s *settings.Settings, rep Reporter, lib *Library) *DefaultEngine {
	return &DefaultEngine{
		settings: s,
		reporter: rep,
		library:  lib,
		checkers: RegisteredCheckers(),
	}
}

// Check reads the file and runs every registered checker over it. Unreadable
// files count as zero defects; the failure is visible through the engine's
// own diagnostics, not as a driver-level error.
func (e *DefaultEngine) Check(path string) int {
	logger := logging.GetLogger("engine")

	contents, err := os.ReadFile(path)
	if err != nil {
		logger.Debug().Str("file", path).Err(err).Msg("could not read file")
		e.reporter.Report(report.Record{
			Severity:  report.SeverityError,
			Message:   "File could not be read: " + err.Error(),
			ID:        "fileNotRead",
			Locations: []report.Location{{File: path, Line: 0}},
		})
		return 0
	}

	defects := 0
	for _, c := range e.checkers {
		defects += c.Run(path, contents, e.reporter)
	}
	return defects
}

// CheckFunctionUsage runs the whole-session pass of every checker.
func (e *DefaultEngine) CheckFunctionUsage() {
	for _, c := range e.checkers {
		if wp, ok := c.(WholeSessionChecker); ok {
			wp.Finish(e.reporter)
		}
	}
}

// Library returns the baseline configuration.
func (e *DefaultEngine) Library() *Library {
	return e.library
}

// MissingIncludes reports whether missing headers were seen.
func (e *DefaultEngine) MissingIncludes() bool {
	return e.missingIncludes
}

// FlagMissingInclude records that a referenced header was not found.
func (e *DefaultEngine) FlagMissingInclude() {
	e.missingIncludes = true
}

// ErrorCatalog aggregates the catalogs of all registered checkers.
func (e *DefaultEngine) ErrorCatalog() []report.Record {
	var catalog []report.Record
	for _, c := range e.checkers {
		catalog = append(catalog, c.Catalog()...)
	}
	return catalog
}
