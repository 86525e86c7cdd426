// Package settings holds the run-wide configuration shared by the driver,
// the executors and the report sink. A Settings value is built once at
// startup (flags plus optional project file) and treated as read-only for
// the rest of the run.
package settings

import (
	"runtime"
	"strings"
)

// Standards selects which language standard libraries are loaded as
// baseline configuration before any file is analyzed.
type Standards struct {
	Posix bool `koanf:"posix"`
}

// Settings is the run-wide configuration.
type Settings struct {
	// Jobs is the worker count. 1 means sequential, two-pass analysis.
	Jobs int `koanf:"jobs"`

	// Quiet suppresses status and progress output (errors only).
	Quiet bool `koanf:"quiet"`

	// XML selects structured output; XMLVersion is the schema version (1 or 2).
	XML        bool `koanf:"xml"`
	XMLVersion int  `koanf:"xml-version"`

	// ExitCode is returned by the process when the run finds any defects.
	ExitCode int `koanf:"error-exitcode"`

	// ExceptionHandling wraps the run in the fault interception layer.
	// ExceptionOutput selects where fault reports go: "stderr" or "stdout".
	ExceptionHandling bool   `koanf:"exception-handling"`
	ExceptionOutput   string `koanf:"exception-output"`

	// IncludePaths are the configured -I search paths; entries that do not
	// resolve to directories are dropped with a warning during preparation.
	IncludePaths []string `koanf:"include-paths"`

	// IgnoredPaths are exclusion patterns applied to the expanded file set.
	IgnoredPaths []string `koanf:"ignore"`

	// ReportProgress enables throttled per-stage progress messages.
	ReportProgress bool `koanf:"report-progress"`

	// Verbose expands diagnostic messages with their long description.
	Verbose bool `koanf:"verbose"`

	// CheckConfiguration only validates the configuration, without analysis.
	CheckConfiguration bool `koanf:"check-configuration"`

	// Enable lists additional check groups ("information", "missingInclude",
	// "unusedFunction", ...), comma separated as on the command line.
	Enable string `koanf:"enable"`

	// ConfigDir overrides the search location for baseline library files.
	// Empty means exe-adjacent cfg/ then the XDG config dirs.
	ConfigDir string `koanf:"config-dir"`

	Standards Standards `koanf:"standards"`
}

// Default returns settings with the documented defaults applied.
func Default() *Settings {
	return &Settings{
		Jobs:            1,
		XMLVersion:      1,
		ExitCode:        1,
		ExceptionOutput: "stderr",
	}
}

// IsEnabled reports whether an optional check group was requested.
func (s *Settings) IsEnabled(check string) bool {
	for _, part := range strings.Split(s.Enable, ",") {
		if strings.TrimSpace(part) == check {
			return true
		}
	}
	return false
}

// CaseSensitivePaths is the platform default for exclusion matching:
// case-insensitive on Windows, case-sensitive everywhere else.
func CaseSensitivePaths() bool {
	return runtime.GOOS != "windows"
}
