// Package report implements the diagnostic sink: rendering, exact-duplicate
// suppression and status/progress output. Everything downstream consumers
// see goes through a Sink.
package report

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityStyle       Severity = "style"
	SeverityPerformance Severity = "performance"
	SeverityPortability Severity = "portability"
	SeverityInformation Severity = "information"
	SeverityDebug       Severity = "debug"
)

// Location is one (file, line) pair of a diagnostic trace. The first
// location is the primary one; the rest lead up to it.
type Location struct {
	File string
	Line int
}

// Record is a single diagnostic produced by the engine or the driver.
type Record struct {
	Severity Severity
	// Message is the short, single-line text. Verbose optionally carries the
	// long description shown with --verbose.
	Message string
	Verbose string
	// ID is the stable diagnostic identifier (e.g. "nullPointer").
	ID        string
	Locations []Location
}

// Plain renders the record in the human-readable form:
//
//	[a.c:2] -> [b.c:7]: (error) message
func (r Record) Plain(verbose bool) string {
	var sb strings.Builder
	if len(r.Locations) > 0 {
		parts := make([]string, len(r.Locations))
		for i, loc := range r.Locations {
			parts[i] = fmt.Sprintf("[%s:%d]", loc.File, loc.Line)
		}
		sb.WriteString(strings.Join(parts, " -> "))
		sb.WriteString(": ")
	}
	sb.WriteString(fmt.Sprintf("(%s) ", r.Severity))
	if verbose && r.Verbose != "" {
		sb.WriteString(r.Verbose)
	} else {
		sb.WriteString(r.Message)
	}
	return sb.String()
}
