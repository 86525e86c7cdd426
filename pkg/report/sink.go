package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/praveenmunagapati/cppcheck/pkg/settings"
)

// progressInterval is the minimum spacing between progress messages.
const progressInterval = 10 * time.Second

// Sink is the single outlet for all run output. It owns the process-wide
// seen-set used for duplicate suppression, so one Sink instance is created
// per run and shared by everything that reports.
//
// Two channels exist: the error channel (diagnostics, deduplicated, plain or
// structured rendering) and the status channel (progress and counts, plain,
// never deduplicated). Callers from concurrent executors may share a Sink;
// all state is mutex-guarded and writes are line-atomic.
type Sink struct {
	mu  sync.Mutex
	out io.Writer // status channel
	err io.Writer // error channel

	xml        bool
	xmlVersion int
	verbose    bool

	styler *styler

	seen         map[string]struct{}
	progressFrom time.Time // zero means progress reporting is off
}

// NewSink creates a sink bound to the run settings. out receives status
// messages, errW receives diagnostics.
func NewSink(s *settings.Settings, out, errW io.Writer) *Sink {
	return &Sink{
		out:        out,
		err:        errW,
		xml:        s.XML,
		xmlVersion: s.XMLVersion,
		verbose:    s.Verbose,
		styler:     newStyler(errW),
		seen:       make(map[string]struct{}),
	}
}

// NewStdSink creates a sink on the process stdout/stderr.
func NewStdSink(s *settings.Settings) *Sink {
	return NewSink(s, os.Stdout, os.Stderr)
}

// Structured reports whether the run renders diagnostics in XML.
func (s *Sink) Structured() bool {
	return s.xml
}

// EnableProgress arms the progress throttle; before this call ReportProgress
// is a no-op.
func (s *Sink) EnableProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progressFrom = time.Now()
}

// WriteHeader emits the structured-mode opening bracket. A plain-mode sink
// ignores it.
func (s *Sink) WriteHeader() {
	if !s.xml {
		return
	}
	s.writeErrText(XMLHeader(s.xmlVersion))
}

// WriteFooter emits the structured-mode closing bracket.
func (s *Sink) WriteFooter() {
	if !s.xml {
		return
	}
	s.writeErrText(XMLFooter(s.xmlVersion))
}

// Report renders the record in the active mode and writes it to the error
// channel, unless the identical rendered text was already written during
// this run.
func (s *Sink) Report(r Record) {
	if s.xml {
		s.writeErrText(r.XML(s.verbose, s.xmlVersion))
		return
	}
	s.writeErrText(r.Plain(s.verbose))
}

// ReportInfo routes informational records through the error channel, like
// the engine's own diagnostics.
func (s *Sink) ReportInfo(r Record) {
	s.Report(r)
}

// writeErrText writes rendered text to the error channel at most once per
// run. The dedup key is the unstyled rendered string.
func (s *Sink) writeErrText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[text]; dup {
		return
	}
	s.seen[text] = struct{}{}

	line := text
	if !s.xml {
		line = s.styler.diagnostic(text)
	}
	fmt.Fprintln(s.err, line)
}

// ReportOut writes a status message. Status output is never deduplicated
// and never suppressed by the seen-set.
func (s *Sink) ReportOut(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, msg)
}

// Progress is the accounting snapshot reported after each analyzed file.
// All fields are monotonically non-decreasing across the run.
type Progress struct {
	FilesDone  int
	FilesTotal int
	BytesDone  uint64
	BytesTotal uint64
}

// ReportStatus writes the per-file status line. Lines are only emitted for
// runs over more than one file.
func (s *Sink) ReportStatus(p Progress) {
	if p.FilesTotal <= 1 {
		return
	}
	percent := 0
	if p.BytesTotal > 0 {
		percent = int(float64(p.BytesDone) / float64(p.BytesTotal) * 100)
	}
	s.ReportOut(fmt.Sprintf("%d/%d files checked %d%% done", p.FilesDone, p.FilesTotal, percent))
}

// ReportProgress writes a throttled per-stage progress message, at most one
// per 10 seconds, and only when progress reporting was enabled. The throttle
// window starts at EnableProgress, so messages within the first interval are
// deliberately swallowed too. The filename is accepted for interface symmetry
// but not part of the message.
func (s *Sink) ReportProgress(filename, stage string, value int) {
	s.mu.Lock()
	if s.progressFrom.IsZero() || time.Since(s.progressFrom) < progressInterval {
		s.mu.Unlock()
		return
	}
	s.progressFrom = time.Now()
	s.mu.Unlock()

	s.ReportOut(fmt.Sprintf("progress: %s %d%%", stage, value))
}
