package driver

import (
	"fmt"
	"io"

	"github.com/praveenmunagapati/cppcheck/pkg/engine"
	"github.com/praveenmunagapati/cppcheck/pkg/report"
	"github.com/praveenmunagapati/cppcheck/pkg/settings"
)

// PrintErrorList writes the full catalog of diagnostics the engine can
// produce, bracketed by the structured header and footer, and returns.
// No baseline configuration is needed for the listing.
func PrintErrorList(s *settings.Settings, w io.Writer) {
	eng := engine.New(s, nopReporter{}, engine.NewLibrary())

	fmt.Fprintln(w, report.XMLHeader(s.XMLVersion))
	for _, rec := range eng.ErrorCatalog() {
		fmt.Fprintln(w, rec.XML(false, s.XMLVersion))
	}
	fmt.Fprintln(w, report.XMLFooter(s.XMLVersion))
}

type nopReporter struct{}

func (nopReporter) Report(report.Record)     {}
func (nopReporter) ReportInfo(report.Record) {}
